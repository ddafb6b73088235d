package watcher

var (
	ConvertEvent     = convertEvent
	DirectoriesUnder = directoriesUnder
)
