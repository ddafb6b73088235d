// Package build holds version information stamped at link time.
package build

// Version identifies the forge release.
// It defaults to "dev" and is overwritten by -ldflags on release builds.
var Version = "dev"
