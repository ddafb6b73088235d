package ports

// TreeHasher computes content digests of files and directory trees.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type TreeHasher interface {
	// HashFile computes the digest of a single file's contents.
	HashFile(path string) (string, error)

	// HashTree computes a digest over every regular file under root,
	// stable across walk order and machines.
	HashTree(root string) (string, error)
}
