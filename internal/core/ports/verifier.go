package ports

// ArtifactVerifier checks that build products actually exist on disk before
// they are recorded.
//
//go:generate go run go.uber.org/mock/mockgen -source=verifier.go -destination=mocks/mock_verifier.go -package=mocks
type ArtifactVerifier interface {
	// Verify checks that every path (relative to root) exists. Returns an
	// error naming the first missing artifact.
	Verify(root string, paths []string) error
}
