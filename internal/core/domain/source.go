package domain

import (
	"fmt"

	"go.trai.ch/zerr"
)

// SourceRef pins an external source tree to an exact revision and content
// hash. Fetching a ref either yields a tree whose archive hashes to
// ContentHash or fails; there is no fallback revision.
type SourceRef struct {
	// Owner is the repository owner (e.g., "LemmyNet").
	Owner string

	// Repo is the repository name (e.g., "lemmy-ui").
	Repo string

	// Rev is the exact revision: a tag or commit SHA.
	Rev string

	// ContentHash is the expected archive digest (e.g., "sha256:ab12...").
	ContentHash string
}

// Validate checks that the ref is fully pinned.
func (r SourceRef) Validate() error {
	switch {
	case r.Owner == "" || r.Repo == "":
		return zerr.With(ErrSourceFetchFailure, "reason", "ref missing owner or repo")
	case r.Rev == "":
		err := zerr.With(ErrSourceFetchFailure, "reason", "ref missing revision")
		return zerr.With(err, "repo", r.Owner+"/"+r.Repo)
	case r.ContentHash == "":
		err := zerr.With(ErrSourceFetchFailure, "reason", "ref missing content hash")
		return zerr.With(err, "repo", r.String())
	}
	return nil
}

// String returns the pinned identity, "owner/repo@rev".
func (r SourceRef) String() string {
	return fmt.Sprintf("%s/%s@%s", r.Owner, r.Repo, r.Rev)
}
