// Package fetch implements the SourceFetcher port: content-addressed
// download, verification and extraction of pinned archives.
package fetch

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Lemventory/forge/internal/core/domain"
	"github.com/Lemventory/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	defaultCodeloadBase = "https://codeload.github.com"
	httpClientTimeout   = 10 * time.Minute
)

var _ ports.SourceFetcher = (*Fetcher)(nil)

// Fetcher implements ports.SourceFetcher. Every fetched archive lands in the
// store under its own content hash, so a tree that is already present is
// returned without touching the network.
type Fetcher struct {
	storeDir     string
	codeloadBase string
	httpClient   *http.Client
}

// NewFetcher creates a SourceFetcher backed by the default store directory.
func NewFetcher() (*Fetcher, error) {
	return newFetcherWith(filepath.Join(domain.DefaultStorePath(), "sources"), defaultCodeloadBase, nil)
}

// newFetcherWith creates a Fetcher with explicit store path, archive host and
// http client (used for testing).
func newFetcherWith(storeDir, codeloadBase string, client *http.Client) (*Fetcher, error) {
	cleanPath := filepath.Clean(storeDir)
	if err := os.MkdirAll(cleanPath, domain.DirPerm); err != nil {
		return nil, zerr.Wrap(err, "failed to create source store")
	}

	if client == nil {
		client = &http.Client{Timeout: httpClientTimeout}
	}

	return &Fetcher{
		storeDir:     cleanPath,
		codeloadBase: codeloadBase,
		httpClient:   client,
	}, nil
}

// Fetch downloads the ref's release tarball and unpacks it into the store.
func (f *Fetcher) Fetch(ctx context.Context, ref domain.SourceRef) (string, error) {
	if err := ref.Validate(); err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/%s/%s/tar.gz/%s", f.codeloadBase, ref.Owner, ref.Repo, ref.Rev)
	dir, err := f.FetchArchive(ctx, url, ref.ContentHash)
	if err != nil {
		return "", zerr.With(err, "source", ref.String())
	}
	return dir, nil
}

// FetchArchive downloads, verifies and unpacks one archive. The returned
// directory is the archive's tree with its single top-level directory
// stripped, addressed by the content hash.
func (f *Fetcher) FetchArchive(ctx context.Context, url, contentHash string) (string, error) {
	digest, ok := strings.CutPrefix(contentHash, "sha256:")
	if !ok || digest == "" {
		err := zerr.With(domain.ErrSourceFetchFailure, "reason", "pin has no sha256 content hash")
		return "", zerr.With(err, "content_hash", contentHash)
	}

	dest := filepath.Join(f.storeDir, digest)
	if _, err := os.Stat(dest); err == nil {
		return dest, nil
	}

	archive, err := f.download(ctx, url, digest)
	if err != nil {
		return "", err
	}
	defer os.Remove(archive) //nolint:errcheck // Best effort cleanup

	tmpDir, err := os.MkdirTemp(f.storeDir, ".unpack-*")
	if err != nil {
		return "", zerr.Wrap(err, "failed to create unpack dir")
	}
	defer os.RemoveAll(tmpDir) //nolint:errcheck // Best effort cleanup

	if err := extractTarGz(archive, tmpDir); err != nil {
		return "", zerr.With(err, "url", url)
	}

	if err := os.Rename(tmpDir, dest); err != nil {
		// A concurrent fetch may have produced the tree first; use it.
		if _, statErr := os.Stat(dest); statErr == nil {
			return dest, nil
		}
		return "", zerr.Wrap(err, "failed to publish fetched tree")
	}

	return dest, nil
}

// download streams the archive to a temp file while hashing it, and fails on
// any digest mismatch before a single byte is unpacked.
func (f *Fetcher) download(ctx context.Context, url, wantDigest string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrSourceFetchFailure.Error())
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrSourceFetchFailure.Error())
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		fetchErr := zerr.With(domain.ErrSourceFetchFailure, "status_code", resp.StatusCode)
		return "", zerr.With(fetchErr, "url", url)
	}

	tmpFile, err := os.CreateTemp(f.storeDir, ".download-*.tar.gz")
	if err != nil {
		return "", zerr.Wrap(err, "failed to create download file")
	}
	tmpName := tmpFile.Name()

	hasher := sha256.New()
	_, err = io.Copy(tmpFile, io.TeeReader(resp.Body, hasher))
	closeErr := tmpFile.Close()
	if err != nil {
		_ = os.Remove(tmpName)
		return "", zerr.Wrap(err, domain.ErrSourceFetchFailure.Error())
	}
	if closeErr != nil {
		_ = os.Remove(tmpName)
		return "", zerr.Wrap(closeErr, "failed to close download file")
	}

	gotDigest := hex.EncodeToString(hasher.Sum(nil))
	if gotDigest != wantDigest {
		_ = os.Remove(tmpName)
		mismatch := zerr.With(domain.ErrSourceFetchFailure, "expected", "sha256:"+wantDigest)
		mismatch = zerr.With(mismatch, "actual", "sha256:"+gotDigest)
		return "", zerr.With(mismatch, "url", url)
	}

	return tmpName, nil
}

// extractTarGz unpacks archive into dest, stripping the single top-level
// directory release tarballs wrap their content in.
func extractTarGz(archive, dest string) error {
	//nolint:gosec // Archive path is a store-owned temp file
	file, err := os.Open(archive)
	if err != nil {
		return zerr.Wrap(err, "failed to open archive")
	}
	defer func() {
		_ = file.Close()
	}()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return zerr.Wrap(err, domain.ErrSourceFetchFailure.Error())
	}
	defer func() {
		_ = gz.Close()
	}()

	reader := tar.NewReader(gz)
	for {
		header, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return zerr.Wrap(err, domain.ErrSourceFetchFailure.Error())
		}

		rel, ok := stripRoot(header.Name)
		if !ok {
			continue
		}

		target, err := secureJoin(dest, rel)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, domain.DirPerm); err != nil {
				return zerr.Wrap(err, "failed to create directory")
			}
		case tar.TypeReg:
			if err := writeFile(target, reader, header.FileInfo().Mode()); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if filepath.IsAbs(header.Linkname) {
				err := zerr.With(domain.ErrSourceFetchFailure, "reason", "archive contains absolute symlink")
				return zerr.With(err, "entry", header.Name)
			}
			if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
				return zerr.Wrap(err, "failed to create directory")
			}
			if err := os.Symlink(header.Linkname, target); err != nil {
				return zerr.Wrap(err, "failed to create symlink")
			}
		default:
			// Special entries (pax headers, devices) carry no tree content.
		}
	}
}

func writeFile(target string, reader io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create directory")
	}

	perm := os.FileMode(domain.FilePerm)
	if mode&0o111 != 0 {
		perm = 0o755
	}

	//nolint:gosec // Target is validated against the unpack root
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return zerr.Wrap(err, "failed to create file")
	}

	//nolint:gosec // Archive size is bounded by the verified download
	_, err = io.Copy(out, reader)
	closeErr := out.Close()
	if err != nil {
		return zerr.Wrap(err, "failed to write file")
	}
	if closeErr != nil {
		return zerr.Wrap(closeErr, "failed to close file")
	}
	return nil
}

// stripRoot removes the first path element of a tar entry name. Entries
// without content below the root are skipped.
func stripRoot(name string) (string, bool) {
	name = strings.TrimPrefix(name, "./")
	idx := strings.Index(name, "/")
	if idx < 0 {
		return "", false
	}
	rel := strings.TrimPrefix(name[idx+1:], "/")
	if rel == "" {
		return "", false
	}
	return rel, true
}

// secureJoin joins rel onto root and rejects entries that escape it.
func secureJoin(root, rel string) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(rel))
	if !strings.HasPrefix(target, root+string(filepath.Separator)) {
		err := zerr.With(domain.ErrSourceFetchFailure, "reason", "archive entry escapes unpack root")
		return "", zerr.With(err, "entry", rel)
	}
	return target, nil
}
