// Package toolchain implements the ToolchainResolver port against an HTTP
// release index with a local on-disk cache.
package toolchain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/Lemventory/forge/internal/core/domain"
	"github.com/Lemventory/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	defaultIndexBase  = "https://releases.lemventory.dev/toolchains"
	httpClientTimeout = 30 * time.Second
)

// hostTriples maps GOOS/GOARCH pairs onto release triples. Platforms outside
// this map cannot build; there is deliberately no fallback triple.
var hostTriples = map[string]string{
	"linux/amd64":  "x86_64-unknown-linux-gnu",
	"linux/arm64":  "aarch64-unknown-linux-gnu",
	"darwin/amd64": "x86_64-apple-darwin",
	"darwin/arm64": "aarch64-apple-darwin",
}

var _ ports.ToolchainResolver = (*Resolver)(nil)

// Resolver implements ports.ToolchainResolver using the release index with
// local caching. Resolved archives land in the content-addressed store via
// the fetcher, so repeated resolutions of one pin never touch the network.
type Resolver struct {
	cacheDir   string
	indexBase  string
	httpClient *http.Client
	fetcher    ports.SourceFetcher
}

// Index is the release index answer for one channel/version pair: a map
// from target triple to the artifact that provides it.
type Index struct {
	Channel   string              `json:"channel"`
	Version   string              `json:"version"`
	Artifacts map[string]Artifact `json:"artifacts"`
}

// Artifact is one downloadable toolchain build.
type Artifact struct {
	URL    string         `json:"url"`
	Hash   string         `json:"hash"`
	Source SourceArtifact `json:"source,omitzero"`
}

// SourceArtifact is the optional standard-library source component shipped
// alongside a toolchain build.
type SourceArtifact struct {
	URL  string `json:"url,omitzero"`
	Hash string `json:"hash,omitzero"`
}

type cacheEntry struct {
	Spec      string    `json:"spec"`
	Index     Index     `json:"index"`
	Timestamp time.Time `json:"timestamp"`
}

// NewResolver creates a ToolchainResolver with the default cache directory
// and index endpoint.
func NewResolver(fetcher ports.SourceFetcher) (*Resolver, error) {
	return newResolverWith(domain.DefaultToolchainCachePath(), defaultIndexBase, nil, fetcher)
}

// newResolverWith creates a Resolver with explicit cache path, index base and
// http client (used for testing).
func newResolverWith(cacheDir, indexBase string, client *http.Client, fetcher ports.SourceFetcher) (*Resolver, error) {
	cleanPath := filepath.Clean(cacheDir)
	if err := os.MkdirAll(cleanPath, domain.DirPerm); err != nil {
		return nil, zerr.Wrap(err, "failed to create toolchain cache")
	}

	if client == nil {
		client = &http.Client{Timeout: httpClientTimeout}
	}

	return &Resolver{
		cacheDir:   cleanPath,
		indexBase:  indexBase,
		httpClient: client,
		fetcher:    fetcher,
	}, nil
}

// Resolve turns a pin into a concrete ToolchainSpec. It consults the local
// index cache first, then the release index, then materializes the archive
// for the host triple through the fetcher.
func (r *Resolver) Resolve(ctx context.Context, pin domain.ToolchainPin) (domain.ToolchainSpec, error) {
	if err := pin.Validate(); err != nil {
		return domain.ToolchainSpec{}, err
	}

	host, err := hostTriple()
	if err != nil {
		return domain.ToolchainSpec{}, err
	}

	index, err := r.loadIndex(ctx, pin)
	if err != nil {
		return domain.ToolchainSpec{}, err
	}

	artifact, ok := index.Artifacts[host]
	if !ok {
		err := zerr.With(domain.ErrUnresolvableToolchain, "spec", pin.Spec())
		return domain.ToolchainSpec{}, zerr.With(err, "triple", host)
	}

	target := host
	if len(pin.Targets) > 0 {
		target = pin.Targets[0]
		for _, triple := range pin.Targets {
			if _, ok := index.Artifacts[triple]; !ok {
				err := zerr.With(domain.ErrUnresolvableToolchain, "spec", pin.Spec())
				return domain.ToolchainSpec{}, zerr.With(err, "triple", triple)
			}
		}
	}

	rootDir, err := r.fetcher.FetchArchive(ctx, artifact.URL, artifact.Hash)
	if err != nil {
		return domain.ToolchainSpec{}, zerr.With(err, "spec", pin.Spec())
	}

	var sourcePath string
	if artifact.Source.URL != "" {
		sourcePath, err = r.fetcher.FetchArchive(ctx, artifact.Source.URL, artifact.Source.Hash)
		if err != nil {
			return domain.ToolchainSpec{}, zerr.With(err, "spec", pin.Spec())
		}
	}

	spec := domain.ToolchainSpec{
		Channel:         pin.Channel,
		CompilerVersion: pin.Version,
		HostTriple:      host,
		TargetTriple:    target,
		RootDir:         rootDir,
		BinDir:          filepath.Join(rootDir, "bin"),
		SourcePath:      sourcePath,
	}
	if err := spec.Validate(); err != nil {
		return domain.ToolchainSpec{}, err
	}

	return spec, nil
}

// loadIndex returns the index for a pin, from cache when present.
func (r *Resolver) loadIndex(ctx context.Context, pin domain.ToolchainPin) (*Index, error) {
	cachePath := r.cachePath(pin)
	if index, err := r.loadFromCache(cachePath); err == nil {
		return index, nil
	}

	index, err := r.queryIndex(ctx, pin)
	if err != nil {
		return nil, err
	}

	// A failed cache write costs a re-query later, nothing more.
	_ = r.saveToCache(cachePath, pin, index)

	return index, nil
}

func (r *Resolver) cachePath(pin domain.ToolchainPin) string {
	hash := sha256.Sum256([]byte(pin.Spec()))
	return filepath.Join(r.cacheDir, hex.EncodeToString(hash[:])+".json")
}

func (r *Resolver) loadFromCache(path string) (*Index, error) {
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, zerr.Wrap(err, "failed to read toolchain cache")
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, zerr.Wrap(err, domain.ErrCacheCorrupted.Error())
	}

	return &entry.Index, nil
}

func (r *Resolver) saveToCache(path string, pin domain.ToolchainPin, index *Index) error {
	entry := cacheEntry{
		Spec:      pin.Spec(),
		Index:     *index,
		Timestamp: time.Now(),
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal toolchain cache entry")
	}

	return atomicWriteFile(path, data)
}

// atomicWriteFile writes data to a file atomically by writing to a temp file
// and renaming it.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, "index-cache-*.json")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()

	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}

	if err := tmpFile.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// queryIndex fetches the index document for a channel/version pair.
func (r *Resolver) queryIndex(ctx context.Context, pin domain.ToolchainPin) (*Index, error) {
	url := fmt.Sprintf("%s/channels/%s/%s.json", r.indexBase, pin.Channel, pin.Version)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrIndexQueryFailed.Error())
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrIndexQueryFailed.Error())
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		notFound := zerr.With(domain.ErrUnresolvableToolchain, "channel", pin.Channel)
		return nil, zerr.With(notFound, "version", pin.Version)
	}

	if resp.StatusCode != http.StatusOK {
		queryErr := zerr.With(domain.ErrIndexQueryFailed, "status_code", resp.StatusCode)
		return nil, zerr.With(queryErr, "spec", pin.Spec())
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrIndexQueryFailed.Error())
	}

	var index Index
	if err := json.Unmarshal(body, &index); err != nil {
		return nil, zerr.Wrap(err, domain.ErrIndexParseFailed.Error())
	}

	if len(index.Artifacts) == 0 {
		empty := zerr.With(domain.ErrUnresolvableToolchain, "spec", pin.Spec())
		return nil, zerr.With(empty, "reason", "index lists no artifacts")
	}

	return &index, nil
}

// hostTriple maps the running platform onto its release triple.
func hostTriple() (string, error) {
	key := runtime.GOOS + "/" + runtime.GOARCH
	triple, ok := hostTriples[key]
	if !ok {
		err := zerr.With(domain.ErrUnresolvableToolchain, "platform", key)
		return "", zerr.With(err, "reason", "unsupported host platform")
	}
	return triple, nil
}
