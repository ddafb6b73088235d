// Package cas implements content addressed storage for build records.
package cas

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/Lemventory/forge/internal/core/domain"
	"github.com/Lemventory/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.BuildStore = (*Store)(nil)

// Store implements ports.BuildStore using a file-per-target strategy.
type Store struct {
	dir string
	mu  sync.RWMutex
}

// NewStore creates a BuildStore backed by the default store directory.
func NewStore() *Store {
	return NewStoreWithDir(domain.DefaultStorePath())
}

// NewStoreWithDir creates a BuildStore backed by the directory at dir.
func NewStoreWithDir(dir string) *Store {
	return &Store{dir: filepath.Clean(dir)}
}

// Get retrieves the last recorded output for a target.
func (s *Store) Get(target domain.BuildTarget) (*domain.BuildOutput, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filename := s.filename(target)
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, "failed to read build record")
	}

	var output domain.BuildOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, zerr.With(
			zerr.Wrap(err, domain.ErrCacheCorrupted.Error()),
			"path", filename,
		)
	}

	return &output, nil
}

// Put stores the output.
func (s *Store) Put(output domain.BuildOutput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal build record")
	}

	if err := os.MkdirAll(s.dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create build record store")
	}

	filename := s.filename(output.Target)
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	if err := os.WriteFile(filename, data, domain.FilePerm); err != nil {
		return zerr.Wrap(err, "failed to write build record")
	}

	return nil
}

func (s *Store) filename(target domain.BuildTarget) string {
	hash := sha256.Sum256([]byte(target))
	return filepath.Join(s.dir, hex.EncodeToString(hash[:])+".json")
}
