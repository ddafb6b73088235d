package cas_test

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Lemventory/forge/internal/adapters/cas"
	"github.com/Lemventory/forge/internal/core/domain"
)

func TestStore_PutAndGet(t *testing.T) {
	store := cas.NewStoreWithDir(t.TempDir())

	output := domain.BuildOutput{
		Target:       domain.TargetBackend,
		Version:      "0.19.0",
		Path:         "/store/outputs/backend",
		OutputDigest: "abc",
		DerivationID: "def",
		Timestamp:    time.Now(),
	}

	if err := store.Put(output); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get(domain.TargetBackend)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil")
	}

	if got.DerivationID != output.DerivationID {
		t.Errorf("expected DerivationID %q, got %q", output.DerivationID, got.DerivationID)
	}
	if got.Version != output.Version {
		t.Errorf("expected Version %q, got %q", output.Version, got.Version)
	}
}

func TestStore_MissIsNil(t *testing.T) {
	store := cas.NewStoreWithDir(t.TempDir())

	got, err := store.Get(domain.TargetUI)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil on miss, got %+v", got)
	}
}

func TestStore_Persistence(t *testing.T) {
	dir := t.TempDir()

	// 1. Create store and save data
	store1 := cas.NewStoreWithDir(dir)
	output := domain.BuildOutput{
		Target:       domain.TargetUI,
		DerivationID: "xyz",
	}
	if err := store1.Put(output); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// 2. Create new store instance pointing to same directory
	store2 := cas.NewStoreWithDir(dir)

	got, err := store2.Get(domain.TargetUI)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil")
	}
	if got.DerivationID != "xyz" {
		t.Errorf("expected DerivationID %q, got %q", "xyz", got.DerivationID)
	}
}

func TestStore_CorruptRecord(t *testing.T) {
	dir := t.TempDir()
	store := cas.NewStoreWithDir(dir)

	hash := sha256.Sum256([]byte(domain.TargetBackend))
	recordFile := filepath.Join(dir, hex.EncodeToString(hash[:])+".json")
	if err := os.WriteFile(recordFile, []byte("{not json"), domain.FilePerm); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	_, err := store.Get(domain.TargetBackend)
	if err == nil {
		t.Fatal("expected error for corrupt record")
	}
	if !strings.Contains(err.Error(), domain.ErrCacheCorrupted.Error()) {
		t.Errorf("expected cache corruption error, got: %v", err)
	}
}

func TestStore_OmitZero(t *testing.T) {
	dir := t.TempDir()
	store := cas.NewStoreWithDir(dir)

	// Create output with zero values for everything but the target
	output := domain.BuildOutput{
		Target: domain.TargetBackend,
	}

	if err := store.Put(output); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// Read the file content directly
	hash := sha256.Sum256([]byte(domain.TargetBackend))
	recordFile := filepath.Join(dir, hex.EncodeToString(hash[:])+".json")

	//nolint:gosec // Test file with controlled path
	content, err := os.ReadFile(recordFile)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	jsonStr := string(content)
	t.Logf("JSON content: %s", jsonStr)

	// Verify fields are omitted
	if strings.Contains(jsonStr, "output_digest") {
		t.Error("JSON should not contain 'output_digest' for zero value")
	}
	if strings.Contains(jsonStr, "derivation_id") {
		t.Error("JSON should not contain 'derivation_id' for zero value")
	}
	if strings.Contains(jsonStr, "timestamp") {
		t.Error("JSON should not contain 'timestamp' for zero value")
	}
	// Target should be present
	if !strings.Contains(jsonStr, "target") {
		t.Error("JSON should contain 'target'")
	}
}
