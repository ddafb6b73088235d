package domain_test

import (
	"errors"
	"testing"

	"github.com/Lemventory/forge/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestBackendNativeDeps_OrderIsStable(t *testing.T) {
	want := []string{"openssl", "libpq", "protobuf", "libiconv", "pkg-config"}
	got := domain.BackendNativeDeps()
	if len(got) != len(want) {
		t.Fatalf("expected %d deps, got %d", len(want), len(got))
	}
	for i, name := range want {
		if got[i] != name {
			t.Errorf("dep %d = %s, want %s", i, got[i], name)
		}
	}
}

func TestNativeDependencySpec_Validate(t *testing.T) {
	valid := domain.NativeDependencySpec{
		Name:       domain.DepOpenSSL,
		Version:    "3.0.13",
		RootDir:    "/deps/openssl",
		LibraryDir: "/deps/openssl/lib",
		IncludeDir: "/deps/openssl/include",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNativeDependencySpec_Validate_MissingVersion(t *testing.T) {
	spec := domain.NativeDependencySpec{
		Name:       domain.DepLibPQ,
		RootDir:    "/deps/libpq",
		LibraryDir: "/deps/libpq/lib",
	}

	err := spec.Validate()
	if !errors.Is(err, domain.ErrInconsistentNativeDependency) {
		t.Fatalf("expected ErrInconsistentNativeDependency, got %v", err)
	}
	zErr, ok := err.(*zerr.Error)
	if !ok {
		t.Fatalf("expected *zerr.Error, got %T", err)
	}
	if dep, ok := zErr.Metadata()["dependency"].(string); !ok || dep != "libpq" {
		t.Errorf("expected metadata dependency=libpq, got %v", zErr.Metadata()["dependency"])
	}

	// The probing tool ships no version metadata, so none is required of it.
	tool := domain.NativeDependencySpec{Name: domain.DepPkgConfig, RootDir: "/usr"}
	if err := tool.Validate(); err != nil {
		t.Errorf("unexpected error for versionless tool: %v", err)
	}
}

func TestNativeDependencySpec_Validate_MissingLibraryDir(t *testing.T) {
	spec := domain.NativeDependencySpec{
		Name:    domain.DepVips,
		Version: "8.15.2",
		RootDir: "/deps/vips",
	}
	if err := spec.Validate(); !errors.Is(err, domain.ErrMissingNativeDependency) {
		t.Errorf("expected ErrMissingNativeDependency, got %v", err)
	}

	// Tool-only dependencies carry no library directory.
	tool := domain.NativeDependencySpec{
		Name:    domain.DepPkgConfig,
		Version: "0.29.2",
		RootDir: "/deps/pkg-config",
	}
	if err := tool.Validate(); err != nil {
		t.Errorf("unexpected error for tool dependency: %v", err)
	}
}
