package domain_test

import (
	"errors"
	"testing"

	"github.com/Lemventory/forge/internal/core/domain"
)

func TestManifest_Validate(t *testing.T) {
	m := domain.Manifest{Name: "lemmy_server", Version: "0.19.0"}
	if err := m.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := (domain.Manifest{Version: "0.19.0"}).Validate(); !errors.Is(err, domain.ErrInvalidManifest) {
		t.Errorf("expected ErrInvalidManifest for missing name, got %v", err)
	}
	if err := (domain.Manifest{Name: "lemmy_server"}).Validate(); !errors.Is(err, domain.ErrInvalidManifest) {
		t.Errorf("expected ErrInvalidManifest for missing version, got %v", err)
	}
}

func TestSourceRef_Validate(t *testing.T) {
	ref := domain.SourceRef{
		Owner:       "LemmyNet",
		Repo:        "lemmy-ui",
		Rev:         "0.19.0",
		ContentHash: "sha256:abc",
	}
	if err := ref.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ref.String(); got != "LemmyNet/lemmy-ui@0.19.0" {
		t.Errorf("String() = %q", got)
	}

	cases := map[string]domain.SourceRef{
		"missing owner": {Repo: "lemmy-ui", Rev: "0.19.0", ContentHash: "sha256:abc"},
		"missing rev":   {Owner: "LemmyNet", Repo: "lemmy-ui", ContentHash: "sha256:abc"},
		"missing hash":  {Owner: "LemmyNet", Repo: "lemmy-ui", Rev: "0.19.0"},
	}
	for name, ref := range cases {
		if err := ref.Validate(); !errors.Is(err, domain.ErrSourceFetchFailure) {
			t.Errorf("%s: expected ErrSourceFetchFailure, got %v", name, err)
		}
	}
}

func TestParseBuildTarget(t *testing.T) {
	if target, ok := domain.ParseBuildTarget("backend"); !ok || target != domain.TargetBackend {
		t.Errorf("ParseBuildTarget(backend) = %v, %v", target, ok)
	}
	if target, ok := domain.ParseBuildTarget("ui"); !ok || target != domain.TargetUI {
		t.Errorf("ParseBuildTarget(ui) = %v, %v", target, ok)
	}
	if _, ok := domain.ParseBuildTarget("docs"); ok {
		t.Error("expected ParseBuildTarget(docs) to fail")
	}
}
