package domain_test

import (
	"errors"
	"testing"

	"github.com/Lemventory/forge/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestToolchainPin_Validate(t *testing.T) {
	pin := domain.ToolchainPin{Channel: "stable", Version: "1.81.0"}
	if err := pin.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := (domain.ToolchainPin{Version: "1.81.0"}).Validate(); !errors.Is(err, domain.ErrUnresolvableToolchain) {
		t.Errorf("expected ErrUnresolvableToolchain for missing channel, got %v", err)
	}

	err := (domain.ToolchainPin{Channel: "stable"}).Validate()
	if !errors.Is(err, domain.ErrUnresolvableToolchain) {
		t.Fatalf("expected ErrUnresolvableToolchain for missing version, got %v", err)
	}
	zErr, ok := err.(*zerr.Error)
	if !ok {
		t.Fatalf("expected *zerr.Error, got %T", err)
	}
	if ch, ok := zErr.Metadata()["channel"].(string); !ok || ch != "stable" {
		t.Errorf("expected metadata channel=stable, got %v", zErr.Metadata()["channel"])
	}
}

func TestToolchainPin_Spec(t *testing.T) {
	pin := domain.ToolchainPin{Channel: "nodejs", Version: "20.11.1"}
	if got := pin.Spec(); got != "nodejs@20.11.1" {
		t.Errorf("Spec() = %q, want nodejs@20.11.1", got)
	}
}

func TestToolchainSpec_Validate(t *testing.T) {
	valid := testToolchain()
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := map[string]func(*domain.ToolchainSpec){
		"missing compiler version": func(s *domain.ToolchainSpec) { s.CompilerVersion = "" },
		"missing host triple":      func(s *domain.ToolchainSpec) { s.HostTriple = "" },
		"missing target triple":    func(s *domain.ToolchainSpec) { s.TargetTriple = "" },
		"missing bin dir":          func(s *domain.ToolchainSpec) { s.BinDir = "" },
	}
	for name, mutate := range cases {
		spec := testToolchain()
		mutate(&spec)
		if err := spec.Validate(); !errors.Is(err, domain.ErrUnresolvableToolchain) {
			t.Errorf("%s: expected ErrUnresolvableToolchain, got %v", name, err)
		}
	}
}
