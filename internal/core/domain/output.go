package domain

import "time"

// BuildTarget names one of the derivations the descriptor can define.
type BuildTarget string

const (
	// TargetBackend is the default target: the server binary.
	TargetBackend BuildTarget = "backend"

	// TargetUI is the optional front-end bundle.
	TargetUI BuildTarget = "ui"
)

// ParseBuildTarget converts a CLI argument to a BuildTarget.
func ParseBuildTarget(s string) (BuildTarget, bool) {
	switch BuildTarget(s) {
	case TargetBackend, TargetUI:
		return BuildTarget(s), true
	default:
		return "", false
	}
}

// BuildOutput is the record of one completed derivation. Identical inputs
// produce an identical DerivationID, so the record doubles as the cache
// entry: a stored output with a matching ID short-circuits the build.
type BuildOutput struct {
	Target       BuildTarget `json:"target,omitzero"`
	Version      string      `json:"version,omitzero"`
	Path         string      `json:"path,omitzero"`
	OutputDigest string      `json:"output_digest,omitzero"`
	DerivationID string      `json:"derivation_id,omitzero"`
	Env          []string    `json:"env,omitzero"`
	Timestamp    time.Time   `json:"timestamp,omitzero"`
}
