package config

// Forgefile represents the structure of the forge.yaml descriptor file.
type Forgefile struct {
	Version     string      `yaml:"version"`
	Project     string      `yaml:"project"`
	SearchRoots []string    `yaml:"searchRoots"`
	Backend     *BackendDTO `yaml:"backend"`
	UI          *UIDTO      `yaml:"ui"`
	Shell       *ShellDTO   `yaml:"shell"`
}

// BackendDTO represents the backend target definition in the descriptor.
type BackendDTO struct {
	Source         string    `yaml:"source"`
	Manifest       string    `yaml:"manifest"`
	Lockfile       string    `yaml:"lockfile"`
	LockfileDigest string    `yaml:"lockfileDigest"`
	ToolchainPin   string    `yaml:"toolchainPin"`
	Stamp          *StampDTO `yaml:"stamp"`
	Cmd            []string  `yaml:"cmd"`
	Artifact       string    `yaml:"artifact"`
}

// StampDTO represents the version injection point in the descriptor.
type StampDTO struct {
	Path     string `yaml:"path"`
	Template string `yaml:"template"`
}

// UIDTO represents the optional front-end target definition.
type UIDTO struct {
	Source        *SourceDTO    `yaml:"source"`
	Lockfile      string        `yaml:"lockfile"`
	Toolchain     *ToolchainDTO `yaml:"toolchain"`
	NativeModules []string      `yaml:"nativeModules"`
	Install       []string      `yaml:"install"`
	Build         []string      `yaml:"build"`
	Artifact      string        `yaml:"artifact"`
}

// SourceDTO represents the pinned front-end source reference.
type SourceDTO struct {
	Owner string `yaml:"owner"`
	Repo  string `yaml:"repo"`
	Rev   string `yaml:"rev"`
	Hash  string `yaml:"hash"`
}

// ToolchainDTO represents a toolchain pin inside the descriptor.
type ToolchainDTO struct {
	Channel string   `yaml:"channel"`
	Version string   `yaml:"version"`
	Targets []string `yaml:"targets"`
}

// ShellDTO represents the development shell profile definition.
type ShellDTO struct {
	Tools []string          `yaml:"tools"`
	Env   map[string]string `yaml:"env"`
}
