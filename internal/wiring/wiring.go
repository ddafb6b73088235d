// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/Lemventory/forge/internal/adapters/cas"
	_ "github.com/Lemventory/forge/internal/adapters/config"
	_ "github.com/Lemventory/forge/internal/adapters/fetch"
	_ "github.com/Lemventory/forge/internal/adapters/fs"
	_ "github.com/Lemventory/forge/internal/adapters/logger"
	_ "github.com/Lemventory/forge/internal/adapters/manifest"
	_ "github.com/Lemventory/forge/internal/adapters/overlay"
	_ "github.com/Lemventory/forge/internal/adapters/shell"
	_ "github.com/Lemventory/forge/internal/adapters/syslib"
	_ "github.com/Lemventory/forge/internal/adapters/telemetry"
	_ "github.com/Lemventory/forge/internal/adapters/toolchain"
	_ "github.com/Lemventory/forge/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "github.com/Lemventory/forge/internal/app"
	_ "github.com/Lemventory/forge/internal/engine/builder"
	_ "github.com/Lemventory/forge/internal/engine/resolve"
	_ "github.com/Lemventory/forge/internal/engine/shellenv"
)
