// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/obuild/internal/adapters/config"
	_ "go.trai.ch/obuild/internal/adapters/fs"
	_ "go.trai.ch/obuild/internal/adapters/logger"
	_ "go.trai.ch/obuild/internal/adapters/shell"
	// Register the app node.
	_ "go.trai.ch/obuild/internal/app"
)
