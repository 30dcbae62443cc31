package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/obuild/internal/adapters/config" //nolint:depguard // Wired in app layer
	"go.trai.ch/obuild/internal/adapters/fs"     //nolint:depguard // Wired in app layer
	"go.trai.ch/obuild/internal/adapters/logger" //nolint:depguard // Wired in app layer
	"go.trai.ch/obuild/internal/adapters/shell"  //nolint:depguard // Wired in app layer
	"go.trai.ch/obuild/internal/core/ports"
)

// NodeID is the unique identifier for the main App Graft node.
const NodeID graft.ID = "app.main"

func init() {
	graft.Register(graft.Node[*App]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			shell.NodeID,
			fs.OracleNodeID,
			fs.GlobNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}

			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}

			oracle, err := graft.Dep[*fs.Oracle](ctx)
			if err != nil {
				return nil, err
			}

			glob, err := graft.Dep[ports.Globber](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(loader, executor, oracle, glob, log), nil
		},
	})
}
