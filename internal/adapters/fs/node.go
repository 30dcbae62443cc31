package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/obuild/internal/core/ports"
)

const (
	// OracleNodeID is the unique identifier for the staleness oracle Graft node.
	OracleNodeID graft.ID = "adapter.fs.oracle"
	// GlobNodeID is the unique identifier for the glob expander Graft node.
	GlobNodeID graft.ID = "adapter.fs.glob"
)

func init() {
	// Oracle Node (concrete type, also needed by Glob)
	graft.Register(graft.Node[*Oracle]{
		ID:        OracleNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Oracle, error) {
			return NewOracle(), nil
		},
	})

	// Glob Node
	graft.Register(graft.Node[ports.Globber]{
		ID:        GlobNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{OracleNodeID},
		Run: func(ctx context.Context) (ports.Globber, error) {
			oracle, err := graft.Dep[*Oracle](ctx)
			if err != nil {
				return nil, err
			}
			return NewGlob(oracle), nil
		},
	})
}
