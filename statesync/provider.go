package statesync

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/blockberries/abci/types"
)

// SnapshotStore is the slice of the application surface that serves
// snapshots to peers.
type SnapshotStore interface {
	ListSnapshots(ctx context.Context, req types.RequestListSnapshots) (types.ResponseListSnapshots, error)
	LoadSnapshotChunk(ctx context.Context, req types.RequestLoadSnapshotChunk) (types.ResponseLoadSnapshotChunk, error)
}

// Provider answers peer snapshot requests from the local application.
type Provider struct {
	app SnapshotStore
	log *zap.Logger
}

// NewProvider creates a Provider.
func NewProvider(app SnapshotStore, log *zap.Logger) *Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &Provider{app: app, log: log}
}

// Snapshots returns the snapshots the local application can serve.
func (p *Provider) Snapshots(ctx context.Context) ([]types.Snapshot, error) {
	resp, err := p.app.ListSnapshots(ctx, types.RequestListSnapshots{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list snapshots")
	}
	return resp.Snapshots, nil
}

// Chunk loads one chunk of a locally held snapshot.
func (p *Provider) Chunk(ctx context.Context, height uint64, format, index uint32) ([]byte, error) {
	resp, err := p.app.LoadSnapshotChunk(ctx, types.RequestLoadSnapshotChunk{
		Height: height,
		Format: format,
		Chunk:  index,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load chunk %d of snapshot %d/%d", index, height, format)
	}
	if resp.Chunk == nil {
		p.log.Debug("peer requested unknown chunk",
			zap.Uint64("height", height),
			zap.Uint32("format", format),
			zap.Uint32("chunk", index))
		return nil, errors.Errorf("no chunk %d for snapshot %d/%d", index, height, format)
	}
	return resp.Chunk, nil
}
