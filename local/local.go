// Package local provides an in-process ABCI connection.
//
// For applications compiled into the same binary as the consensus
// engine, this adapter routes requests through a dispatcher so the
// per-category ordering and flush semantics match the remote
// transports — with no serialization overhead.
package local

import (
	"context"

	"github.com/blockberries/abci"
	"github.com/blockberries/abci/dispatch"
	"github.com/blockberries/abci/types"
)

// Compile-time interface check.
var _ abci.Client = (*Connection)(nil)

// Connection wraps a local Application behind the category lanes.
type Connection struct {
	d *dispatch.Dispatcher
}

// NewConnection creates an in-process ABCI connection wrapping
// the given application.
func NewConnection(app abci.Application, opts ...dispatch.Option) *Connection {
	return &Connection{d: dispatch.New(app, opts...)}
}

func (c *Connection) submit(ctx context.Context, req types.Request) (types.Response, error) {
	return c.d.Submit(ctx, req).Wait(ctx)
}

func (c *Connection) Echo(ctx context.Context, req types.RequestEcho) (types.ResponseEcho, error) {
	resp, err := c.submit(ctx, types.ToRequestEcho(req.Message))
	if err != nil {
		return types.ResponseEcho{}, err
	}
	return *resp.Echo, nil
}

func (c *Connection) Info(ctx context.Context, req types.RequestInfo) (types.ResponseInfo, error) {
	resp, err := c.submit(ctx, types.ToRequestInfo(req))
	if err != nil {
		return types.ResponseInfo{}, err
	}
	return *resp.Info, nil
}

func (c *Connection) Query(ctx context.Context, req types.RequestQuery) (types.ResponseQuery, error) {
	resp, err := c.submit(ctx, types.ToRequestQuery(req))
	if err != nil {
		return types.ResponseQuery{}, err
	}
	return *resp.Query, nil
}

func (c *Connection) CheckTx(ctx context.Context, req types.RequestCheckTx) (types.ResponseCheckTx, error) {
	resp, err := c.submit(ctx, types.ToRequestCheckTx(req))
	if err != nil {
		return types.ResponseCheckTx{}, err
	}
	return *resp.CheckTx, nil
}

func (c *Connection) InitChain(ctx context.Context, req types.RequestInitChain) (types.ResponseInitChain, error) {
	resp, err := c.submit(ctx, types.ToRequestInitChain(req))
	if err != nil {
		return types.ResponseInitChain{}, err
	}
	return *resp.InitChain, nil
}

func (c *Connection) BeginBlock(ctx context.Context, req types.RequestBeginBlock) (types.ResponseBeginBlock, error) {
	resp, err := c.submit(ctx, types.ToRequestBeginBlock(req))
	if err != nil {
		return types.ResponseBeginBlock{}, err
	}
	return *resp.BeginBlock, nil
}

func (c *Connection) DeliverTx(ctx context.Context, req types.RequestDeliverTx) (types.ResponseDeliverTx, error) {
	resp, err := c.submit(ctx, types.ToRequestDeliverTx(req.Tx))
	if err != nil {
		return types.ResponseDeliverTx{}, err
	}
	return *resp.DeliverTx, nil
}

func (c *Connection) EndBlock(ctx context.Context, req types.RequestEndBlock) (types.ResponseEndBlock, error) {
	resp, err := c.submit(ctx, types.ToRequestEndBlock(req.Height))
	if err != nil {
		return types.ResponseEndBlock{}, err
	}
	return *resp.EndBlock, nil
}

func (c *Connection) Commit(ctx context.Context, req types.RequestCommit) (types.ResponseCommit, error) {
	resp, err := c.submit(ctx, types.ToRequestCommit())
	if err != nil {
		return types.ResponseCommit{}, err
	}
	return *resp.Commit, nil
}

func (c *Connection) ListSnapshots(ctx context.Context, req types.RequestListSnapshots) (types.ResponseListSnapshots, error) {
	resp, err := c.submit(ctx, types.ToRequestListSnapshots())
	if err != nil {
		return types.ResponseListSnapshots{}, err
	}
	return *resp.ListSnapshots, nil
}

func (c *Connection) OfferSnapshot(ctx context.Context, req types.RequestOfferSnapshot) (types.ResponseOfferSnapshot, error) {
	if req.Snapshot == nil {
		return types.ResponseOfferSnapshot{}, abci.NewExceptionError("offer without snapshot")
	}
	resp, err := c.submit(ctx, types.ToRequestOfferSnapshot(*req.Snapshot, req.AppHash))
	if err != nil {
		return types.ResponseOfferSnapshot{}, err
	}
	return *resp.OfferSnapshot, nil
}

func (c *Connection) LoadSnapshotChunk(ctx context.Context, req types.RequestLoadSnapshotChunk) (types.ResponseLoadSnapshotChunk, error) {
	resp, err := c.submit(ctx, types.ToRequestLoadSnapshotChunk(req))
	if err != nil {
		return types.ResponseLoadSnapshotChunk{}, err
	}
	return *resp.LoadSnapshotChunk, nil
}

func (c *Connection) ApplySnapshotChunk(ctx context.Context, req types.RequestApplySnapshotChunk) (types.ResponseApplySnapshotChunk, error) {
	resp, err := c.submit(ctx, types.ToRequestApplySnapshotChunk(req))
	if err != nil {
		return types.ResponseApplySnapshotChunk{}, err
	}
	return *resp.ApplySnapshotChunk, nil
}

// Flush waits for every previously submitted request to complete.
func (c *Connection) Flush(ctx context.Context) error {
	return c.d.Flush(ctx)
}

// Close stops the underlying dispatcher.
func (c *Connection) Close() error {
	return c.d.Close()
}
