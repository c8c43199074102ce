package abci

import (
	"context"

	"github.com/blockberries/abci/types"
)

// Compile-time interface check.
var _ Application = (*BaseApplication)(nil)

// BaseApplication answers every request with its zero-value response.
// Embed it to implement only the methods an application cares about.
//
// Its OfferSnapshot answers Reject (not the zero value Unknown, which
// well-behaved applications never emit deliberately); its
// ApplySnapshotChunk likewise answers Abort.
type BaseApplication struct{}

// NewBaseApplication creates an application that accepts everything
// and does nothing.
func NewBaseApplication() *BaseApplication {
	return &BaseApplication{}
}

func (BaseApplication) Echo(_ context.Context, req types.RequestEcho) (types.ResponseEcho, error) {
	return types.ResponseEcho{Message: req.Message}, nil
}

func (BaseApplication) Info(context.Context, types.RequestInfo) (types.ResponseInfo, error) {
	return types.ResponseInfo{}, nil
}

func (BaseApplication) Query(context.Context, types.RequestQuery) (types.ResponseQuery, error) {
	return types.ResponseQuery{}, nil
}

func (BaseApplication) CheckTx(context.Context, types.RequestCheckTx) (types.ResponseCheckTx, error) {
	return types.ResponseCheckTx{}, nil
}

func (BaseApplication) InitChain(context.Context, types.RequestInitChain) (types.ResponseInitChain, error) {
	return types.ResponseInitChain{}, nil
}

func (BaseApplication) BeginBlock(context.Context, types.RequestBeginBlock) (types.ResponseBeginBlock, error) {
	return types.ResponseBeginBlock{}, nil
}

func (BaseApplication) DeliverTx(context.Context, types.RequestDeliverTx) (types.ResponseDeliverTx, error) {
	return types.ResponseDeliverTx{}, nil
}

func (BaseApplication) EndBlock(context.Context, types.RequestEndBlock) (types.ResponseEndBlock, error) {
	return types.ResponseEndBlock{}, nil
}

func (BaseApplication) Commit(context.Context, types.RequestCommit) (types.ResponseCommit, error) {
	return types.ResponseCommit{}, nil
}

func (BaseApplication) ListSnapshots(context.Context, types.RequestListSnapshots) (types.ResponseListSnapshots, error) {
	return types.ResponseListSnapshots{}, nil
}

func (BaseApplication) OfferSnapshot(context.Context, types.RequestOfferSnapshot) (types.ResponseOfferSnapshot, error) {
	return types.ResponseOfferSnapshot{Result: types.OfferSnapshotReject}, nil
}

func (BaseApplication) LoadSnapshotChunk(context.Context, types.RequestLoadSnapshotChunk) (types.ResponseLoadSnapshotChunk, error) {
	return types.ResponseLoadSnapshotChunk{}, nil
}

func (BaseApplication) ApplySnapshotChunk(context.Context, types.RequestApplySnapshotChunk) (types.ResponseApplySnapshotChunk, error) {
	return types.ResponseApplySnapshotChunk{Result: types.ApplyChunkAbort}, nil
}
