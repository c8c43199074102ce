// Package abcitest provides test utilities for ABCI application and
// engine development: a configurable mock application and a block
// harness.
package abcitest

import (
	"context"
	"sync/atomic"

	"github.com/blockberries/abci"
	"github.com/blockberries/abci/types"
)

// Compile-time interface check.
var _ abci.Application = (*MockApp)(nil)

// MockApp is a configurable mock ABCI application for engine testing.
// All methods are configurable via function fields. Unconfigured
// methods return sensible zero-value defaults.
type MockApp struct {
	// Configurable handlers. If nil, defaults are used.
	EchoFn               func(context.Context, types.RequestEcho) (types.ResponseEcho, error)
	InfoFn               func(context.Context, types.RequestInfo) (types.ResponseInfo, error)
	QueryFn              func(context.Context, types.RequestQuery) (types.ResponseQuery, error)
	CheckTxFn            func(context.Context, types.RequestCheckTx) (types.ResponseCheckTx, error)
	InitChainFn          func(context.Context, types.RequestInitChain) (types.ResponseInitChain, error)
	BeginBlockFn         func(context.Context, types.RequestBeginBlock) (types.ResponseBeginBlock, error)
	DeliverTxFn          func(context.Context, types.RequestDeliverTx) (types.ResponseDeliverTx, error)
	EndBlockFn           func(context.Context, types.RequestEndBlock) (types.ResponseEndBlock, error)
	CommitFn             func(context.Context, types.RequestCommit) (types.ResponseCommit, error)
	ListSnapshotsFn      func(context.Context, types.RequestListSnapshots) (types.ResponseListSnapshots, error)
	OfferSnapshotFn      func(context.Context, types.RequestOfferSnapshot) (types.ResponseOfferSnapshot, error)
	LoadSnapshotChunkFn  func(context.Context, types.RequestLoadSnapshotChunk) (types.ResponseLoadSnapshotChunk, error)
	ApplySnapshotChunkFn func(context.Context, types.RequestApplySnapshotChunk) (types.ResponseApplySnapshotChunk, error)

	// Call counters (atomic for concurrent access).
	EchoCalls               atomic.Int64
	InfoCalls               atomic.Int64
	QueryCalls              atomic.Int64
	CheckTxCalls            atomic.Int64
	InitChainCalls          atomic.Int64
	BeginBlockCalls         atomic.Int64
	DeliverTxCalls          atomic.Int64
	EndBlockCalls           atomic.Int64
	CommitCalls             atomic.Int64
	ListSnapshotsCalls      atomic.Int64
	OfferSnapshotCalls      atomic.Int64
	LoadSnapshotChunkCalls  atomic.Int64
	ApplySnapshotChunkCalls atomic.Int64
}

func (m *MockApp) Echo(ctx context.Context, req types.RequestEcho) (types.ResponseEcho, error) {
	m.EchoCalls.Add(1)
	if m.EchoFn != nil {
		return m.EchoFn(ctx, req)
	}
	return types.ResponseEcho{Message: req.Message}, nil
}

func (m *MockApp) Info(ctx context.Context, req types.RequestInfo) (types.ResponseInfo, error) {
	m.InfoCalls.Add(1)
	if m.InfoFn != nil {
		return m.InfoFn(ctx, req)
	}
	return types.ResponseInfo{}, nil
}

func (m *MockApp) Query(ctx context.Context, req types.RequestQuery) (types.ResponseQuery, error) {
	m.QueryCalls.Add(1)
	if m.QueryFn != nil {
		return m.QueryFn(ctx, req)
	}
	return types.ResponseQuery{}, nil
}

func (m *MockApp) CheckTx(ctx context.Context, req types.RequestCheckTx) (types.ResponseCheckTx, error) {
	m.CheckTxCalls.Add(1)
	if m.CheckTxFn != nil {
		return m.CheckTxFn(ctx, req)
	}
	return types.ResponseCheckTx{Code: 0}, nil
}

func (m *MockApp) InitChain(ctx context.Context, req types.RequestInitChain) (types.ResponseInitChain, error) {
	m.InitChainCalls.Add(1)
	if m.InitChainFn != nil {
		return m.InitChainFn(ctx, req)
	}
	return types.ResponseInitChain{}, nil
}

func (m *MockApp) BeginBlock(ctx context.Context, req types.RequestBeginBlock) (types.ResponseBeginBlock, error) {
	m.BeginBlockCalls.Add(1)
	if m.BeginBlockFn != nil {
		return m.BeginBlockFn(ctx, req)
	}
	return types.ResponseBeginBlock{}, nil
}

func (m *MockApp) DeliverTx(ctx context.Context, req types.RequestDeliverTx) (types.ResponseDeliverTx, error) {
	m.DeliverTxCalls.Add(1)
	if m.DeliverTxFn != nil {
		return m.DeliverTxFn(ctx, req)
	}
	return types.ResponseDeliverTx{Code: 0}, nil
}

func (m *MockApp) EndBlock(ctx context.Context, req types.RequestEndBlock) (types.ResponseEndBlock, error) {
	m.EndBlockCalls.Add(1)
	if m.EndBlockFn != nil {
		return m.EndBlockFn(ctx, req)
	}
	return types.ResponseEndBlock{}, nil
}

func (m *MockApp) Commit(ctx context.Context, req types.RequestCommit) (types.ResponseCommit, error) {
	m.CommitCalls.Add(1)
	if m.CommitFn != nil {
		return m.CommitFn(ctx, req)
	}
	return types.ResponseCommit{}, nil
}

func (m *MockApp) ListSnapshots(ctx context.Context, req types.RequestListSnapshots) (types.ResponseListSnapshots, error) {
	m.ListSnapshotsCalls.Add(1)
	if m.ListSnapshotsFn != nil {
		return m.ListSnapshotsFn(ctx, req)
	}
	return types.ResponseListSnapshots{}, nil
}

func (m *MockApp) OfferSnapshot(ctx context.Context, req types.RequestOfferSnapshot) (types.ResponseOfferSnapshot, error) {
	m.OfferSnapshotCalls.Add(1)
	if m.OfferSnapshotFn != nil {
		return m.OfferSnapshotFn(ctx, req)
	}
	return types.ResponseOfferSnapshot{Result: types.OfferSnapshotReject}, nil
}

func (m *MockApp) LoadSnapshotChunk(ctx context.Context, req types.RequestLoadSnapshotChunk) (types.ResponseLoadSnapshotChunk, error) {
	m.LoadSnapshotChunkCalls.Add(1)
	if m.LoadSnapshotChunkFn != nil {
		return m.LoadSnapshotChunkFn(ctx, req)
	}
	return types.ResponseLoadSnapshotChunk{}, nil
}

func (m *MockApp) ApplySnapshotChunk(ctx context.Context, req types.RequestApplySnapshotChunk) (types.ResponseApplySnapshotChunk, error) {
	m.ApplySnapshotChunkCalls.Add(1)
	if m.ApplySnapshotChunkFn != nil {
		return m.ApplySnapshotChunkFn(ctx, req)
	}
	return types.ResponseApplySnapshotChunk{Result: types.ApplyChunkAbort}, nil
}
