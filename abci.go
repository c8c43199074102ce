// Package abci defines the application-blockchain interface: the
// contract by which a consensus engine drives a deterministic
// application state machine.
//
// The message model lives in [types]: closed Request/Response unions,
// their partition into dispatch categories, and the snapshot
// descriptors for state sync. The wire package maps messages to and
// from their binary encoding; dispatch schedules decoded requests
// under the category contracts; statesync drives the snapshot
// restoration protocol.
package abci

import (
	"context"

	"github.com/blockberries/abci/types"
)

// Application is the interface a state machine implements to be
// driven over ABCI. Each method answers one request kind; Flush is
// absent because it is a transport barrier handled by the connection,
// never delivered to the application.
//
// Methods are grouped by dispatch category. The engine guarantees:
//
//   - Consensus methods (InitChain, BeginBlock, DeliverTx, EndBlock,
//     Commit) are called strictly in issue order, one at a time.
//   - Mempool (CheckTx) and Info (Echo, Info, Query) methods may be
//     called concurrently with each other and with consensus traffic,
//     typically on separate connections; they MUST be safe for
//     concurrent use.
//   - Snapshot methods are called sequentially, only while the node
//     is bootstrapping, never concurrently with consensus traffic.
//
// A returned error is treated as a nondeterministic application
// fault and surfaced to the engine as an Exception response.
type Application interface {
	// --- Info category ---

	// Echo returns the request message unchanged. Used by engines to
	// probe liveness of the interface.
	Echo(ctx context.Context, req types.RequestEcho) (types.ResponseEcho, error)

	// Info reports the application's versions and last committed
	// height/app hash. After snapshot restoration the engine checks
	// the reported values against the verified chain header.
	Info(ctx context.Context, req types.RequestInfo) (types.ResponseInfo, error)

	// Query reads application state at the current or a past height.
	Query(ctx context.Context, req types.RequestQuery) (types.ResponseQuery, error)

	// --- Mempool category ---

	// CheckTx gate-checks a transaction before it enters the mempool.
	// It need not execute the transaction in full.
	CheckTx(ctx context.Context, req types.RequestCheckTx) (types.ResponseCheckTx, error)

	// --- Consensus category ---

	// InitChain is called once on genesis to initialize chain state.
	InitChain(ctx context.Context, req types.RequestInitChain) (types.ResponseInitChain, error)

	// BeginBlock signals the start of a new block, prior to any
	// DeliverTx calls for that block.
	BeginBlock(ctx context.Context, req types.RequestBeginBlock) (types.ResponseBeginBlock, error)

	// DeliverTx executes a transaction against application state.
	// Execution must be deterministic across all correct nodes.
	DeliverTx(ctx context.Context, req types.RequestDeliverTx) (types.ResponseDeliverTx, error)

	// EndBlock signals the end of a block, after all transactions and
	// prior to Commit.
	EndBlock(ctx context.Context, req types.RequestEndBlock) (types.ResponseEndBlock, error)

	// Commit persists the queued state transitions from the block.
	Commit(ctx context.Context, req types.RequestCommit) (types.ResponseCommit, error)

	// --- Snapshot category ---

	// ListSnapshots returns the snapshots the application can serve
	// to bootstrapping peers.
	ListSnapshots(ctx context.Context, req types.RequestListSnapshots) (types.ResponseListSnapshots, error)

	// OfferSnapshot offers a snapshot for restoration. Only the app
	// hash in the request is trusted; all snapshot fields are
	// adversarial input. Rejecting leaves the application ready to
	// receive further offers.
	OfferSnapshot(ctx context.Context, req types.RequestOfferSnapshot) (types.ResponseOfferSnapshot, error)

	// LoadSnapshotChunk serves a chunk of an own snapshot to a
	// syncing peer.
	LoadSnapshotChunk(ctx context.Context, req types.RequestLoadSnapshotChunk) (types.ResponseLoadSnapshotChunk, error)

	// ApplySnapshotChunk applies one fetched chunk during
	// restoration. The response's result, refetch and ban lists
	// drive the engine's retry behavior.
	ApplySnapshotChunk(ctx context.Context, req types.RequestApplySnapshotChunk) (types.ResponseApplySnapshotChunk, error)
}

// Client is an engine-side connection to an application. Both the
// in-process adapter and the gRPC client implement it.
//
// Flush blocks until the responses to all requests issued before it
// on this connection have been delivered.
type Client interface {
	Application

	Flush(ctx context.Context) error

	// Close terminates the connection.
	Close() error
}
