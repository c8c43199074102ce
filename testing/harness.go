package abcitest

import (
	"context"
	"testing"

	"github.com/blockberries/abci"
	"github.com/blockberries/abci/local"
	"github.com/blockberries/abci/types"
)

// Harness drives an application through whole-block cycles for tests.
// It routes every call through the same category lanes production
// transports use.
type Harness struct {
	t    *testing.T
	conn *local.Connection
}

// NewHarness creates a test harness wrapping the given application.
func NewHarness(t *testing.T, app abci.Application) *Harness {
	t.Helper()
	h := &Harness{t: t, conn: local.NewConnection(app)}
	t.Cleanup(func() { h.conn.Close() })
	return h
}

// Client returns the underlying connection for direct access.
func (h *Harness) Client() abci.Client {
	return h.conn
}

// InitChain initializes the chain with the given genesis app state.
func (h *Harness) InitChain(chainID string, appState []byte) types.ResponseInitChain {
	h.t.Helper()
	resp, err := h.conn.InitChain(context.Background(), types.RequestInitChain{
		ChainID:       chainID,
		InitialHeight: 1,
		AppStateBytes: appState,
	})
	if err != nil {
		h.t.Fatalf("InitChain failed: %v", err)
	}
	return resp
}

// CommitBlock runs a full BeginBlock/DeliverTx/EndBlock/Commit cycle
// at the given height and returns the commit response.
func (h *Harness) CommitBlock(height uint64, txs ...types.Tx) types.ResponseCommit {
	h.t.Helper()
	ctx := context.Background()

	if _, err := h.conn.BeginBlock(ctx, types.RequestBeginBlock{
		Header: types.Header{Height: height},
	}); err != nil {
		h.t.Fatalf("BeginBlock(%d) failed: %v", height, err)
	}
	for i, tx := range txs {
		resp, err := h.conn.DeliverTx(ctx, types.RequestDeliverTx{Tx: tx})
		if err != nil {
			h.t.Fatalf("DeliverTx(%d/%d) failed: %v", height, i, err)
		}
		if resp.Code != 0 {
			h.t.Fatalf("DeliverTx(%d/%d) code %d: %s", height, i, resp.Code, resp.Log)
		}
	}
	if _, err := h.conn.EndBlock(ctx, types.RequestEndBlock{Height: height}); err != nil {
		h.t.Fatalf("EndBlock(%d) failed: %v", height, err)
	}
	resp, err := h.conn.Commit(ctx, types.RequestCommit{})
	if err != nil {
		h.t.Fatalf("Commit(%d) failed: %v", height, err)
	}
	if err := h.conn.Flush(ctx); err != nil {
		h.t.Fatalf("Flush(%d) failed: %v", height, err)
	}
	return resp
}

// Query reads a key from the application.
func (h *Harness) Query(key []byte) types.ResponseQuery {
	h.t.Helper()
	resp, err := h.conn.Query(context.Background(), types.RequestQuery{Data: key})
	if err != nil {
		h.t.Fatalf("Query failed: %v", err)
	}
	return resp
}

// Info queries the application's last committed state.
func (h *Harness) Info() types.ResponseInfo {
	h.t.Helper()
	resp, err := h.conn.Info(context.Background(), types.RequestInfo{})
	if err != nil {
		h.t.Fatalf("Info failed: %v", err)
	}
	return resp
}
