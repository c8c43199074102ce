package kvstore

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/blockberries/abci/types"
)

func commitBlock(t *testing.T, app *App, height uint64, txs ...types.Tx) []byte {
	t.Helper()
	ctx := context.Background()

	if _, err := app.BeginBlock(ctx, types.RequestBeginBlock{
		Header: types.Header{ChainID: "test", Height: height},
	}); err != nil {
		t.Fatalf("BeginBlock(%d): %v", height, err)
	}
	for _, tx := range txs {
		resp, err := app.DeliverTx(ctx, types.RequestDeliverTx{Tx: tx})
		if err != nil {
			t.Fatalf("DeliverTx(%q): %v", tx, err)
		}
		if resp.Code != 0 {
			t.Fatalf("DeliverTx(%q): code %d: %s", tx, resp.Code, resp.Log)
		}
	}
	if _, err := app.EndBlock(ctx, types.RequestEndBlock{Height: height}); err != nil {
		t.Fatalf("EndBlock(%d): %v", height, err)
	}
	resp, err := app.Commit(ctx, types.RequestCommit{})
	if err != nil {
		t.Fatalf("Commit(%d): %v", height, err)
	}
	return resp.Data
}

func TestLifecycle(t *testing.T) {
	app := New()
	ctx := context.Background()

	if _, err := app.InitChain(ctx, types.RequestInitChain{
		ChainID:       "test",
		AppStateBytes: []byte(`{"genesis":"value"}`),
	}); err != nil {
		t.Fatalf("InitChain: %v", err)
	}

	hash1 := commitBlock(t, app, 1, Tx("name", "alice"))
	hash2 := commitBlock(t, app, 2, Tx("name", "bob"), Tx("city", "berlin"))
	if bytes.Equal(hash1, hash2) {
		t.Fatal("app hash did not change across blocks")
	}

	resp, err := app.Query(ctx, types.RequestQuery{Data: []byte("name")})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if string(resp.Value) != "bob" {
		t.Fatalf("Query(name) = %q, want bob", resp.Value)
	}
	if resp.Height != 2 {
		t.Fatalf("Query height = %d, want 2", resp.Height)
	}

	if _, ok := app.Get("genesis"); !ok {
		t.Fatal("genesis state lost")
	}
}

func TestCheckTx(t *testing.T) {
	app := New()
	ctx := context.Background()

	resp, err := app.CheckTx(ctx, types.RequestCheckTx{Tx: Tx("k", "v")})
	if err != nil {
		t.Fatalf("CheckTx: %v", err)
	}
	if resp.Code != 0 {
		t.Fatalf("valid tx rejected: %s", resp.Log)
	}

	resp, err = app.CheckTx(ctx, types.RequestCheckTx{Tx: []byte("no-separator")})
	if err != nil {
		t.Fatalf("CheckTx: %v", err)
	}
	if resp.Code == 0 {
		t.Fatal("malformed tx accepted")
	}
}

func TestSnapshotRestore(t *testing.T) {
	ctx := context.Background()

	source := New()
	source.SnapshotInterval = 2
	for h := uint64(1); h <= 4; h++ {
		var txs []types.Tx
		for i := 0; i < 100; i++ {
			txs = append(txs, Tx(fmt.Sprintf("key-%d-%d", h, i), fmt.Sprintf("val-%d", i)))
		}
		commitBlock(t, source, h, txs...)
	}

	list, err := source.ListSnapshots(ctx, types.RequestListSnapshots{})
	if err != nil {
		t.Fatalf("ListSnapshots: %v", err)
	}
	if len(list.Snapshots) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(list.Snapshots))
	}
	snap := list.Snapshots[len(list.Snapshots)-1]
	if snap.Height != 4 {
		t.Fatalf("latest snapshot at height %d, want 4", snap.Height)
	}

	target := New()
	offer, err := target.OfferSnapshot(ctx, types.RequestOfferSnapshot{
		Snapshot: &snap,
		AppHash:  snap.Hash,
	})
	if err != nil {
		t.Fatalf("OfferSnapshot: %v", err)
	}
	if offer.Result != types.OfferSnapshotAccept {
		t.Fatalf("offer result %v, want Accept", offer.Result)
	}

	for i := uint32(0); i < snap.Chunks; i++ {
		chunk, err := source.LoadSnapshotChunk(ctx, types.RequestLoadSnapshotChunk{
			Height: snap.Height,
			Format: snap.Format,
			Chunk:  i,
		})
		if err != nil {
			t.Fatalf("LoadSnapshotChunk(%d): %v", i, err)
		}
		apply, err := target.ApplySnapshotChunk(ctx, types.RequestApplySnapshotChunk{
			Index: i,
			Chunk: chunk.Chunk,
		})
		if err != nil {
			t.Fatalf("ApplySnapshotChunk(%d): %v", i, err)
		}
		if apply.Result != types.ApplyChunkAccept {
			t.Fatalf("apply result %v, want Accept", apply.Result)
		}
	}

	info, err := target.Info(ctx, types.RequestInfo{})
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if info.LastBlockHeight != snap.Height {
		t.Fatalf("restored height %d, want %d", info.LastBlockHeight, snap.Height)
	}
	if !bytes.Equal(info.LastBlockAppHash, snap.Hash) {
		t.Fatal("restored app hash does not match snapshot hash")
	}

	if v, ok := target.Get("key-4-99"); !ok || v != "val-99" {
		t.Fatalf("restored state missing key-4-99, got %q", v)
	}
}

func TestOfferSnapshotRejectsWrongFormat(t *testing.T) {
	app := New()
	resp, err := app.OfferSnapshot(context.Background(), types.RequestOfferSnapshot{
		Snapshot: &types.Snapshot{Height: 1, Format: 99, Chunks: 1, Hash: []byte{1}},
		AppHash:  []byte{1},
	})
	if err != nil {
		t.Fatalf("OfferSnapshot: %v", err)
	}
	if resp.Result != types.OfferSnapshotRejectFormat {
		t.Fatalf("result %v, want RejectFormat", resp.Result)
	}
}

func TestApplyChunkWithoutOfferAborts(t *testing.T) {
	app := New()
	resp, err := app.ApplySnapshotChunk(context.Background(), types.RequestApplySnapshotChunk{Index: 0})
	if err != nil {
		t.Fatalf("ApplySnapshotChunk: %v", err)
	}
	if resp.Result != types.ApplyChunkAbort {
		t.Fatalf("result %v, want Abort", resp.Result)
	}
}
