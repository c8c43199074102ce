package types_test

import (
	"reflect"
	"testing"

	"github.com/blockberries/abci/types"
)

// allRequests returns one constructible request per variant.
func allRequests() []types.Request {
	return []types.Request{
		types.ToRequestEcho("ping"),
		types.ToRequestFlush(),
		types.ToRequestInfo(types.RequestInfo{Version: "v1"}),
		types.ToRequestInitChain(types.RequestInitChain{ChainID: "test-chain"}),
		types.ToRequestQuery(types.RequestQuery{Path: "/store"}),
		types.ToRequestBeginBlock(types.RequestBeginBlock{Hash: []byte{0x01}}),
		types.ToRequestCheckTx(types.RequestCheckTx{Tx: types.Tx("tx"), Type: types.CheckTxNew}),
		types.ToRequestDeliverTx(types.Tx("tx")),
		types.ToRequestEndBlock(7),
		types.ToRequestCommit(),
		types.ToRequestListSnapshots(),
		types.ToRequestOfferSnapshot(types.Snapshot{Height: 10, Format: 1, Chunks: 2}, []byte{0xAA}),
		types.ToRequestLoadSnapshotChunk(types.RequestLoadSnapshotChunk{Height: 10, Format: 1, Chunk: 0}),
		types.ToRequestApplySnapshotChunk(types.RequestApplySnapshotChunk{Index: 0, Chunk: []byte{1}, Sender: "peer"}),
	}
}

func TestCategoryOf_Table(t *testing.T) {
	want := map[string]types.Category{
		"Echo":               types.CategoryInfo,
		"Flush":              types.CategoryFlush,
		"Info":               types.CategoryInfo,
		"InitChain":          types.CategoryConsensus,
		"Query":              types.CategoryInfo,
		"BeginBlock":         types.CategoryConsensus,
		"CheckTx":            types.CategoryMempool,
		"DeliverTx":          types.CategoryConsensus,
		"EndBlock":           types.CategoryConsensus,
		"Commit":             types.CategoryConsensus,
		"ListSnapshots":      types.CategorySnapshot,
		"OfferSnapshot":      types.CategorySnapshot,
		"LoadSnapshotChunk":  types.CategorySnapshot,
		"ApplySnapshotChunk": types.CategorySnapshot,
	}
	for _, req := range allRequests() {
		if got := types.CategoryOf(req); got != want[req.Kind()] {
			t.Errorf("CategoryOf(%s) = %s, want %s", req.Kind(), got, want[req.Kind()])
		}
	}
	if got := types.CategoryOf(types.Request{}); got != types.CategoryNone {
		t.Errorf("CategoryOf(empty) = %s, want None", got)
	}
}

// narrowResult runs the narrowing for the given category and widens
// the result back if narrowing succeeded.
func narrowResult(req types.Request, cat types.Category) (types.Request, error) {
	switch cat {
	case types.CategoryConsensus:
		n, err := types.NarrowConsensusRequest(req)
		if err != nil {
			return types.Request{}, err
		}
		return n.Widen(), nil
	case types.CategoryMempool:
		n, err := types.NarrowMempoolRequest(req)
		if err != nil {
			return types.Request{}, err
		}
		return n.Widen(), nil
	case types.CategoryInfo:
		n, err := types.NarrowInfoRequest(req)
		if err != nil {
			return types.Request{}, err
		}
		return n.Widen(), nil
	case types.CategorySnapshot:
		n, err := types.NarrowSnapshotRequest(req)
		if err != nil {
			return types.Request{}, err
		}
		return n.Widen(), nil
	}
	panic("no narrowed union for category " + cat.String())
}

// TestCategoryBijection verifies that for every request, narrowing to
// its own category succeeds and round-trips to the identical value,
// while narrowing to every other category fails with WrongCategoryError.
func TestCategoryBijection(t *testing.T) {
	narrowable := []types.Category{
		types.CategoryConsensus,
		types.CategoryMempool,
		types.CategoryInfo,
		types.CategorySnapshot,
	}
	for _, req := range allRequests() {
		own := types.CategoryOf(req)
		for _, cat := range narrowable {
			widened, err := narrowResult(req, cat)
			if cat == own {
				if err != nil {
					t.Errorf("%s: narrow to own category %s failed: %v", req.Kind(), cat, err)
					continue
				}
				if !reflect.DeepEqual(widened, req) {
					t.Errorf("%s: widen(narrow(r)) != r", req.Kind())
				}
				continue
			}
			if err == nil {
				t.Errorf("%s: narrow to %s should fail", req.Kind(), cat)
				continue
			}
			w, ok := types.IsWrongCategory(err)
			if !ok {
				t.Errorf("%s: narrow to %s returned %T, want WrongCategoryError", req.Kind(), cat, err)
				continue
			}
			if w.Want != cat || w.Got != own {
				t.Errorf("%s: WrongCategoryError{Want: %s, Got: %s}, want {%s, %s}",
					req.Kind(), w.Want, w.Got, cat, own)
			}
		}
	}
}

// TestNarrowMempool_Commit pins the dispatch example: Commit is a
// consensus request and must not narrow to the mempool category.
func TestNarrowMempool_Commit(t *testing.T) {
	commit := types.ToRequestCommit()
	if got := types.CategoryOf(commit); got != types.CategoryConsensus {
		t.Fatalf("CategoryOf(Commit) = %s, want Consensus", got)
	}
	_, err := types.NarrowMempoolRequest(commit)
	if err == nil {
		t.Fatal("NarrowMempoolRequest(Commit) should fail")
	}
	w, ok := types.IsWrongCategory(err)
	if !ok {
		t.Fatalf("expected WrongCategoryError, got %T", err)
	}
	if w.Got != types.CategoryConsensus {
		t.Errorf("Got = %s, want Consensus", w.Got)
	}
}

func TestResponseCategoryOf_Exception(t *testing.T) {
	exc := types.ToResponseException("nondeterministic fault")
	if got := types.ResponseCategoryOf(exc); got != types.CategoryNone {
		t.Fatalf("ResponseCategoryOf(Exception) = %s, want None", got)
	}

	// Exception narrows to no category.
	if _, err := types.NarrowConsensusResponse(exc); err == nil {
		t.Error("NarrowConsensusResponse(Exception) should fail")
	}
	if _, err := types.NarrowMempoolResponse(exc); err == nil {
		t.Error("NarrowMempoolResponse(Exception) should fail")
	}
	if _, err := types.NarrowInfoResponse(exc); err == nil {
		t.Error("NarrowInfoResponse(Exception) should fail")
	}
	if _, err := types.NarrowSnapshotResponse(exc); err == nil {
		t.Error("NarrowSnapshotResponse(Exception) should fail")
	}
}

func TestResponseNarrow_RoundTrip(t *testing.T) {
	resp := types.ToResponseApplySnapshotChunk(types.ResponseApplySnapshotChunk{
		Result:        types.ApplyChunkRetry,
		RefetchChunks: []uint32{0, 3},
		RejectSenders: []string{"peer-a"},
	})
	n, err := types.NarrowSnapshotResponse(resp)
	if err != nil {
		t.Fatalf("NarrowSnapshotResponse: %v", err)
	}
	if !reflect.DeepEqual(n.Widen(), resp) {
		t.Fatal("widen(narrow(resp)) != resp")
	}
	if _, err := types.NarrowConsensusResponse(resp); err == nil {
		t.Fatal("snapshot response must not narrow to consensus")
	}
}
