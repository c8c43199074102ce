package statesync

import (
	"context"
	"fmt"
	"testing"

	"github.com/facebookgo/clock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/blockberries/abci/types"
)

type mockApp struct {
	offerFn func(types.RequestOfferSnapshot) types.ResponseOfferSnapshot
	applyFn func(types.RequestApplySnapshotChunk) types.ResponseApplySnapshotChunk

	infoHeight uint64
	infoHash   []byte

	offers  []uint64
	applied []uint32
}

func (a *mockApp) OfferSnapshot(_ context.Context, req types.RequestOfferSnapshot) (types.ResponseOfferSnapshot, error) {
	a.offers = append(a.offers, req.Snapshot.Height)
	if a.offerFn != nil {
		return a.offerFn(req), nil
	}
	return types.ResponseOfferSnapshot{Result: types.OfferSnapshotAccept}, nil
}

func (a *mockApp) ApplySnapshotChunk(_ context.Context, req types.RequestApplySnapshotChunk) (types.ResponseApplySnapshotChunk, error) {
	a.applied = append(a.applied, req.Index)
	if a.applyFn != nil {
		return a.applyFn(req), nil
	}
	return types.ResponseApplySnapshotChunk{Result: types.ApplyChunkAccept}, nil
}

func (a *mockApp) Info(context.Context, types.RequestInfo) (types.ResponseInfo, error) {
	return types.ResponseInfo{LastBlockHeight: a.infoHeight, LastBlockAppHash: a.infoHash}, nil
}

type mockFetcher struct {
	snapshots []types.Snapshot
	fetchFn   func(context.Context, types.Snapshot, uint32) ([]byte, string, error)

	fetched []uint32
	banned  []string
}

func (f *mockFetcher) Snapshots(context.Context) ([]types.Snapshot, error) {
	return f.snapshots, nil
}

func (f *mockFetcher) FetchChunk(ctx context.Context, snapshot types.Snapshot, index uint32) ([]byte, string, error) {
	f.fetched = append(f.fetched, index)
	if f.fetchFn != nil {
		return f.fetchFn(ctx, snapshot, index)
	}
	return []byte{byte(index)}, fmt.Sprintf("peer-%d", index%2), nil
}

func (f *mockFetcher) BanSender(sender string) {
	f.banned = append(f.banned, sender)
}

type mockTrust struct {
	hash []byte
}

func (t *mockTrust) TrustedAppHash(_ context.Context, height uint64) ([]byte, error) {
	return t.hash, nil
}

func snapshotAt(height uint64, chunks uint32) types.Snapshot {
	return types.Snapshot{
		Height: height,
		Format: 1,
		Chunks: chunks,
		Hash:   []byte{0x51},
	}
}

func newTestSyncer(t *testing.T, app *mockApp, fetcher *mockFetcher, trust *mockTrust, opts ...Option) *Syncer {
	t.Helper()
	s, err := New(DefaultConfig, app, fetcher, trust, opts...)
	require.NoError(t, err)
	return s
}

func TestSyncHappyPath(t *testing.T) {
	trusted := []byte("trusted-hash")
	app := &mockApp{infoHeight: 100, infoHash: trusted}
	fetcher := &mockFetcher{snapshots: []types.Snapshot{snapshotAt(100, 3)}}

	s := newTestSyncer(t, app, fetcher, &mockTrust{hash: trusted})
	require.NoError(t, s.Sync(context.Background()))
	require.Equal(t, sCompleted, s.CurrentState())
	require.Equal(t, []uint64{100}, app.offers)
	require.Equal(t, []uint32{0, 1, 2}, app.applied)
}

func TestSyncNoSnapshots(t *testing.T) {
	app := &mockApp{}
	s := newTestSyncer(t, app, &mockFetcher{}, &mockTrust{hash: []byte("h")})
	require.ErrorIs(t, s.Sync(context.Background()), ErrNoSnapshots)
}

func TestSyncRetryWithRefetch(t *testing.T) {
	trusted := []byte("trusted-hash")
	app := &mockApp{infoHeight: 100, infoHash: trusted}
	firstTimeAtOne := true
	app.applyFn = func(req types.RequestApplySnapshotChunk) types.ResponseApplySnapshotChunk {
		if req.Index == 1 && firstTimeAtOne {
			firstTimeAtOne = false
			return types.ResponseApplySnapshotChunk{
				Result:        types.ApplyChunkRetry,
				RefetchChunks: []uint32{0},
			}
		}
		return types.ResponseApplySnapshotChunk{Result: types.ApplyChunkAccept}
	}
	fetcher := &mockFetcher{snapshots: []types.Snapshot{snapshotAt(100, 3)}}

	s := newTestSyncer(t, app, fetcher, &mockTrust{hash: trusted})
	require.NoError(t, s.Sync(context.Background()))
	// Refetched chunks are reapplied before the retried chunk proceeds.
	require.Equal(t, []uint32{0, 1, 0, 1, 2}, app.applied)
	// Chunk 0 was dropped from the cache and fetched twice.
	require.Equal(t, []uint32{0, 1, 0, 2}, fetcher.fetched)
}

func TestSyncRejectFallsBackToNextCandidate(t *testing.T) {
	trusted := []byte("trusted-hash")
	app := &mockApp{infoHeight: 90, infoHash: trusted}
	app.offerFn = func(req types.RequestOfferSnapshot) types.ResponseOfferSnapshot {
		if req.Snapshot.Height == 100 {
			return types.ResponseOfferSnapshot{Result: types.OfferSnapshotRejectFormat}
		}
		return types.ResponseOfferSnapshot{Result: types.OfferSnapshotAccept}
	}
	fetcher := &mockFetcher{snapshots: []types.Snapshot{snapshotAt(100, 2), snapshotAt(90, 2)}}

	s := newTestSyncer(t, app, fetcher, &mockTrust{hash: trusted})
	require.NoError(t, s.Sync(context.Background()))
	require.Equal(t, []uint64{100, 90}, app.offers)
	require.Equal(t, sCompleted, s.CurrentState())
}

func TestSyncOfferAbort(t *testing.T) {
	app := &mockApp{}
	app.offerFn = func(types.RequestOfferSnapshot) types.ResponseOfferSnapshot {
		return types.ResponseOfferSnapshot{Result: types.OfferSnapshotAbort}
	}
	fetcher := &mockFetcher{snapshots: []types.Snapshot{snapshotAt(100, 2), snapshotAt(90, 2)}}

	s := newTestSyncer(t, app, fetcher, &mockTrust{hash: []byte("h")})
	require.ErrorIs(t, s.Sync(context.Background()), ErrAborted)
	require.Equal(t, sAborted, s.CurrentState())
	// No further candidates are offered after an abort.
	require.Equal(t, []uint64{100}, app.offers)
}

func TestSyncUnknownOfferVerdictAborts(t *testing.T) {
	app := &mockApp{}
	app.offerFn = func(types.RequestOfferSnapshot) types.ResponseOfferSnapshot {
		return types.ResponseOfferSnapshot{Result: types.OfferSnapshotUnknown}
	}
	fetcher := &mockFetcher{snapshots: []types.Snapshot{snapshotAt(100, 2)}}

	s := newTestSyncer(t, app, fetcher, &mockTrust{hash: []byte("h")})
	require.ErrorIs(t, s.Sync(context.Background()), ErrAborted)
}

func TestSyncZeroChunkSnapshotNotViable(t *testing.T) {
	app := &mockApp{}
	fetcher := &mockFetcher{snapshots: []types.Snapshot{snapshotAt(100, 0)}}

	s := newTestSyncer(t, app, fetcher, &mockTrust{hash: []byte("h")})
	require.ErrorIs(t, s.Sync(context.Background()), ErrNoSnapshots)
	// A snapshot that can never finish applying is skipped outright.
	require.Empty(t, app.offers)
	require.Empty(t, app.applied)
}

func TestSyncZeroChunkSnapshotFallsThrough(t *testing.T) {
	trusted := []byte("trusted-hash")
	app := &mockApp{infoHeight: 90, infoHash: trusted}
	fetcher := &mockFetcher{snapshots: []types.Snapshot{snapshotAt(100, 0), snapshotAt(90, 2)}}

	s := newTestSyncer(t, app, fetcher, &mockTrust{hash: trusted})
	require.NoError(t, s.Sync(context.Background()))
	require.Equal(t, []uint64{90}, app.offers)
	require.Equal(t, sCompleted, s.CurrentState())
}

func TestSyncUnknownChunkVerdictAborts(t *testing.T) {
	app := &mockApp{}
	app.applyFn = func(types.RequestApplySnapshotChunk) types.ResponseApplySnapshotChunk {
		return types.ResponseApplySnapshotChunk{Result: types.ApplyChunkUnknown}
	}
	fetcher := &mockFetcher{snapshots: []types.Snapshot{snapshotAt(100, 2), snapshotAt(90, 2)}}

	s := newTestSyncer(t, app, fetcher, &mockTrust{hash: []byte("h")})
	require.ErrorIs(t, s.Sync(context.Background()), ErrAborted)
	require.Equal(t, sAborted, s.CurrentState())
	// An unrecognized verdict stops the sync like an abort would: no
	// further candidates are offered.
	require.Equal(t, []uint64{100}, app.offers)
	require.Equal(t, []uint32{0}, app.applied)
}

func TestSyncRejectSendersBanned(t *testing.T) {
	trusted := []byte("trusted-hash")
	app := &mockApp{infoHeight: 100, infoHash: trusted}
	app.applyFn = func(req types.RequestApplySnapshotChunk) types.ResponseApplySnapshotChunk {
		resp := types.ResponseApplySnapshotChunk{Result: types.ApplyChunkAccept}
		if req.Index == 1 {
			resp.RejectSenders = []string{"peer-1"}
		}
		return resp
	}
	fetcher := &mockFetcher{snapshots: []types.Snapshot{snapshotAt(100, 3)}}

	s := newTestSyncer(t, app, fetcher, &mockTrust{hash: trusted})
	require.NoError(t, s.Sync(context.Background()))
	require.Equal(t, []string{"peer-1"}, fetcher.banned)
}

func TestSyncRetrySnapshotReoffers(t *testing.T) {
	trusted := []byte("trusted-hash")
	app := &mockApp{infoHeight: 100, infoHash: trusted}
	retried := false
	app.applyFn = func(req types.RequestApplySnapshotChunk) types.ResponseApplySnapshotChunk {
		if req.Index == 1 && !retried {
			retried = true
			return types.ResponseApplySnapshotChunk{Result: types.ApplyChunkRetrySnapshot}
		}
		return types.ResponseApplySnapshotChunk{Result: types.ApplyChunkAccept}
	}
	fetcher := &mockFetcher{snapshots: []types.Snapshot{snapshotAt(100, 2)}}

	s := newTestSyncer(t, app, fetcher, &mockTrust{hash: trusted})
	require.NoError(t, s.Sync(context.Background()))
	require.Equal(t, []uint64{100, 100}, app.offers)
	require.Equal(t, []uint32{0, 1, 0, 1}, app.applied)
	// The re-offered run reuses cached chunks instead of refetching.
	require.Equal(t, []uint32{0, 1}, fetcher.fetched)
}

func TestSyncFetchTimeout(t *testing.T) {
	mock := clock.NewMock()
	app := &mockApp{}
	started := make(chan struct{})
	fetcher := &mockFetcher{snapshots: []types.Snapshot{snapshotAt(100, 2)}}
	fetcher.fetchFn = func(ctx context.Context, _ types.Snapshot, _ uint32) ([]byte, string, error) {
		close(started)
		<-ctx.Done()
		return nil, "", ctx.Err()
	}

	s := newTestSyncer(t, app, fetcher, &mockTrust{hash: []byte("h")}, WithClock(mock))
	go func() {
		<-started
		mock.Add(DefaultConfig.ChunkFetchTimeout)
	}()
	require.ErrorIs(t, s.Sync(context.Background()), ErrNoSnapshots)
	require.Equal(t, sAwaitingNewOffer, s.CurrentState())
}

func TestSyncVerificationMismatch(t *testing.T) {
	trusted := []byte("trusted-hash")
	app := &mockApp{infoHeight: 100, infoHash: []byte("divergent-hash")}
	fetcher := &mockFetcher{snapshots: []types.Snapshot{snapshotAt(100, 1)}}

	s := newTestSyncer(t, app, fetcher, &mockTrust{hash: trusted})
	err := s.Sync(context.Background())
	require.Error(t, err)
	var verr *VerificationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, uint64(100), verr.Height)
	require.Equal(t, sAborted, s.CurrentState())
}

func TestSyncChunkRetryLimit(t *testing.T) {
	app := &mockApp{}
	app.applyFn = func(types.RequestApplySnapshotChunk) types.ResponseApplySnapshotChunk {
		return types.ResponseApplySnapshotChunk{Result: types.ApplyChunkRetry}
	}
	fetcher := &mockFetcher{snapshots: []types.Snapshot{snapshotAt(100, 1)}}

	cfg := DefaultConfig
	cfg.MaxChunkRetries = 2
	s, err := New(cfg, app, fetcher, &mockTrust{hash: []byte("h")})
	require.NoError(t, err)
	require.ErrorIs(t, s.Sync(context.Background()), ErrNoSnapshots)
	// Initial apply plus two retries before the snapshot is abandoned.
	require.Len(t, app.applied, 3)
	require.Equal(t, sAwaitingNewOffer, s.CurrentState())
}
