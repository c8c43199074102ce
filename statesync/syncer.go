// Package statesync restores application state from a snapshot served
// by peers instead of replaying blocks. The syncer offers advertised
// snapshots to the local application, streams their chunks in order,
// and reacts to the application's verdicts: individual chunks can be
// retried or refetched, snapshot senders can be banned, whole
// snapshots can be rejected or re-offered, and the application can
// abort the sync entirely. A restored state is only accepted once the
// application reports a height and app hash matching a trusted source.
package statesync

import (
	"bytes"
	"context"

	"github.com/facebookgo/clock"
	fsm "github.com/iotexproject/go-fsm"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/blockberries/abci/types"
)

const (
	sNoSnapshot       fsm.State = "S_NO_SNAPSHOT"
	sOffered          fsm.State = "S_OFFERED"
	sApplying         fsm.State = "S_APPLYING"
	sCompleted        fsm.State = "S_COMPLETED"
	sAborted          fsm.State = "S_ABORTED"
	sAwaitingNewOffer fsm.State = "S_AWAITING_NEW_OFFER"

	eOfferSnapshot   fsm.EventType = "E_OFFER_SNAPSHOT"
	eOfferVerdict    fsm.EventType = "E_OFFER_VERDICT"
	eChunkVerdict    fsm.EventType = "E_CHUNK_VERDICT"
	eFetchFailed     fsm.EventType = "E_FETCH_FAILED"
	eRestoreVerified fsm.EventType = "E_RESTORE_VERIFIED"
	eAbort           fsm.EventType = "E_ABORT"
)

// AppConn is the slice of the application surface the syncer drives.
type AppConn interface {
	OfferSnapshot(ctx context.Context, req types.RequestOfferSnapshot) (types.ResponseOfferSnapshot, error)
	ApplySnapshotChunk(ctx context.Context, req types.RequestApplySnapshotChunk) (types.ResponseApplySnapshotChunk, error)
	Info(ctx context.Context, req types.RequestInfo) (types.ResponseInfo, error)
}

// ChunkFetcher discovers snapshots advertised by peers and retrieves
// their chunks.
type ChunkFetcher interface {
	// Snapshots returns advertised snapshots, best candidate first.
	Snapshots(ctx context.Context) ([]types.Snapshot, error)
	// FetchChunk retrieves one chunk and reports which peer sent it.
	FetchChunk(ctx context.Context, snapshot types.Snapshot, index uint32) (chunk []byte, sender string, err error)
	// BanSender excludes a peer from further fetches.
	BanSender(sender string)
}

// TrustSource provides the trusted app hash for a height, typically
// backed by a light client.
type TrustSource interface {
	TrustedAppHash(ctx context.Context, height uint64) ([]byte, error)
}

type fetchedChunk struct {
	data   []byte
	sender string
}

// restore is the bookkeeping for one snapshot being applied.
type restore struct {
	snapshot types.Snapshot
	trusted  []byte

	next         uint32
	refetch      []uint32
	cache        map[uint32]fetchedChunk
	chunkRetries map[uint32]int
	offerRetries int
}

type syncEvent struct {
	t      fsm.EventType
	offer  types.OfferSnapshotResult
	chunk  types.ApplySnapshotChunkResult
	last   bool
	giveUp bool
}

func (e *syncEvent) Type() fsm.EventType { return e.t }

// Syncer restores application state from peer snapshots. A Syncer is
// single-use: once Sync returns, the machine is in a terminal state.
type Syncer struct {
	cfg     Config
	app     AppConn
	fetcher ChunkFetcher
	trust   TrustSource
	clock   clock.Clock
	log     *zap.Logger
	fsm     fsm.FSM

	cur *restore
	err error
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithLogger sets the syncer's logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Syncer) { s.log = l }
}

// WithClock sets the clock used for fetch timeouts.
func WithClock(c clock.Clock) Option {
	return func(s *Syncer) { s.clock = c }
}

// New creates a Syncer.
func New(cfg Config, app AppConn, fetcher ChunkFetcher, trust TrustSource, opts ...Option) (*Syncer, error) {
	s := &Syncer{
		cfg:     cfg,
		app:     app,
		fetcher: fetcher,
		trust:   trust,
		clock:   clock.New(),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	m, err := fsm.NewBuilder().
		AddInitialState(sNoSnapshot).
		AddStates(
			sOffered,
			sApplying,
			sCompleted,
			sAborted,
			sAwaitingNewOffer,
		).
		AddTransition(sNoSnapshot, eOfferSnapshot, s.onOffer, []fsm.State{sOffered}).
		AddTransition(sAwaitingNewOffer, eOfferSnapshot, s.onOffer, []fsm.State{sOffered}).
		AddTransition(sOffered, eOfferVerdict, s.onOfferVerdict, []fsm.State{
			sApplying,
			sAwaitingNewOffer,
			sAborted,
		}).
		AddTransition(sApplying, eChunkVerdict, s.onChunkVerdict, []fsm.State{
			sApplying,
			sOffered,
			sAwaitingNewOffer,
			sAborted,
		}).
		AddTransition(sApplying, eFetchFailed, s.onFetchFailed, []fsm.State{sAwaitingNewOffer}).
		AddTransition(sApplying, eRestoreVerified, s.onVerified, []fsm.State{sCompleted}).
		AddTransition(sOffered, eAbort, s.onAbort, []fsm.State{sAborted}).
		AddTransition(sApplying, eAbort, s.onAbort, []fsm.State{sAborted}).
		Build()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build state sync fsm")
	}
	s.fsm = m
	return s, nil
}

// CurrentState returns the current protocol state.
func (s *Syncer) CurrentState() fsm.State {
	return s.fsm.CurrentState()
}

func (s *Syncer) handle(evt *syncEvent) error {
	src := s.fsm.CurrentState()
	if err := s.fsm.Handle(evt); err != nil {
		return errors.Wrapf(err, "state sync transition failed in %s on %s", src, evt.t)
	}
	s.log.Debug("state sync transition",
		zap.String("src", string(src)),
		zap.String("dst", string(s.fsm.CurrentState())),
		zap.String("evt", string(evt.t)))
	return nil
}

// Sync discovers snapshots and restores the best viable one. It
// returns nil once the restored state is verified, ErrNoSnapshots if
// every candidate was rejected or failed, ErrAborted if the
// application aborted, and a VerificationError if a restored state
// did not match the trusted hash.
func (s *Syncer) Sync(ctx context.Context) error {
	candidates, err := s.fetcher.Snapshots(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to discover snapshots")
	}
	if len(candidates) == 0 {
		return ErrNoSnapshots
	}

	for _, snapshot := range candidates {
		// Snapshot metadata comes from untrusted peers. A zero-chunk
		// snapshot can never finish applying, so it is not viable.
		if snapshot.Chunks == 0 {
			s.log.Info("skipping snapshot with no chunks",
				zap.Uint64("height", snapshot.Height),
				zap.Uint32("format", snapshot.Format))
			continue
		}
		trusted, err := s.trust.TrustedAppHash(ctx, snapshot.Height)
		if err != nil {
			s.log.Info("skipping snapshot without trusted hash",
				zap.Uint64("height", snapshot.Height),
				zap.Error(err))
			continue
		}
		done, err := s.restoreSnapshot(ctx, snapshot, trusted)
		if err != nil || done {
			return err
		}
		// Snapshot abandoned, next candidate.
	}
	statesyncMtc.WithLabelValues("exhausted").Inc()
	return ErrNoSnapshots
}

// restoreSnapshot runs one candidate until it completes, is abandoned
// (false, nil), or the sync fails permanently.
func (s *Syncer) restoreSnapshot(ctx context.Context, snapshot types.Snapshot, trusted []byte) (bool, error) {
	s.cur = &restore{
		snapshot:     snapshot,
		trusted:      trusted,
		cache:        make(map[uint32]fetchedChunk),
		chunkRetries: make(map[uint32]int),
	}
	if err := s.handle(&syncEvent{t: eOfferSnapshot}); err != nil {
		return false, err
	}

	for {
		switch s.fsm.CurrentState() {
		case sOffered:
			if err := s.offer(ctx); err != nil {
				return false, err
			}
		case sApplying:
			if err := s.applyNext(ctx); err != nil {
				return false, err
			}
		case sCompleted:
			statesyncMtc.WithLabelValues("completed").Inc()
			s.log.Info("state sync complete",
				zap.Uint64("height", snapshot.Height),
				zap.Uint32("chunks", snapshot.Chunks))
			return true, nil
		case sAborted:
			statesyncMtc.WithLabelValues("aborted").Inc()
			if s.err != nil {
				return true, s.err
			}
			return true, ErrAborted
		case sAwaitingNewOffer:
			statesyncMtc.WithLabelValues("abandoned").Inc()
			return false, nil
		default:
			return false, errors.Errorf("state sync in unexpected state %s", s.fsm.CurrentState())
		}
	}
}

func (s *Syncer) offer(ctx context.Context) error {
	resp, err := s.app.OfferSnapshot(ctx, types.RequestOfferSnapshot{
		Snapshot: &s.cur.snapshot,
		AppHash:  s.cur.trusted,
	})
	if err != nil {
		return errors.Wrap(err, "failed to offer snapshot")
	}
	s.log.Info("offered snapshot",
		zap.Uint64("height", s.cur.snapshot.Height),
		zap.Uint32("format", s.cur.snapshot.Format),
		zap.String("result", resp.Result.String()))
	return s.handle(&syncEvent{t: eOfferVerdict, offer: resp.Result})
}

// applyNext applies one chunk: a queued refetch first, otherwise the
// next unapplied index.
func (s *Syncer) applyNext(ctx context.Context) error {
	cur := s.cur
	index := cur.next
	if len(cur.refetch) > 0 {
		index = cur.refetch[0]
		cur.refetch = cur.refetch[1:]
	}

	chunk, ok := cur.cache[index]
	if !ok {
		var err error
		chunk, err = s.fetchChunk(ctx, index)
		if err != nil {
			s.log.Info("chunk fetch failed, abandoning snapshot",
				zap.Uint64("height", cur.snapshot.Height),
				zap.Uint32("chunk", index),
				zap.Error(err))
			return s.handle(&syncEvent{t: eFetchFailed})
		}
		cur.cache[index] = chunk
	}

	resp, err := s.app.ApplySnapshotChunk(ctx, types.RequestApplySnapshotChunk{
		Index:  index,
		Chunk:  chunk.data,
		Sender: chunk.sender,
	})
	if err != nil {
		return errors.Wrapf(err, "failed to apply chunk %d", index)
	}

	for _, sender := range resp.RejectSenders {
		s.fetcher.BanSender(sender)
		for i, c := range cur.cache {
			if c.sender == sender {
				delete(cur.cache, i)
			}
		}
	}
	for _, rc := range resp.RefetchChunks {
		delete(cur.cache, rc)
		cur.refetch = append(cur.refetch, rc)
	}

	evt := &syncEvent{t: eChunkVerdict, chunk: resp.Result}
	switch resp.Result {
	case types.ApplyChunkAccept:
		if index == cur.next {
			cur.next++
		}
		evt.last = cur.next == cur.snapshot.Chunks && len(cur.refetch) == 0
	case types.ApplyChunkRetry:
		cur.chunkRetries[index]++
		evt.giveUp = cur.chunkRetries[index] > s.cfg.MaxChunkRetries
		if !evt.giveUp && index != cur.next {
			// A retried refetch must be queued again or it is lost.
			cur.refetch = append(cur.refetch, index)
		}
	case types.ApplyChunkRetrySnapshot:
		cur.offerRetries++
		evt.giveUp = cur.offerRetries > s.cfg.MaxSnapshotRetries
		if !evt.giveUp {
			cur.next = 0
			cur.refetch = nil
		}
	}
	if err := s.handle(evt); err != nil {
		return err
	}
	if evt.last && resp.Result == types.ApplyChunkAccept {
		return s.verify(ctx)
	}
	return nil
}

// fetchChunk retrieves one chunk, bounded by the configured timeout.
func (s *Syncer) fetchChunk(ctx context.Context, index uint32) (fetchedChunk, error) {
	fctx, cancel := context.WithCancel(ctx)
	defer cancel()

	timer := s.clock.Timer(s.cfg.ChunkFetchTimeout)
	defer timer.Stop()

	type result struct {
		chunk fetchedChunk
		err   error
	}
	ch := make(chan result, 1)
	go func() {
		data, sender, err := s.fetcher.FetchChunk(fctx, s.cur.snapshot, index)
		ch <- result{fetchedChunk{data: data, sender: sender}, err}
	}()

	select {
	case r := <-ch:
		return r.chunk, r.err
	case <-timer.C:
		cancel()
		return fetchedChunk{}, errors.Errorf("timed out fetching chunk %d", index)
	case <-ctx.Done():
		return fetchedChunk{}, ctx.Err()
	}
}

// verify checks the restored state against the trusted hash before
// declaring the sync complete.
func (s *Syncer) verify(ctx context.Context) error {
	resp, err := s.app.Info(ctx, types.RequestInfo{})
	if err != nil {
		return errors.Wrap(err, "failed to query restored state")
	}
	if resp.LastBlockHeight != s.cur.snapshot.Height || !bytes.Equal(resp.LastBlockAppHash, s.cur.trusted) {
		s.err = &VerificationError{
			Height: s.cur.snapshot.Height,
			Want:   s.cur.trusted,
			Got:    resp.LastBlockAppHash,
		}
		statesyncMtc.WithLabelValues("verify_failed").Inc()
		return s.handle(&syncEvent{t: eAbort})
	}
	return s.handle(&syncEvent{t: eRestoreVerified})
}

func (s *Syncer) onOffer(fsm.Event) (fsm.State, error) {
	return sOffered, nil
}

func (s *Syncer) onOfferVerdict(e fsm.Event) (fsm.State, error) {
	evt := e.(*syncEvent)
	switch evt.offer {
	case types.OfferSnapshotAccept:
		statesyncMtc.WithLabelValues("offer_accepted").Inc()
		return sApplying, nil
	case types.OfferSnapshotReject, types.OfferSnapshotRejectFormat, types.OfferSnapshotRejectSender:
		statesyncMtc.WithLabelValues("offer_rejected").Inc()
		return sAwaitingNewOffer, nil
	default:
		// Abort and Unknown both stop the sync.
		return sAborted, nil
	}
}

func (s *Syncer) onChunkVerdict(e fsm.Event) (fsm.State, error) {
	evt := e.(*syncEvent)
	switch evt.chunk {
	case types.ApplyChunkAccept:
		return sApplying, nil
	case types.ApplyChunkRetry:
		if evt.giveUp {
			return sAwaitingNewOffer, nil
		}
		return sApplying, nil
	case types.ApplyChunkRetrySnapshot:
		if evt.giveUp {
			return sAwaitingNewOffer, nil
		}
		return sOffered, nil
	case types.ApplyChunkRejectSnapshot:
		return sAwaitingNewOffer, nil
	default:
		// Abort and Unknown both stop the sync.
		return sAborted, nil
	}
}

func (s *Syncer) onFetchFailed(fsm.Event) (fsm.State, error) {
	return sAwaitingNewOffer, nil
}

func (s *Syncer) onVerified(fsm.Event) (fsm.State, error) {
	return sCompleted, nil
}

func (s *Syncer) onAbort(fsm.Event) (fsm.State, error) {
	return sAborted, nil
}
