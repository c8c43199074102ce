// Package dispatch routes request envelopes to an application with the
// concurrency contract each category requires: consensus and snapshot
// requests execute strictly in submission order on a single lane,
// mempool and info requests run concurrently, and a flush acts as a
// barrier that completes only after every previously submitted request
// has completed.
package dispatch

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/blockberries/abci"
	"github.com/blockberries/abci/types"
)

// serialLaneDepth bounds how many ordered requests may queue before
// Submit blocks the caller.
const serialLaneDepth = 64

// ReqRes is the pending result of a submitted request. The response
// becomes available once the request's category lane executes it.
type ReqRes struct {
	Request types.Request

	done chan struct{}
	resp types.Response
	err  error
}

func newReqRes(req types.Request) *ReqRes {
	return &ReqRes{Request: req, done: make(chan struct{})}
}

// Done returns a channel closed when the response is available.
func (r *ReqRes) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the response is available or ctx expires.
func (r *ReqRes) Wait(ctx context.Context) (types.Response, error) {
	select {
	case <-r.done:
		return r.resp, r.err
	case <-ctx.Done():
		return types.Response{}, ctx.Err()
	}
}

// Response returns the result without blocking. Valid only after the
// Done channel is closed.
func (r *ReqRes) Response() (types.Response, error) {
	return r.resp, r.err
}

func (r *ReqRes) complete(resp types.Response, err error) {
	r.resp = resp
	r.err = err
	close(r.done)
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the dispatcher's logger.
func WithLogger(l *zap.Logger) Option {
	return func(d *Dispatcher) { d.log = l }
}

// Dispatcher owns the category lanes in front of an application.
type Dispatcher struct {
	app abci.Application
	log *zap.Logger

	serial chan *ReqRes
	wg     sync.WaitGroup

	mu      sync.Mutex
	subs    sync.WaitGroup // in-flight ordered-lane submissions
	pending map[*ReqRes]struct{}
	closed  bool
}

// New creates a Dispatcher and starts its ordered lane.
func New(app abci.Application, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		app:     app,
		log:     zap.NewNop(),
		serial:  make(chan *ReqRes, serialLaneDepth),
		pending: make(map[*ReqRes]struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.wg.Add(1)
	go d.serialLoop()
	return d
}

func (d *Dispatcher) serialLoop() {
	defer d.wg.Done()
	for rr := range d.serial {
		d.finish(rr, d.execute(context.Background(), rr.Request))
	}
}

// Submit routes a request to its category lane and returns the pending
// result. The returned ReqRes completes out of band; callers that need
// the response synchronously use Wait.
//
// A flush request completes only after every request submitted before
// it has completed. Requests submitted after the flush are not held
// back by it.
func (d *Dispatcher) Submit(ctx context.Context, req types.Request) *ReqRes {
	rr := newReqRes(req)
	cat := types.CategoryOf(req)

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		rr.complete(types.ToResponseException("dispatcher closed"), abci.NewExceptionError("dispatcher closed"))
		return rr
	}

	switch cat {
	case types.CategoryFlush:
		// Barrier over everything submitted so far.
		before := make([]*ReqRes, 0, len(d.pending))
		for p := range d.pending {
			before = append(before, p)
		}
		d.pending[rr] = struct{}{}
		d.mu.Unlock()
		go func() {
			for _, p := range before {
				<-p.Done()
			}
			d.finish(rr, types.ToResponseFlush())
		}()

	case types.CategoryConsensus, types.CategorySnapshot:
		d.pending[rr] = struct{}{}
		d.subs.Add(1)
		d.mu.Unlock()
		select {
		case d.serial <- rr:
		case <-ctx.Done():
			d.finish(rr, types.ToResponseException(ctx.Err().Error()))
		}
		d.subs.Done()

	case types.CategoryMempool, types.CategoryInfo:
		d.pending[rr] = struct{}{}
		d.mu.Unlock()
		go func() {
			d.finish(rr, d.execute(ctx, req))
		}()

	default:
		d.mu.Unlock()
		d.log.Warn("request with no payload", zap.String("kind", req.Kind()))
		rr.complete(types.ToResponseException("empty request"), abci.NewExceptionError("empty request"))
	}
	return rr
}

func (d *Dispatcher) finish(rr *ReqRes, resp types.Response) {
	d.mu.Lock()
	delete(d.pending, rr)
	d.mu.Unlock()

	var err error
	if resp.Exception != nil {
		err = abci.NewExceptionError(resp.Exception.Error)
	}
	rr.complete(resp, err)
}

// execute invokes the application method for the request and folds any
// application error into an exception response.
func (d *Dispatcher) execute(ctx context.Context, req types.Request) types.Response {
	resp, err := d.call(ctx, req)
	if err != nil {
		d.log.Error("application error",
			zap.String("kind", req.Kind()),
			zap.Error(err))
		return types.ToResponseException(err.Error())
	}
	return resp
}

func (d *Dispatcher) call(ctx context.Context, req types.Request) (types.Response, error) {
	switch {
	case req.Echo != nil:
		r, err := d.app.Echo(ctx, *req.Echo)
		return types.ToResponseEcho(r.Message), err
	case req.Info != nil:
		r, err := d.app.Info(ctx, *req.Info)
		return types.ToResponseInfo(r), err
	case req.Query != nil:
		r, err := d.app.Query(ctx, *req.Query)
		return types.ToResponseQuery(r), err
	case req.CheckTx != nil:
		r, err := d.app.CheckTx(ctx, *req.CheckTx)
		return types.ToResponseCheckTx(r), err
	case req.InitChain != nil:
		r, err := d.app.InitChain(ctx, *req.InitChain)
		return types.ToResponseInitChain(r), err
	case req.BeginBlock != nil:
		r, err := d.app.BeginBlock(ctx, *req.BeginBlock)
		return types.ToResponseBeginBlock(r), err
	case req.DeliverTx != nil:
		r, err := d.app.DeliverTx(ctx, *req.DeliverTx)
		return types.ToResponseDeliverTx(r), err
	case req.EndBlock != nil:
		r, err := d.app.EndBlock(ctx, *req.EndBlock)
		return types.ToResponseEndBlock(r), err
	case req.Commit != nil:
		r, err := d.app.Commit(ctx, *req.Commit)
		return types.ToResponseCommit(r), err
	case req.ListSnapshots != nil:
		r, err := d.app.ListSnapshots(ctx, *req.ListSnapshots)
		return types.ToResponseListSnapshots(r.Snapshots), err
	case req.OfferSnapshot != nil:
		r, err := d.app.OfferSnapshot(ctx, *req.OfferSnapshot)
		return types.ToResponseOfferSnapshot(r.Result), err
	case req.LoadSnapshotChunk != nil:
		r, err := d.app.LoadSnapshotChunk(ctx, *req.LoadSnapshotChunk)
		return types.ToResponseLoadSnapshotChunk(r.Chunk), err
	case req.ApplySnapshotChunk != nil:
		r, err := d.app.ApplySnapshotChunk(ctx, *req.ApplySnapshotChunk)
		return types.ToResponseApplySnapshotChunk(r), err
	default:
		return types.ToResponseException("unhandled request kind " + req.Kind()), nil
	}
}

// Flush submits a flush barrier and waits for it.
func (d *Dispatcher) Flush(ctx context.Context) error {
	_, err := d.Submit(ctx, types.ToRequestFlush()).Wait(ctx)
	return err
}

// Close drains the ordered lane and stops the dispatcher. Requests
// submitted after Close complete with an exception.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	d.subs.Wait()
	close(d.serial)
	d.wg.Wait()
	return nil
}
