package dispatch_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/blockberries/abci"
	"github.com/blockberries/abci/dispatch"
	"github.com/blockberries/abci/types"
)

// recordingApp records the order in which transactions are delivered
// and optionally stalls each call.
type recordingApp struct {
	abci.BaseApplication

	mu        sync.Mutex
	delivered []string
	checked   int
	delay     time.Duration
}

func (a *recordingApp) DeliverTx(_ context.Context, req types.RequestDeliverTx) (types.ResponseDeliverTx, error) {
	if a.delay > 0 {
		time.Sleep(a.delay)
	}
	a.mu.Lock()
	a.delivered = append(a.delivered, string(req.Tx))
	a.mu.Unlock()
	return types.ResponseDeliverTx{Code: 0, Data: req.Tx}, nil
}

func (a *recordingApp) CheckTx(_ context.Context, req types.RequestCheckTx) (types.ResponseCheckTx, error) {
	if a.delay > 0 {
		time.Sleep(a.delay)
	}
	a.mu.Lock()
	a.checked++
	a.mu.Unlock()
	return types.ResponseCheckTx{Code: 0}, nil
}

func TestConsensusOrdering(t *testing.T) {
	app := &recordingApp{}
	d := dispatch.New(app)
	defer d.Close()

	ctx := context.Background()
	txs := []string{"a", "b", "c", "d", "e"}
	for _, tx := range txs {
		d.Submit(ctx, types.ToRequestDeliverTx([]byte(tx)))
	}
	require.NoError(t, d.Flush(ctx))

	app.mu.Lock()
	defer app.mu.Unlock()
	require.Equal(t, txs, app.delivered)
}

func TestFlushBarrier(t *testing.T) {
	app := &recordingApp{delay: 20 * time.Millisecond}
	d := dispatch.New(app)
	defer d.Close()

	ctx := context.Background()
	var pending []*dispatch.ReqRes
	for range 3 {
		pending = append(pending, d.Submit(ctx, types.ToRequestCheckTx(types.RequestCheckTx{Tx: []byte("tx")})))
	}
	pending = append(pending, d.Submit(ctx, types.ToRequestDeliverTx([]byte("tx"))))

	require.NoError(t, d.Flush(ctx))
	// Everything submitted before the flush has a response by now.
	for _, rr := range pending {
		select {
		case <-rr.Done():
		default:
			t.Fatalf("%s not complete at flush return", rr.Request.Kind())
		}
	}
}

func TestMempoolConcurrent(t *testing.T) {
	app := &recordingApp{delay: 30 * time.Millisecond}
	d := dispatch.New(app)
	defer d.Close()

	ctx := context.Background()
	start := time.Now()
	var rrs []*dispatch.ReqRes
	for range 8 {
		rrs = append(rrs, d.Submit(ctx, types.ToRequestCheckTx(types.RequestCheckTx{Tx: []byte("tx")})))
	}
	for _, rr := range rrs {
		resp, err := rr.Wait(ctx)
		require.NoError(t, err)
		require.NotNil(t, resp.CheckTx)
	}
	// Serial execution would take at least 8 * 30ms.
	require.Less(t, time.Since(start), 8*30*time.Millisecond)
}

type failingApp struct {
	abci.BaseApplication
}

func (failingApp) DeliverTx(context.Context, types.RequestDeliverTx) (types.ResponseDeliverTx, error) {
	return types.ResponseDeliverTx{}, abci.NewExceptionError("storage unavailable")
}

func TestApplicationErrorBecomesException(t *testing.T) {
	d := dispatch.New(failingApp{})
	defer d.Close()

	ctx := context.Background()
	resp, err := d.Submit(ctx, types.ToRequestDeliverTx([]byte("tx"))).Wait(ctx)
	require.Error(t, err)
	_, ok := abci.IsException(err)
	require.True(t, ok)
	require.NotNil(t, resp.Exception)
	require.Contains(t, resp.Exception.Error, "storage unavailable")
}

func TestEmptyRequestRejected(t *testing.T) {
	d := dispatch.New(&recordingApp{})
	defer d.Close()

	ctx := context.Background()
	resp, err := d.Submit(ctx, types.Request{}).Wait(ctx)
	require.Error(t, err)
	require.NotNil(t, resp.Exception)
}

func TestSubmitAfterClose(t *testing.T) {
	d := dispatch.New(&recordingApp{})
	require.NoError(t, d.Close())

	resp, err := d.Submit(context.Background(), types.ToRequestEcho("hi")).Wait(context.Background())
	require.Error(t, err)
	require.NotNil(t, resp.Exception)
}

func TestEchoThroughInfoLane(t *testing.T) {
	d := dispatch.New(abci.NewBaseApplication())
	defer d.Close()

	ctx := context.Background()
	resp, err := d.Submit(ctx, types.ToRequestEcho("ping")).Wait(ctx)
	require.NoError(t, err)
	require.NotNil(t, resp.Echo)
	require.Equal(t, "ping", resp.Echo.Message)
}
