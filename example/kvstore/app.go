// Package kvstore implements a minimal ABCI application backed by an
// in-memory key/value store. It demonstrates the full application
// surface including chunked snapshot export and restore.
//
// Transaction format: "key=value" in UTF-8.
package kvstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/blockberries/abci"
	"github.com/blockberries/abci/types"
)

// Compile-time interface check.
var _ abci.Application = (*App)(nil)

const (
	snapshotFormat   = 1
	snapshotChunkLen = 1024
)

// storedSnapshot is a retained snapshot with its chunked payload.
type storedSnapshot struct {
	meta   types.Snapshot
	chunks [][]byte
}

// pendingRestore accumulates chunks while a snapshot is applied.
type pendingRestore struct {
	meta     types.Snapshot
	received map[uint32][]byte
}

// App is an in-memory key/value store application.
type App struct {
	mu      sync.RWMutex
	state   map[string]string
	height  uint64
	appHash []byte

	// Staging area (between BeginBlock and Commit).
	staged       map[string]string
	stagedHeight uint64

	// SnapshotInterval is the height interval at which snapshots are
	// retained. Zero disables snapshots.
	SnapshotInterval uint64
	snapshots        []storedSnapshot

	restore *pendingRestore
}

// New creates a new kvstore application.
func New() *App {
	state := map[string]string{}
	return &App{
		state:            state,
		appHash:          hashState(state),
		SnapshotInterval: 10,
	}
}

func (app *App) Echo(_ context.Context, req types.RequestEcho) (types.ResponseEcho, error) {
	return types.ResponseEcho{Message: req.Message}, nil
}

func (app *App) Info(context.Context, types.RequestInfo) (types.ResponseInfo, error) {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return types.ResponseInfo{
		Data:             "kvstore",
		LastBlockHeight:  app.height,
		LastBlockAppHash: app.appHash,
	}, nil
}

func (app *App) Query(_ context.Context, req types.RequestQuery) (types.ResponseQuery, error) {
	app.mu.RLock()
	defer app.mu.RUnlock()

	value, ok := app.state[string(req.Data)]
	if !ok {
		return types.ResponseQuery{
			Code:   1,
			Log:    "key not found",
			Key:    req.Data,
			Height: app.height,
		}, nil
	}
	return types.ResponseQuery{
		Key:    req.Data,
		Value:  []byte(value),
		Height: app.height,
	}, nil
}

func (app *App) CheckTx(_ context.Context, req types.RequestCheckTx) (types.ResponseCheckTx, error) {
	if _, _, err := parseTx(req.Tx); err != nil {
		return types.ResponseCheckTx{Code: 1, Log: err.Error()}, nil
	}
	return types.ResponseCheckTx{Code: 0, GasWanted: 1}, nil
}

func (app *App) InitChain(_ context.Context, req types.RequestInitChain) (types.ResponseInitChain, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	if len(req.AppStateBytes) > 0 {
		genesis := map[string]string{}
		if err := json.Unmarshal(req.AppStateBytes, &genesis); err != nil {
			return types.ResponseInitChain{}, fmt.Errorf("invalid genesis app state: %w", err)
		}
		app.state = genesis
		app.appHash = hashState(app.state)
	}
	return types.ResponseInitChain{AppHash: app.appHash}, nil
}

func (app *App) BeginBlock(_ context.Context, req types.RequestBeginBlock) (types.ResponseBeginBlock, error) {
	app.mu.RLock()
	staged := make(map[string]string, len(app.state))
	for k, v := range app.state {
		staged[k] = v
	}
	app.mu.RUnlock()

	app.staged = staged
	app.stagedHeight = req.Header.Height
	return types.ResponseBeginBlock{}, nil
}

func (app *App) DeliverTx(_ context.Context, req types.RequestDeliverTx) (types.ResponseDeliverTx, error) {
	key, value, err := parseTx(req.Tx)
	if err != nil {
		return types.ResponseDeliverTx{Code: 1, Log: err.Error()}, nil
	}
	app.staged[key] = value
	return types.ResponseDeliverTx{
		Code:    0,
		GasUsed: 1,
		Events: []types.Event{{
			Type: "store",
			Attributes: []types.EventAttribute{
				{Key: "key", Value: key, Index: true},
			},
		}},
	}, nil
}

func (app *App) EndBlock(context.Context, types.RequestEndBlock) (types.ResponseEndBlock, error) {
	return types.ResponseEndBlock{}, nil
}

func (app *App) Commit(context.Context, types.RequestCommit) (types.ResponseCommit, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	app.state = app.staged
	app.height = app.stagedHeight
	app.appHash = hashState(app.state)
	app.staged = nil

	if app.SnapshotInterval > 0 && app.height > 0 && app.height%app.SnapshotInterval == 0 {
		app.takeSnapshotLocked()
	}
	return types.ResponseCommit{Data: app.appHash}, nil
}

func (app *App) ListSnapshots(context.Context, types.RequestListSnapshots) (types.ResponseListSnapshots, error) {
	app.mu.RLock()
	defer app.mu.RUnlock()

	snaps := make([]types.Snapshot, len(app.snapshots))
	for i, s := range app.snapshots {
		snaps[i] = s.meta
	}
	return types.ResponseListSnapshots{Snapshots: snaps}, nil
}

func (app *App) LoadSnapshotChunk(_ context.Context, req types.RequestLoadSnapshotChunk) (types.ResponseLoadSnapshotChunk, error) {
	app.mu.RLock()
	defer app.mu.RUnlock()

	for _, s := range app.snapshots {
		if s.meta.Height == req.Height && s.meta.Format == req.Format && req.Chunk < uint32(len(s.chunks)) {
			return types.ResponseLoadSnapshotChunk{Chunk: s.chunks[req.Chunk]}, nil
		}
	}
	return types.ResponseLoadSnapshotChunk{}, nil
}

func (app *App) OfferSnapshot(_ context.Context, req types.RequestOfferSnapshot) (types.ResponseOfferSnapshot, error) {
	if req.Snapshot.Format != snapshotFormat {
		return types.ResponseOfferSnapshot{Result: types.OfferSnapshotRejectFormat}, nil
	}
	if req.Snapshot.Chunks == 0 || !bytes.Equal(req.Snapshot.Hash, req.AppHash) {
		return types.ResponseOfferSnapshot{Result: types.OfferSnapshotReject}, nil
	}
	app.restore = &pendingRestore{
		meta:     *req.Snapshot,
		received: make(map[uint32][]byte),
	}
	return types.ResponseOfferSnapshot{Result: types.OfferSnapshotAccept}, nil
}

func (app *App) ApplySnapshotChunk(_ context.Context, req types.RequestApplySnapshotChunk) (types.ResponseApplySnapshotChunk, error) {
	if app.restore == nil {
		return types.ResponseApplySnapshotChunk{Result: types.ApplyChunkAbort}, nil
	}
	app.restore.received[req.Index] = req.Chunk
	if uint32(len(app.restore.received)) < app.restore.meta.Chunks {
		return types.ResponseApplySnapshotChunk{Result: types.ApplyChunkAccept}, nil
	}

	var blob []byte
	for i := uint32(0); i < app.restore.meta.Chunks; i++ {
		blob = append(blob, app.restore.received[i]...)
	}
	state, err := decodeState(blob)
	if err != nil || !bytes.Equal(hashState(state), app.restore.meta.Hash) {
		app.restore = nil
		return types.ResponseApplySnapshotChunk{Result: types.ApplyChunkRejectSnapshot}, nil
	}

	app.mu.Lock()
	app.state = state
	app.height = app.restore.meta.Height
	app.appHash = app.restore.meta.Hash
	app.mu.Unlock()
	app.restore = nil
	return types.ResponseApplySnapshotChunk{Result: types.ApplyChunkAccept}, nil
}

// takeSnapshotLocked retains a snapshot of the committed state.
// Caller holds app.mu.
func (app *App) takeSnapshotLocked() {
	blob := encodeState(app.state)
	var chunks [][]byte
	for len(blob) > 0 {
		n := snapshotChunkLen
		if n > len(blob) {
			n = len(blob)
		}
		chunks = append(chunks, blob[:n])
		blob = blob[n:]
	}
	if len(chunks) == 0 {
		chunks = [][]byte{{}}
	}
	app.snapshots = append(app.snapshots, storedSnapshot{
		meta: types.Snapshot{
			Height: app.height,
			Format: snapshotFormat,
			Chunks: uint32(len(chunks)),
			Hash:   app.appHash,
		},
		chunks: chunks,
	})
}

// Get returns the committed value for a key.
func (app *App) Get(key string) (string, bool) {
	app.mu.RLock()
	defer app.mu.RUnlock()
	v, ok := app.state[key]
	return v, ok
}

func parseTx(tx types.Tx) (key, value string, err error) {
	if bytes.ContainsRune(tx, '\n') {
		return "", "", fmt.Errorf("tx must not contain newlines")
	}
	parts := bytes.SplitN(tx, []byte("="), 2)
	if len(parts) != 2 || len(parts[0]) == 0 {
		return "", "", fmt.Errorf("tx must be key=value, got %q", tx)
	}
	return string(parts[0]), string(parts[1]), nil
}

// encodeState serializes state as sorted key=value lines.
func encodeState(state map[string]string) []byte {
	keys := make([]string, 0, len(state))
	for k := range state {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	for _, k := range keys {
		fmt.Fprintf(&buf, "%s=%s\n", k, state[k])
	}
	return buf.Bytes()
}

func decodeState(blob []byte) (map[string]string, error) {
	state := map[string]string{}
	for _, line := range bytes.Split(blob, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		parts := bytes.SplitN(line, []byte("="), 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed snapshot line %q", line)
		}
		state[string(parts[0])] = string(parts[1])
	}
	return state, nil
}

func hashState(state map[string]string) []byte {
	sum := sha256.Sum256(encodeState(state))
	return sum[:]
}

// Tx creates a transaction setting key to value.
func Tx(key, value string) types.Tx {
	return types.Tx(fmt.Sprintf("%s=%s", key, value))
}
