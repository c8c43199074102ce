package types

import "fmt"

// RequestEcho echoes a string to test the interface.
type RequestEcho struct {
	Message string `cramberry:"1"`
}

// RequestFlush asks that all pending requests on this connection be
// completed and their responses delivered. It carries no payload.
type RequestFlush struct{}

// RequestInfo requests information about the application state.
// Also used after snapshot restoration to verify the restored height
// and app hash against the trusted chain header.
type RequestInfo struct {
	Version      string `cramberry:"1"`
	BlockVersion uint64 `cramberry:"2"`
	P2PVersion   uint64 `cramberry:"3"`
	AbciVersion  string `cramberry:"4"`
}

// RequestInitChain is sent once on genesis to initialize chain state.
type RequestInitChain struct {
	Time            Timestamp         `cramberry:"1"`
	ChainID         string            `cramberry:"2"`
	ConsensusParams *ConsensusParams  `cramberry:"3"`
	Validators      []ValidatorUpdate `cramberry:"4"`
	AppStateBytes   []byte            `cramberry:"5"`
	InitialHeight   uint64            `cramberry:"6"`
}

// RequestQuery reads application state at the current or a past height.
type RequestQuery struct {
	Data   []byte `cramberry:"1"`
	Path   string `cramberry:"2"`
	Height uint64 `cramberry:"3"` // 0 = latest committed state.
	Prove  bool   `cramberry:"4"`
}

// RequestBeginBlock signals the beginning of a new block, prior to
// any DeliverTx calls.
type RequestBeginBlock struct {
	Hash                []byte         `cramberry:"1"`
	Header              Header         `cramberry:"2"`
	LastCommitInfo      LastCommitInfo `cramberry:"3"`
	ByzantineValidators []Evidence     `cramberry:"4"`
}

// CheckTxType distinguishes first-seen transactions from rechecks
// after a state change. The integers are wire-fixed.
type CheckTxType int32

const (
	// CheckTxNew is a transaction not yet seen by the mempool.
	CheckTxNew CheckTxType = 0
	// CheckTxRecheck is a re-validation after a block was committed.
	CheckTxRecheck CheckTxType = 1
)

// Valid reports whether t is within the defined range.
func (t CheckTxType) Valid() bool {
	return t == CheckTxNew || t == CheckTxRecheck
}

func (t CheckTxType) String() string {
	switch t {
	case CheckTxNew:
		return "New"
	case CheckTxRecheck:
		return "Recheck"
	default:
		return fmt.Sprintf("CheckTxType(%d)", int32(t))
	}
}

// RequestCheckTx gate-checks a transaction for mempool admission.
type RequestCheckTx struct {
	Tx   Tx          `cramberry:"1"`
	Type CheckTxType `cramberry:"2"`
}

// RequestDeliverTx executes a transaction against application state.
type RequestDeliverTx struct {
	Tx Tx `cramberry:"1"`
}

// RequestEndBlock signals the end of a block, after all transactions
// and prior to Commit.
type RequestEndBlock struct {
	Height uint64 `cramberry:"1"`
}

// RequestCommit asks the application to persist the queued state
// transitions. It carries no payload.
type RequestCommit struct{}

// RequestListSnapshots asks the application for its available
// snapshots. It carries no payload.
type RequestListSnapshots struct{}

// RequestOfferSnapshot offers a snapshot for state-sync restoration.
//
// AppHash is the light-client-verified app hash for the snapshot
// height and is the only trusted field in this exchange; everything
// inside Snapshot is adversarial input.
type RequestOfferSnapshot struct {
	Snapshot *Snapshot `cramberry:"1"`
	AppHash  []byte    `cramberry:"2"`
}

// RequestLoadSnapshotChunk retrieves a snapshot chunk for a syncing
// peer.
type RequestLoadSnapshotChunk struct {
	Height uint64 `cramberry:"1"`
	Format uint32 `cramberry:"2"`
	Chunk  uint32 `cramberry:"3"`
}

// RequestApplySnapshotChunk delivers one fetched chunk during
// restoration. Sender identifies the peer that supplied the chunk so
// the application can request bans.
type RequestApplySnapshotChunk struct {
	Index  uint32 `cramberry:"1"`
	Chunk  []byte `cramberry:"2"`
	Sender string `cramberry:"3"`
}

// Request is the closed tagged union over all request variants.
// Exactly one field is non-nil in a well-formed value; the envelope
// doubles as the wire-level selector (the cramberry tag is the
// variant's wire number, fixed forever).
//
// Request values are immutable: constructed once, consumed once by
// the dispatcher, never mutated.
type Request struct {
	Echo               *RequestEcho               `cramberry:"1"`
	Flush              *RequestFlush              `cramberry:"2"`
	Info               *RequestInfo               `cramberry:"3"`
	InitChain          *RequestInitChain          `cramberry:"4"`
	Query              *RequestQuery              `cramberry:"5"`
	BeginBlock         *RequestBeginBlock         `cramberry:"6"`
	CheckTx            *RequestCheckTx            `cramberry:"7"`
	DeliverTx          *RequestDeliverTx          `cramberry:"8"`
	EndBlock           *RequestEndBlock           `cramberry:"9"`
	Commit             *RequestCommit             `cramberry:"10"`
	ListSnapshots      *RequestListSnapshots      `cramberry:"11"`
	OfferSnapshot      *RequestOfferSnapshot      `cramberry:"12"`
	LoadSnapshotChunk  *RequestLoadSnapshotChunk  `cramberry:"13"`
	ApplySnapshotChunk *RequestApplySnapshotChunk `cramberry:"14"`
}

// Kind returns the name of the variant held by the envelope, or ""
// for an empty envelope.
func (r Request) Kind() string {
	switch {
	case r.Echo != nil:
		return "Echo"
	case r.Flush != nil:
		return "Flush"
	case r.Info != nil:
		return "Info"
	case r.InitChain != nil:
		return "InitChain"
	case r.Query != nil:
		return "Query"
	case r.BeginBlock != nil:
		return "BeginBlock"
	case r.CheckTx != nil:
		return "CheckTx"
	case r.DeliverTx != nil:
		return "DeliverTx"
	case r.EndBlock != nil:
		return "EndBlock"
	case r.Commit != nil:
		return "Commit"
	case r.ListSnapshots != nil:
		return "ListSnapshots"
	case r.OfferSnapshot != nil:
		return "OfferSnapshot"
	case r.LoadSnapshotChunk != nil:
		return "LoadSnapshotChunk"
	case r.ApplySnapshotChunk != nil:
		return "ApplySnapshotChunk"
	default:
		return ""
	}
}

// --- Constructors ---
//
// The constructors are the only supported way to build Request
// values; they guarantee exactly one payload is set.

func ToRequestEcho(message string) Request {
	return Request{Echo: &RequestEcho{Message: message}}
}

func ToRequestFlush() Request {
	return Request{Flush: &RequestFlush{}}
}

func ToRequestInfo(req RequestInfo) Request {
	return Request{Info: &req}
}

func ToRequestInitChain(req RequestInitChain) Request {
	return Request{InitChain: &req}
}

func ToRequestQuery(req RequestQuery) Request {
	return Request{Query: &req}
}

func ToRequestBeginBlock(req RequestBeginBlock) Request {
	return Request{BeginBlock: &req}
}

func ToRequestCheckTx(req RequestCheckTx) Request {
	return Request{CheckTx: &req}
}

func ToRequestDeliverTx(tx Tx) Request {
	return Request{DeliverTx: &RequestDeliverTx{Tx: tx}}
}

func ToRequestEndBlock(height uint64) Request {
	return Request{EndBlock: &RequestEndBlock{Height: height}}
}

func ToRequestCommit() Request {
	return Request{Commit: &RequestCommit{}}
}

func ToRequestListSnapshots() Request {
	return Request{ListSnapshots: &RequestListSnapshots{}}
}

func ToRequestOfferSnapshot(snapshot Snapshot, appHash []byte) Request {
	return Request{OfferSnapshot: &RequestOfferSnapshot{
		Snapshot: &snapshot,
		AppHash:  appHash,
	}}
}

func ToRequestLoadSnapshotChunk(req RequestLoadSnapshotChunk) Request {
	return Request{LoadSnapshotChunk: &req}
}

func ToRequestApplySnapshotChunk(req RequestApplySnapshotChunk) Request {
	return Request{ApplySnapshotChunk: &req}
}
