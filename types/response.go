package types

// ResponseException reports a nondeterministic application fault.
// It carries no category and is surfaced verbatim to the caller;
// how fatal it is to node operation is the consensus driver's policy.
type ResponseException struct {
	Error string `cramberry:"1"`
}

// ResponseEcho returns the string sent in the request.
type ResponseEcho struct {
	Message string `cramberry:"1"`
}

// ResponseFlush acknowledges that all responses to requests issued
// before the Flush on this connection have been delivered.
type ResponseFlush struct{}

// ResponseInfo reports the application's versions and last committed
// state. LastBlockHeight and LastBlockAppHash are checked against the
// verified chain header at the end of snapshot restoration.
type ResponseInfo struct {
	Data             string `cramberry:"1"`
	Version          string `cramberry:"2"`
	AppVersion       uint64 `cramberry:"3"`
	LastBlockHeight  uint64 `cramberry:"4"`
	LastBlockAppHash []byte `cramberry:"5"`
}

// ResponseInitChain returns the application's genesis adjustments.
type ResponseInitChain struct {
	ConsensusParams *ConsensusParams  `cramberry:"1"`
	Validators      []ValidatorUpdate `cramberry:"2"`
	AppHash         []byte            `cramberry:"3"`
}

// ResponseQuery is the application's answer to a state query.
type ResponseQuery struct {
	Code      uint32    `cramberry:"1"`
	Log       string    `cramberry:"2"`
	Info      string    `cramberry:"3"`
	Index     int64     `cramberry:"4"`
	Key       []byte    `cramberry:"5"`
	Value     []byte    `cramberry:"6"`
	ProofOps  *ProofOps `cramberry:"7"`
	Height    uint64    `cramberry:"8"`
	Codespace string    `cramberry:"9"`
}

// ResponseBeginBlock returns events emitted while beginning a block.
type ResponseBeginBlock struct {
	Events []Event `cramberry:"1"`
}

// ResponseCheckTx is the mempool admission verdict for a transaction.
// Code 0 means admitted.
type ResponseCheckTx struct {
	Code      uint32  `cramberry:"1"`
	Data      []byte  `cramberry:"2"`
	Log       string  `cramberry:"3"`
	Info      string  `cramberry:"4"`
	GasWanted int64   `cramberry:"5"`
	GasUsed   int64   `cramberry:"6"`
	Events    []Event `cramberry:"7"`
	Codespace string  `cramberry:"8"`
}

// OK reports whether the transaction was admitted.
func (r ResponseCheckTx) OK() bool { return r.Code == 0 }

// ResponseDeliverTx is the execution result of a single transaction.
// Code 0 means success.
type ResponseDeliverTx struct {
	Code      uint32  `cramberry:"1"`
	Data      []byte  `cramberry:"2"`
	Log       string  `cramberry:"3"`
	Info      string  `cramberry:"4"`
	GasWanted int64   `cramberry:"5"`
	GasUsed   int64   `cramberry:"6"`
	Events    []Event `cramberry:"7"`
	Codespace string  `cramberry:"8"`
}

// OK reports whether the transaction executed successfully.
func (r ResponseDeliverTx) OK() bool { return r.Code == 0 }

// ResponseEndBlock returns end-of-block validator and parameter
// updates.
type ResponseEndBlock struct {
	ValidatorUpdates      []ValidatorUpdate `cramberry:"1"`
	ConsensusParamUpdates *ConsensusParams  `cramberry:"2"`
	Events                []Event           `cramberry:"3"`
}

// ResponseCommit returns the new application state fingerprint and
// the minimum height the engine must retain.
type ResponseCommit struct {
	Data         []byte `cramberry:"1"`
	RetainHeight uint64 `cramberry:"2"`
}

// ResponseListSnapshots lists the snapshots the application can serve.
type ResponseListSnapshots struct {
	Snapshots []Snapshot `cramberry:"1"`
}

// ResponseOfferSnapshot is the application's decision on an offered
// snapshot.
type ResponseOfferSnapshot struct {
	Result OfferSnapshotResult `cramberry:"1"`
}

// ResponseLoadSnapshotChunk returns the requested chunk bytes.
type ResponseLoadSnapshotChunk struct {
	Chunk []byte `cramberry:"1"`
}

// ResponseApplySnapshotChunk is the application's verdict on an
// applied chunk plus its refetch and ban instructions.
//
// RefetchChunks, when non-empty, must be refetched from the network
// and reapplied strictly in the listed order before normal chunk
// progression resumes, regardless of Result. RejectSenders bans the
// listed peers for future chunks and offers only; their already
// applied chunks stand.
type ResponseApplySnapshotChunk struct {
	Result        ApplySnapshotChunkResult `cramberry:"1"`
	RefetchChunks []uint32                 `cramberry:"2"`
	RejectSenders []string                 `cramberry:"3"`
}

// Response is the closed tagged union over all response variants.
// Exactly one field is non-nil in a well-formed value. Exception is
// the only variant with no request counterpart and no category.
type Response struct {
	Exception          *ResponseException          `cramberry:"1"`
	Echo               *ResponseEcho               `cramberry:"2"`
	Flush              *ResponseFlush              `cramberry:"3"`
	Info               *ResponseInfo               `cramberry:"4"`
	InitChain          *ResponseInitChain          `cramberry:"5"`
	Query              *ResponseQuery              `cramberry:"6"`
	BeginBlock         *ResponseBeginBlock         `cramberry:"7"`
	CheckTx            *ResponseCheckTx            `cramberry:"8"`
	DeliverTx          *ResponseDeliverTx          `cramberry:"9"`
	EndBlock           *ResponseEndBlock           `cramberry:"10"`
	Commit             *ResponseCommit             `cramberry:"11"`
	ListSnapshots      *ResponseListSnapshots      `cramberry:"12"`
	OfferSnapshot      *ResponseOfferSnapshot      `cramberry:"13"`
	LoadSnapshotChunk  *ResponseLoadSnapshotChunk  `cramberry:"14"`
	ApplySnapshotChunk *ResponseApplySnapshotChunk `cramberry:"15"`
}

// Kind returns the name of the variant held by the envelope, or ""
// for an empty envelope.
func (r Response) Kind() string {
	switch {
	case r.Exception != nil:
		return "Exception"
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

func ToResponseException(errStr string) Response {
	return Response{Exception: &ResponseException{Error: errStr}}
}

func ToResponseEcho(message string) Response {
	return Response{Echo: &ResponseEcho{Message: message}}
}

func ToResponseFlush() Response {
	return Response{Flush: &ResponseFlush{}}
}

func ToResponseInfo(resp ResponseInfo) Response {
	return Response{Info: &resp}
}

func ToResponseInitChain(resp ResponseInitChain) Response {
	return Response{InitChain: &resp}
}

func ToResponseQuery(resp ResponseQuery) Response {
	return Response{Query: &resp}
}

func ToResponseBeginBlock(resp ResponseBeginBlock) Response {
	return Response{BeginBlock: &resp}
}

func ToResponseCheckTx(resp ResponseCheckTx) Response {
	return Response{CheckTx: &resp}
}

func ToResponseDeliverTx(resp ResponseDeliverTx) Response {
	return Response{DeliverTx: &resp}
}

func ToResponseEndBlock(resp ResponseEndBlock) Response {
	return Response{EndBlock: &resp}
}

func ToResponseCommit(resp ResponseCommit) Response {
	return Response{Commit: &resp}
}

func ToResponseListSnapshots(snapshots []Snapshot) Response {
	return Response{ListSnapshots: &ResponseListSnapshots{Snapshots: snapshots}}
}

func ToResponseOfferSnapshot(result OfferSnapshotResult) Response {
	return Response{OfferSnapshot: &ResponseOfferSnapshot{Result: result}}
}

func ToResponseLoadSnapshotChunk(chunk []byte) Response {
	return Response{LoadSnapshotChunk: &ResponseLoadSnapshotChunk{Chunk: chunk}}
}

func ToResponseApplySnapshotChunk(resp ResponseApplySnapshotChunk) Response {
	return Response{ApplySnapshotChunk: &resp}
}
