package types

// Narrowed per-category request unions. Widening back to Request is
// total and lossless; narrowing fails with *WrongCategoryError iff
// the request's category differs from the target. Round-trip law:
// narrowing a widened value to the same category is the identity.

// ConsensusRequest is the consensus category of requests: the
// strictly ordered block-execution pipeline.
type ConsensusRequest struct {
	InitChain  *RequestInitChain
	BeginBlock *RequestBeginBlock
	DeliverTx  *RequestDeliverTx
	EndBlock   *RequestEndBlock
	Commit     *RequestCommit
}

// Widen converts back to the full Request union.
func (r ConsensusRequest) Widen() Request {
	return Request{
		InitChain:  r.InitChain,
		BeginBlock: r.BeginBlock,
		DeliverTx:  r.DeliverTx,
		EndBlock:   r.EndBlock,
		Commit:     r.Commit,
	}
}

// NarrowConsensusRequest narrows a Request to the consensus category.
func NarrowConsensusRequest(r Request) (ConsensusRequest, error) {
	switch {
	case r.InitChain != nil:
		return ConsensusRequest{InitChain: r.InitChain}, nil
	case r.BeginBlock != nil:
		return ConsensusRequest{BeginBlock: r.BeginBlock}, nil
	case r.DeliverTx != nil:
		return ConsensusRequest{DeliverTx: r.DeliverTx}, nil
	case r.EndBlock != nil:
		return ConsensusRequest{EndBlock: r.EndBlock}, nil
	case r.Commit != nil:
		return ConsensusRequest{Commit: r.Commit}, nil
	default:
		return ConsensusRequest{}, &WrongCategoryError{
			Want: CategoryConsensus, Got: CategoryOf(r), Kind: r.Kind(),
		}
	}
}

// MempoolRequest is the mempool category of requests: transaction
// admission checks, safe to run concurrently.
type MempoolRequest struct {
	CheckTx *RequestCheckTx
}

// Widen converts back to the full Request union.
func (r MempoolRequest) Widen() Request {
	return Request{CheckTx: r.CheckTx}
}

// NarrowMempoolRequest narrows a Request to the mempool category.
func NarrowMempoolRequest(r Request) (MempoolRequest, error) {
	if r.CheckTx != nil {
		return MempoolRequest{CheckTx: r.CheckTx}, nil
	}
	return MempoolRequest{}, &WrongCategoryError{
		Want: CategoryMempool, Got: CategoryOf(r), Kind: r.Kind(),
	}
}

// InfoRequest is the info category of requests: reads with no
// ordering obligations beyond request/response pairing.
type InfoRequest struct {
	Echo  *RequestEcho
	Info  *RequestInfo
	Query *RequestQuery
}

// Widen converts back to the full Request union.
func (r InfoRequest) Widen() Request {
	return Request{
		Echo:  r.Echo,
		Info:  r.Info,
		Query: r.Query,
	}
}

// NarrowInfoRequest narrows a Request to the info category.
func NarrowInfoRequest(r Request) (InfoRequest, error) {
	switch {
	case r.Echo != nil:
		return InfoRequest{Echo: r.Echo}, nil
	case r.Info != nil:
		return InfoRequest{Info: r.Info}, nil
	case r.Query != nil:
		return InfoRequest{Query: r.Query}, nil
	default:
		return InfoRequest{}, &WrongCategoryError{
			Want: CategoryInfo, Got: CategoryOf(r), Kind: r.Kind(),
		}
	}
}

// SnapshotRequest is the snapshot category of requests: the
// state-sync bootstrap channel.
type SnapshotRequest struct {
	ListSnapshots      *RequestListSnapshots
	OfferSnapshot      *RequestOfferSnapshot
	LoadSnapshotChunk  *RequestLoadSnapshotChunk
	ApplySnapshotChunk *RequestApplySnapshotChunk
}

// Widen converts back to the full Request union.
func (r SnapshotRequest) Widen() Request {
	return Request{
		ListSnapshots:      r.ListSnapshots,
		OfferSnapshot:      r.OfferSnapshot,
		LoadSnapshotChunk:  r.LoadSnapshotChunk,
		ApplySnapshotChunk: r.ApplySnapshotChunk,
	}
}

// NarrowSnapshotRequest narrows a Request to the snapshot category.
func NarrowSnapshotRequest(r Request) (SnapshotRequest, error) {
	switch {
	case r.ListSnapshots != nil:
		return SnapshotRequest{ListSnapshots: r.ListSnapshots}, nil
	case r.OfferSnapshot != nil:
		return SnapshotRequest{OfferSnapshot: r.OfferSnapshot}, nil
	case r.LoadSnapshotChunk != nil:
		return SnapshotRequest{LoadSnapshotChunk: r.LoadSnapshotChunk}, nil
	case r.ApplySnapshotChunk != nil:
		return SnapshotRequest{ApplySnapshotChunk: r.ApplySnapshotChunk}, nil
	default:
		return SnapshotRequest{}, &WrongCategoryError{
			Want: CategorySnapshot, Got: CategoryOf(r), Kind: r.Kind(),
		}
	}
}
