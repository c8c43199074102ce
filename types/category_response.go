package types

// Narrowed per-category response unions, mirroring the request side.
// Exception is excluded from all of them: it has no category, so
// narrowing an Exception response fails for every target.

// ConsensusResponse is the consensus category of responses.
type ConsensusResponse struct {
	InitChain  *ResponseInitChain
	BeginBlock *ResponseBeginBlock
	DeliverTx  *ResponseDeliverTx
	EndBlock   *ResponseEndBlock
	Commit     *ResponseCommit
}

// Widen converts back to the full Response union.
func (r ConsensusResponse) Widen() Response {
	return Response{
		InitChain:  r.InitChain,
		BeginBlock: r.BeginBlock,
		DeliverTx:  r.DeliverTx,
		EndBlock:   r.EndBlock,
		Commit:     r.Commit,
	}
}

// NarrowConsensusResponse narrows a Response to the consensus category.
func NarrowConsensusResponse(r Response) (ConsensusResponse, error) {
	switch {
	case r.InitChain != nil:
		return ConsensusResponse{InitChain: r.InitChain}, nil
	case r.BeginBlock != nil:
		return ConsensusResponse{BeginBlock: r.BeginBlock}, nil
	case r.DeliverTx != nil:
		return ConsensusResponse{DeliverTx: r.DeliverTx}, nil
	case r.EndBlock != nil:
		return ConsensusResponse{EndBlock: r.EndBlock}, nil
	case r.Commit != nil:
		return ConsensusResponse{Commit: r.Commit}, nil
	default:
		return ConsensusResponse{}, &WrongCategoryError{
			Want: CategoryConsensus, Got: ResponseCategoryOf(r), Kind: r.Kind(),
		}
	}
}

// MempoolResponse is the mempool category of responses.
type MempoolResponse struct {
	CheckTx *ResponseCheckTx
}

// Widen converts back to the full Response union.
func (r MempoolResponse) Widen() Response {
	return Response{CheckTx: r.CheckTx}
}

// NarrowMempoolResponse narrows a Response to the mempool category.
func NarrowMempoolResponse(r Response) (MempoolResponse, error) {
	if r.CheckTx != nil {
		return MempoolResponse{CheckTx: r.CheckTx}, nil
	}
	return MempoolResponse{}, &WrongCategoryError{
		Want: CategoryMempool, Got: ResponseCategoryOf(r), Kind: r.Kind(),
	}
}

// InfoResponse is the info category of responses.
type InfoResponse struct {
	Echo  *ResponseEcho
	Info  *ResponseInfo
	Query *ResponseQuery
}

// Widen converts back to the full Response union.
func (r InfoResponse) Widen() Response {
	return Response{
		Echo:  r.Echo,
		Info:  r.Info,
		Query: r.Query,
	}
}

// NarrowInfoResponse narrows a Response to the info category.
func NarrowInfoResponse(r Response) (InfoResponse, error) {
	switch {
	case r.Echo != nil:
		return InfoResponse{Echo: r.Echo}, nil
	case r.Info != nil:
		return InfoResponse{Info: r.Info}, nil
	case r.Query != nil:
		return InfoResponse{Query: r.Query}, nil
	default:
		return InfoResponse{}, &WrongCategoryError{
			Want: CategoryInfo, Got: ResponseCategoryOf(r), Kind: r.Kind(),
		}
	}
}

// SnapshotResponse is the snapshot category of responses.
type SnapshotResponse struct {
	ListSnapshots      *ResponseListSnapshots
	OfferSnapshot      *ResponseOfferSnapshot
	LoadSnapshotChunk  *ResponseLoadSnapshotChunk
	ApplySnapshotChunk *ResponseApplySnapshotChunk
}

// Widen converts back to the full Response union.
func (r SnapshotResponse) Widen() Response {
	return Response{
		ListSnapshots:      r.ListSnapshots,
		OfferSnapshot:      r.OfferSnapshot,
		LoadSnapshotChunk:  r.LoadSnapshotChunk,
		ApplySnapshotChunk: r.ApplySnapshotChunk,
	}
}

// NarrowSnapshotResponse narrows a Response to the snapshot category.
func NarrowSnapshotResponse(r Response) (SnapshotResponse, error) {
	switch {
	case r.ListSnapshots != nil:
		return SnapshotResponse{ListSnapshots: r.ListSnapshots}, nil
	case r.OfferSnapshot != nil:
		return SnapshotResponse{OfferSnapshot: r.OfferSnapshot}, nil
	case r.LoadSnapshotChunk != nil:
		return SnapshotResponse{LoadSnapshotChunk: r.LoadSnapshotChunk}, nil
	case r.ApplySnapshotChunk != nil:
		return SnapshotResponse{ApplySnapshotChunk: r.ApplySnapshotChunk}, nil
	default:
		return SnapshotResponse{}, &WrongCategoryError{
			Want: CategorySnapshot, Got: ResponseCategoryOf(r), Kind: r.Kind(),
		}
	}
}
