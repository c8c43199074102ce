package types

import (
	"errors"
	"fmt"
)

// Category partitions every request variant into one of five dispatch
// classes with distinct ordering and concurrency obligations:
//
//   - Consensus: strictly ordered, one at a time, never concurrent.
//   - Mempool, Info: may run concurrently with each other and with
//     unrelated Consensus traffic.
//   - Snapshot: strictly sequential, active only during bootstrap,
//     mutually exclusive with Consensus traffic.
//   - Flush: a synchronous barrier on its own connection.
//
// The partition is a routing signal for the dispatcher; it performs
// no synchronization itself.
type Category uint8

const (
	// CategoryNone is not a dispatch class: it is returned for empty
	// envelopes and for the Exception response, which has no category.
	CategoryNone Category = iota
	CategoryFlush
	CategoryConsensus
	CategoryMempool
	CategoryInfo
	CategorySnapshot
)

func (c Category) String() string {
	switch c {
	case CategoryNone:
		return "None"
	case CategoryFlush:
		return "Flush"
	case CategoryConsensus:
		return "Consensus"
	case CategoryMempool:
		return "Mempool"
	case CategoryInfo:
		return "Info"
	case CategorySnapshot:
		return "Snapshot"
	default:
		return fmt.Sprintf("Category(%d)", uint8(c))
	}
}

// CategoryOf returns the dispatch category of a request. Total: every
// variant maps to exactly one category; an empty envelope maps to
// CategoryNone.
func CategoryOf(r Request) Category {
	switch {
	case r.Flush != nil:
		return CategoryFlush
	case r.InitChain != nil, r.BeginBlock != nil, r.DeliverTx != nil,
		r.EndBlock != nil, r.Commit != nil:
		return CategoryConsensus
	case r.CheckTx != nil:
		return CategoryMempool
	case r.Echo != nil, r.Info != nil, r.Query != nil:
		return CategoryInfo
	case r.ListSnapshots != nil, r.OfferSnapshot != nil,
		r.LoadSnapshotChunk != nil, r.ApplySnapshotChunk != nil:
		return CategorySnapshot
	default:
		return CategoryNone
	}
}

// ResponseCategoryOf returns the dispatch category of a response.
// Exception responses have no category and map to CategoryNone, as
// do empty envelopes.
func ResponseCategoryOf(r Response) Category {
	switch {
	case r.Flush != nil:
		return CategoryFlush
	case r.InitChain != nil, r.BeginBlock != nil, r.DeliverTx != nil,
		r.EndBlock != nil, r.Commit != nil:
		return CategoryConsensus
	case r.CheckTx != nil:
		return CategoryMempool
	case r.Echo != nil, r.Info != nil, r.Query != nil:
		return CategoryInfo
	case r.ListSnapshots != nil, r.OfferSnapshot != nil,
		r.LoadSnapshotChunk != nil, r.ApplySnapshotChunk != nil:
		return CategorySnapshot
	default:
		return CategoryNone
	}
}

// WrongCategoryError reports a failed narrowing: the message belongs
// to a different category than the one narrowed to. It is a routing
// signal, not a fault — dispatchers use it to try another category.
type WrongCategoryError struct {
	// Want is the category narrowed to.
	Want Category
	// Got is the message's actual category.
	Got Category
	// Kind is the message's variant name ("" for empty envelopes).
	Kind string
}

func (e *WrongCategoryError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("cannot narrow empty message to %s", e.Want)
	}
	return fmt.Sprintf("cannot narrow %s (category %s) to %s", e.Kind, e.Got, e.Want)
}

// IsWrongCategory checks whether err is a WrongCategoryError.
func IsWrongCategory(err error) (*WrongCategoryError, bool) {
	var w *WrongCategoryError
	if errors.As(err, &w) {
		return w, true
	}
	return nil, false
}
