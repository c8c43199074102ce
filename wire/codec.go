// Package wire maps the in-memory ABCI message model to and from its
// binary encoding.
//
// Encoding is total and deterministic (cramberry). Decoding is total
// over arbitrary byte sequences: every malformed or adversarial input
// produces a typed error — MissingPayloadError, MissingNestedFieldError,
// UnknownEnumValueError or MalformedError — never a panic. For every
// constructible message m, Decode(Encode(m)) == m.
//
// Enum-to-integer mappings are fixed by the wire contract and must
// never be renumbered across versions. An absent enum field decodes
// to the enum's zero value (Unknown); only out-of-range values are
// decode errors, since the encoding cannot distinguish an absent
// field from an explicit zero.
package wire

import (
	"github.com/blockberries/abci/types"

	"github.com/blockberries/cramberry/pkg/cramberry"
)

// EncodeRequest encodes a request envelope. It does not fail for any
// message built with the types constructors.
func EncodeRequest(req types.Request) ([]byte, error) {
	data, err := cramberry.Marshal(req)
	if err != nil {
		return nil, &MalformedError{Reason: "encode request", Err: err}
	}
	return data, nil
}

// DecodeRequest decodes and validates a request envelope.
func DecodeRequest(data []byte) (types.Request, error) {
	var req types.Request
	if err := cramberry.Unmarshal(data, &req); err != nil {
		return types.Request{}, &MalformedError{Reason: "decode request", Err: err}
	}
	if err := validateRequest(req); err != nil {
		return types.Request{}, err
	}
	return req, nil
}

// EncodeResponse encodes a response envelope. It does not fail for
// any message built with the types constructors.
func EncodeResponse(resp types.Response) ([]byte, error) {
	data, err := cramberry.Marshal(resp)
	if err != nil {
		return nil, &MalformedError{Reason: "encode response", Err: err}
	}
	return data, nil
}

// DecodeResponse decodes and validates a response envelope.
func DecodeResponse(data []byte) (types.Response, error) {
	var resp types.Response
	if err := cramberry.Unmarshal(data, &resp); err != nil {
		return types.Response{}, &MalformedError{Reason: "decode response", Err: err}
	}
	if err := validateResponse(resp); err != nil {
		return types.Response{}, err
	}
	return resp, nil
}

func requestPayloads(r types.Request) int {
	n := 0
	for _, set := range []bool{
		r.Echo != nil, r.Flush != nil, r.Info != nil, r.InitChain != nil,
		r.Query != nil, r.BeginBlock != nil, r.CheckTx != nil,
		r.DeliverTx != nil, r.EndBlock != nil, r.Commit != nil,
		r.ListSnapshots != nil, r.OfferSnapshot != nil,
		r.LoadSnapshotChunk != nil, r.ApplySnapshotChunk != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

func responsePayloads(r types.Response) int {
	n := 0
	for _, set := range []bool{
		r.Exception != nil, r.Echo != nil, r.Flush != nil, r.Info != nil,
		r.InitChain != nil, r.Query != nil, r.BeginBlock != nil,
		r.CheckTx != nil, r.DeliverTx != nil, r.EndBlock != nil,
		r.Commit != nil, r.ListSnapshots != nil, r.OfferSnapshot != nil,
		r.LoadSnapshotChunk != nil, r.ApplySnapshotChunk != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

func validateRequest(r types.Request) error {
	switch n := requestPayloads(r); {
	case n == 0:
		return &MissingPayloadError{}
	case n > 1:
		return &MalformedError{Reason: "more than one payload set"}
	}
	switch {
	case r.OfferSnapshot != nil:
		if r.OfferSnapshot.Snapshot == nil {
			return &MissingNestedFieldError{Kind: "OfferSnapshot", Field: "snapshot"}
		}
	case r.CheckTx != nil:
		if !r.CheckTx.Type.Valid() {
			return &UnknownEnumValueError{Field: "CheckTx.type", Value: int32(r.CheckTx.Type)}
		}
	}
	return nil
}

func validateResponse(r types.Response) error {
	switch n := responsePayloads(r); {
	case n == 0:
		return &MissingPayloadError{}
	case n > 1:
		return &MalformedError{Reason: "more than one payload set"}
	}
	switch {
	case r.OfferSnapshot != nil:
		if !r.OfferSnapshot.Result.Valid() {
			return &UnknownEnumValueError{
				Field: "OfferSnapshot.result",
				Value: int32(r.OfferSnapshot.Result),
			}
		}
	case r.ApplySnapshotChunk != nil:
		if !r.ApplySnapshotChunk.Result.Valid() {
			return &UnknownEnumValueError{
				Field: "ApplySnapshotChunk.result",
				Value: int32(r.ApplySnapshotChunk.Result),
			}
		}
	}
	return nil
}
