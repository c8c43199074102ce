// Package types defines the ABCI message model: the closed set of
// request and response messages exchanged between a consensus engine
// and a deterministic application, their partition into dispatch
// categories, and the snapshot descriptors used for state sync.
//
// Messages are plain Go structs with cramberry struct tags for
// deterministic binary serialization. The wire package handles
// encoding and decoding; transport concerns (gRPC codec registration)
// are handled in the transport packages.
//
// The variant set is fixed by the ABCI specification and must not be
// extended. Enum-to-integer mappings are part of the wire contract
// and are never renumbered.
package types

// Tx is an opaque application transaction.
// The consensus engine never inspects its contents.
type Tx []byte

// ProofOp is a single operation in a Merkle proof.
type ProofOp struct {
	Type string `cramberry:"1"`
	Key  []byte `cramberry:"2"`
	Data []byte `cramberry:"3"`
}

// ProofOps is an ordered chain of proof operations. The data of each
// operation is the root for the previous one.
type ProofOps struct {
	Ops []ProofOp `cramberry:"1"`
}
