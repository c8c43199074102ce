package types

// Header carries the consensus-decided block metadata delivered with
// BeginBlock. The protocol layer treats every field as an opaque leaf;
// only the application assigns meaning to them.
type Header struct {
	ChainID         string    `cramberry:"1"`
	Height          uint64    `cramberry:"2"`
	Time            Timestamp `cramberry:"3"`
	LastBlockHash   []byte    `cramberry:"4"`
	DataHash        []byte    `cramberry:"5"`
	ValidatorsHash  []byte    `cramberry:"6"`
	AppHash         []byte    `cramberry:"7"`
	ProposerAddress []byte    `cramberry:"8"`
}

// ConsensusParams contains consensus-critical parameters the
// application can request to change via EndBlock.
type ConsensusParams struct {
	MaxBlockBytes  uint64   `cramberry:"1"`
	MaxEvidenceAge Duration `cramberry:"2"`
	MaxTxBytes     uint64   `cramberry:"3"`
}
