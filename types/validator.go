package types

// KeyType identifies a cryptographic key algorithm.
type KeyType uint8

const (
	KeyTypeEd25519   KeyType = 1
	KeyTypeSecp256k1 KeyType = 2
)

// PublicKey represents a validator's cryptographic identity.
type PublicKey struct {
	Type KeyType `cramberry:"1"`
	Data []byte  `cramberry:"2"`
}

// ValidatorUpdate represents a change to the validator set.
// Power = 0 means removal of the validator.
type ValidatorUpdate struct {
	PubKey PublicKey `cramberry:"1"`
	Power  int64     `cramberry:"2"`
}

// Validator identifies a validator by address (the 20-byte digest
// of its public key) and voting power. Used in commit info and
// evidence, where the full key is not needed.
type Validator struct {
	Address []byte `cramberry:"1"`
	Power   int64  `cramberry:"2"`
}

// VoteInfo reports whether a validator signed the last block.
type VoteInfo struct {
	Validator       Validator `cramberry:"1"`
	SignedLastBlock bool      `cramberry:"2"`
}

// LastCommitInfo describes the commit that finalized the previous
// block: the round it was decided in and the votes of the current
// validator set.
type LastCommitInfo struct {
	Round uint32     `cramberry:"1"`
	Votes []VoteInfo `cramberry:"2"`
}

// EvidenceType identifies the kind of Byzantine behavior.
type EvidenceType uint8

const (
	EvidenceTypeDuplicateVote EvidenceType = 1
	EvidenceTypeLightClient   EvidenceType = 2
)

// Evidence represents proof of Byzantine behavior by a validator.
type Evidence struct {
	Type             EvidenceType `cramberry:"1"`
	Validator        Validator    `cramberry:"2"`
	Height           uint64       `cramberry:"3"`
	Time             Timestamp    `cramberry:"4"`
	TotalVotingPower int64        `cramberry:"5"`
}
