package types

import "fmt"

// Snapshot is an application-opaque descriptor of a state checkpoint
// offered for state-sync restoration.
//
// Only the app hash delivered alongside a snapshot in OfferSnapshot is
// trusted (it is verified by the light client). Every field here —
// height, format, chunk count, hash, metadata — is untrusted input
// that can be spoofed by adversarial peers and must be independently
// verified by the application.
type Snapshot struct {
	// Height the snapshot was taken at.
	Height uint64 `cramberry:"1"`
	// Application-defined serialization format.
	Format uint32 `cramberry:"2"`
	// Total number of chunks, numbered 0 to Chunks-1.
	Chunks uint32 `cramberry:"3"`
	// Hash of the full snapshot (for integrity verification).
	Hash []byte `cramberry:"4"`
	// Arbitrary application metadata (e.g., chunk hashes).
	Metadata []byte `cramberry:"5"`
}

// OfferSnapshotResult is the application's decision on an offered
// snapshot. The integer values are part of the wire contract and
// must never be renumbered.
type OfferSnapshotResult int32

const (
	// OfferSnapshotUnknown must not be emitted deliberately.
	OfferSnapshotUnknown OfferSnapshotResult = 0
	// OfferSnapshotAccept accepts the snapshot; chunk application begins.
	OfferSnapshotAccept OfferSnapshotResult = 1
	// OfferSnapshotAbort aborts state sync entirely.
	OfferSnapshotAbort OfferSnapshotResult = 2
	// OfferSnapshotReject rejects this snapshot; others may be offered.
	OfferSnapshotReject OfferSnapshotResult = 3
	// OfferSnapshotRejectFormat rejects this snapshot format.
	OfferSnapshotRejectFormat OfferSnapshotResult = 4
	// OfferSnapshotRejectSender rejects the senders of this snapshot.
	OfferSnapshotRejectSender OfferSnapshotResult = 5
)

// Valid reports whether r is within the defined range.
func (r OfferSnapshotResult) Valid() bool {
	return r >= OfferSnapshotUnknown && r <= OfferSnapshotRejectSender
}

func (r OfferSnapshotResult) String() string {
	switch r {
	case OfferSnapshotUnknown:
		return "Unknown"
	case OfferSnapshotAccept:
		return "Accept"
	case OfferSnapshotAbort:
		return "Abort"
	case OfferSnapshotReject:
		return "Reject"
	case OfferSnapshotRejectFormat:
		return "RejectFormat"
	case OfferSnapshotRejectSender:
		return "RejectSender"
	default:
		return fmt.Sprintf("OfferSnapshotResult(%d)", int32(r))
	}
}

// ApplySnapshotChunkResult is the application's verdict on a single
// applied chunk, driving the engine's retry/abort/restart behavior.
// The integer values are part of the wire contract and must never be
// renumbered.
type ApplySnapshotChunkResult int32

const (
	// ApplyChunkUnknown must not be emitted deliberately; receivers
	// treat it as ApplyChunkAbort.
	ApplyChunkUnknown ApplySnapshotChunkResult = 0
	// ApplyChunkAccept accepts the chunk; proceed to the next one.
	ApplyChunkAccept ApplySnapshotChunkResult = 1
	// ApplyChunkAbort terminates restoration; no further snapshots
	// are offered.
	ApplyChunkAbort ApplySnapshotChunkResult = 2
	// ApplyChunkRetry reapplies the same chunk, combined with any
	// refetch/ban lists in the response.
	ApplyChunkRetry ApplySnapshotChunkResult = 3
	// ApplyChunkRetrySnapshot restarts restoration of the same
	// snapshot from a fresh OfferSnapshot, reusing fetched chunks.
	ApplyChunkRetrySnapshot ApplySnapshotChunkResult = 4
	// ApplyChunkRejectSnapshot abandons this snapshot; the engine
	// falls back to offering a different one.
	ApplyChunkRejectSnapshot ApplySnapshotChunkResult = 5
)

// Valid reports whether r is within the defined range.
func (r ApplySnapshotChunkResult) Valid() bool {
	return r >= ApplyChunkUnknown && r <= ApplyChunkRejectSnapshot
}

func (r ApplySnapshotChunkResult) String() string {
	switch r {
	case ApplyChunkUnknown:
		return "Unknown"
	case ApplyChunkAccept:
		return "Accept"
	case ApplyChunkAbort:
		return "Abort"
	case ApplyChunkRetry:
		return "Retry"
	case ApplyChunkRetrySnapshot:
		return "RetrySnapshot"
	case ApplyChunkRejectSnapshot:
		return "RejectSnapshot"
	default:
		return fmt.Sprintf("ApplySnapshotChunkResult(%d)", int32(r))
	}
}
