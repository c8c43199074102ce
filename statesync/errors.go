package statesync

import (
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrAborted means the application told the syncer to stop. No
	// further snapshots may be offered after this is returned.
	ErrAborted = errors.New("state sync aborted by application")

	// ErrNoSnapshots means no advertised snapshot remained viable.
	ErrNoSnapshots = errors.New("no viable snapshots")
)

// VerificationError reports a restored state whose application hash
// does not match the trusted hash for the snapshot height. It is
// fatal: the restored state cannot be used.
type VerificationError struct {
	Height uint64
	Want   []byte
	Got    []byte
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf(
		"state sync verification failed at height %d: want app hash %s, got %s",
		e.Height, hex.EncodeToString(e.Want), hex.EncodeToString(e.Got),
	)
}
