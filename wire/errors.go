package wire

import "fmt"

// Decode failures are always recoverable: the codec returns a typed
// error value and never panics, whatever bytes a peer supplies.

// MissingPayloadError reports an envelope whose selector carries no
// payload: none of the variant fields is set.
type MissingPayloadError struct{}

func (e *MissingPayloadError) Error() string {
	return "abci wire: message envelope carries no payload"
}

// MissingNestedFieldError reports a required nested structure that is
// absent, e.g. the snapshot descriptor inside OfferSnapshot.
type MissingNestedFieldError struct {
	// Kind is the variant the field belongs to.
	Kind string
	// Field is the missing field's wire name.
	Field string
}

func (e *MissingNestedFieldError) Error() string {
	return fmt.Sprintf("abci wire: %s is missing required field %s", e.Kind, e.Field)
}

// UnknownEnumValueError reports an enumerated field holding an
// integer outside its defined range. Unknown future values fail
// decoding rather than silently truncating to a known value.
type UnknownEnumValueError struct {
	// Field is the enum field's wire name.
	Field string
	// Value is the out-of-range integer.
	Value int32
}

func (e *UnknownEnumValueError) Error() string {
	return fmt.Sprintf("abci wire: %s holds unknown enum value %d", e.Field, e.Value)
}

// MalformedError reports a byte sequence that does not decode to a
// well-formed envelope: a failed cramberry unmarshal, or an envelope
// with more than one payload set.
type MalformedError struct {
	Reason string
	Err    error
}

func (e *MalformedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("abci wire: malformed message: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("abci wire: malformed message: %s", e.Reason)
}

func (e *MalformedError) Unwrap() error { return e.Err }
