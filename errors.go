package abci

import (
	"errors"
	"fmt"
)

// ExceptionError surfaces a Response_Exception: a nondeterministic
// application fault with no category. The protocol layer reports it
// verbatim; whether it is fatal to node operation is a policy
// decision of the consensus driver.
type ExceptionError struct {
	Reason string
}

func (e *ExceptionError) Error() string {
	return fmt.Sprintf("abci exception: %s", e.Reason)
}

// NewExceptionError creates a new ExceptionError.
func NewExceptionError(reason string) *ExceptionError {
	return &ExceptionError{Reason: reason}
}

// IsException checks whether an error is an ExceptionError and
// returns it.
func IsException(err error) (*ExceptionError, bool) {
	var e *ExceptionError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
