package solver

import (
	"fmt"

	"github.com/matzehuels/swmmcosim/pkg/errors"
)

// Sentinel codes the solver returns in place of a value or status. Native
// bindings that report failures in-band translate them with [CheckValue].
const (
	CodePath       = -300 // model or input file cannot be opened
	CodeAttribute  = -299 // attribute not compatible with the entity
	CodeType       = -298 // entity type not compatible with the request
	CodeNotFound   = -297 // entity does not exist
	CodeIncoherent = -296 // incoherent parameter
	CodeIsNumeric  = -295 // attribute is not numeric
	CodeNotRunning = -294 // operation requires a started run
	CodeNotOver    = -293 // operation requires an ended run
)

// CodeError is a non-zero status returned by a solver lifecycle call.
type CodeError struct {
	Op   string // lifecycle operation: open, start, step, end, report, close
	Code int    // solver status code
}

// Error implements the error interface.
func (e *CodeError) Error() string {
	return fmt.Sprintf("solver %s failed with code %d", e.Op, e.Code)
}

// Lifecycle converts a solver status code into an error. A zero status is
// success; anything else becomes a SESSION_LIFECYCLE error wrapping a
// [CodeError].
func Lifecycle(op string, code int) error {
	if code == 0 {
		return nil
	}
	return errors.Wrap(errors.ErrCodeSessionLifecycle, &CodeError{Op: op, Code: code}, "%s", op)
}

// CheckValue maps an in-band sentinel returned by a value read to the
// matching categorised error. Ordinary values pass through unchanged.
func CheckValue(id string, attr Attribute, v float64) (float64, error) {
	switch v {
	case CodeNotFound:
		return 0, errors.New(errors.ErrCodeNotFound, "object %q not found", id)
	case CodeType:
		return 0, errors.New(errors.ErrCodeTypeMismatch, "object %q does not support %s", id, attr)
	case CodeAttribute:
		return 0, errors.New(errors.ErrCodeAttributeMismatch, "attribute %s not compatible with object %q", attr, id)
	case CodeIncoherent:
		return 0, errors.New(errors.ErrCodeInvalidParameter, "incoherent parameter reading %s of %q", attr, id)
	case CodeIsNumeric:
		return 0, errors.New(errors.ErrCodeInvalidParameter, "attribute %s of %q is not numeric", attr, id)
	case CodeNotRunning:
		return 0, Lifecycle("get", CodeNotRunning)
	case CodePath:
		return 0, errors.New(errors.ErrCodeInvalidParameter, "incorrect file path")
	}
	return v, nil
}
