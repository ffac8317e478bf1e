package builder

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument reports malformed builder input such as an empty
	// component alias or a non-map context.
	ErrInvalidArgument = errors.New("builder: invalid argument")
	// ErrInvalidCall reports a method the wrapped definition cannot serve.
	ErrInvalidCall = errors.New("builder: invalid call")
	// ErrAmbiguousHydration reports a context key matching both a literal and
	// a camel-cased setter. It wraps ErrInvalidCall.
	ErrAmbiguousHydration = fmt.Errorf("%w: ambiguous hydration", ErrInvalidCall)
)

// Reasons attached to CallError.
const (
	ReasonUnsupported = "method not supported by definition"
	ReasonNotFluent   = "must support fluent chaining"
	ReasonAmbiguous   = "matches both literal and normalised setters"
	ReasonFailed      = "definition method failed"
)

// CallError describes a failed call against a wrapped definition.
type CallError struct {
	Field     string
	Component string
	Method    string
	Reason    string
	Err       error
}

func (e *CallError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("builder: field %q (%s) method %q: %s", e.Field, e.Component, e.Method, e.Reason)
	if e.Err != nil && !errors.Is(e.Err, ErrInvalidCall) {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the sentinel (ErrInvalidCall or ErrAmbiguousHydration) or
// the error returned by the definition.
func (e *CallError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// Catch runs fn and converts the panics raised by fluent mutators (a
// *CallError or an error wrapping ErrInvalidArgument/ErrInvalidCall) into an
// error. Other panics are re-raised.
func Catch(fn func()) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			if asErr, ok := recovered.(error); ok && isBuilderError(asErr) {
				err = asErr
				return
			}
			panic(recovered)
		}
	}()
	fn()
	return nil
}

func isBuilderError(err error) bool {
	var callErr *CallError
	return errors.As(err, &callErr) || errors.Is(err, ErrInvalidArgument) || errors.Is(err, ErrInvalidCall)
}
