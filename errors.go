package bin

import (
	"fmt"
)

// DisposeError is returned when an item's cleanup action fails.
type DisposeError struct {
	Key   string
	Kind  Kind
	Cause error
}

func (e *DisposeError) Error() string {
	keyStr := ""
	if e.Key != "" {
		keyStr = fmt.Sprintf(" (key=%s)", e.Key)
	}
	return fmt.Sprintf("failed to dispose %s%s: %v", e.Kind, keyStr, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *DisposeError) Unwrap() error {
	return e.Cause
}

// PanicError is produced when a cleanup action panics.
// Cause carries the stack trace of the recovery point; print it with %+v.
type PanicError struct {
	Value interface{}
	Cause error
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("cleanup panicked: %v", e.Value)
}

// Unwrap returns the underlying cause error.
func (e *PanicError) Unwrap() error {
	return e.Cause
}

// Format implements fmt.Formatter so that %+v includes the stack trace.
func (e *PanicError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') && e.Cause != nil {
		fmt.Fprintf(s, "%+v", e.Cause)
		return
	}
	fmt.Fprint(s, e.Error())
}

// InvalidOptionError is returned when an Option receives an unusable value.
type InvalidOptionError struct {
	Option string
	Reason string
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("invalid option %s: %s", e.Option, e.Reason)
}
