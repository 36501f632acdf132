// Package errors builds formatted errors that keep track of the errors they wrap.
package errors

import (
	stderrors "errors"
	"fmt"
)

type err struct {
	msg  string
	args []interface{}
}

func (err *err) Error() string {
	return fmt.Sprintf(err.msg, err.args...)
}

// Unwrap returns the first argument that is itself an error.
func (err *err) Unwrap() error {
	for _, arg := range err.args {
		if wrapped, ok := arg.(error); ok {
			return wrapped
		}
	}
	return nil
}

// New returns an error formatted as fmt.Sprintf(msg, args...). Every call returns a
// distinct value, so the result may be used as a sentinel.
func New(msg string, args ...interface{}) error {
	return &err{msg, args}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}
