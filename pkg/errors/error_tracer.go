package errors

import "github.com/pkg/errors"

// ErrorTracer is an error carrying a message and an underlying cause with a
// captured stack trace.
type ErrorTracer struct {
	Message string
	Err     error
}

// StackTracer is implemented by errors that expose a stack trace.
type StackTracer interface {
	StackTrace() errors.StackTrace
}

// NewTracer creates an ErrorTracer with the provided message.
func NewTracer(message string) *ErrorTracer {
	return &ErrorTracer{Message: message}
}

// TracerFromError creates an ErrorTracer from an existing error, capturing a
// stack trace if the error does not already carry one.
func TracerFromError(err error) *ErrorTracer {
	return NewTracer(err.Error()).Wrap(err)
}

func (e *ErrorTracer) Error() string {
	return e.Message
}

func (e *ErrorTracer) Unwrap() error {
	return e.Err
}

// Wrap attaches err as the underlying cause, capturing a stack trace if err
// does not already carry one.
func (e *ErrorTracer) Wrap(err error) *ErrorTracer {
	e.Err = err
	if _, ok := err.(StackTracer); !ok {
		e.Err = errors.WithStack(err)
	}
	return e
}

// StackTrace returns the stack trace of the underlying error, if any.
func (e *ErrorTracer) StackTrace() errors.StackTrace {
	if st, ok := e.Unwrap().(StackTracer); ok {
		return st.StackTrace()
	}
	return nil
}
