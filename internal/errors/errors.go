package errors

import (
	"errors"
	"fmt"
)

// Re-exported standard library checks so callers need a single import.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)

type codedError struct {
	code    ErrorCode
	message string
	err     error
	data    any
}

func (e *codedError) Error() string {
	msg := e.message
	if msg == "" {
		msg = Message(e.code)
	}

	switch {
	case e.data != nil:
		return fmt.Sprintf("%s: %v", msg, e.data)
	case e.err != nil:
		return fmt.Sprintf("%s: %v", msg, e.err)
	default:
		return msg
	}
}

func (e *codedError) Code() ErrorCode {
	return e.code
}

func (e *codedError) WithMessage(msg string) Error {
	clone := *e
	clone.message = msg

	return &clone
}

func (e *codedError) WithData(data any) Error {
	clone := *e
	clone.data = data

	return &clone
}

func (e *codedError) Data() any {
	return e.data
}

func (e *codedError) Unwrap() error {
	return e.err
}

type defaultFactory struct{}

func (*defaultFactory) New(code ErrorCode) Error {
	return &codedError{code: code}
}

func (*defaultFactory) Wrap(code ErrorCode, err error) Error {
	return &codedError{code: code, err: err}
}

func (*defaultFactory) WithMessage(code ErrorCode, msg string) Error {
	return &codedError{code: code, message: msg}
}

func (*defaultFactory) WithData(code ErrorCode, data any) Error {
	return &codedError{code: code, data: data}
}

// New creates a Factory instance for error creation.
func New() Factory {
	return &defaultFactory{}
}

// IsCode reports whether err carries the given error code.
func IsCode(err error, code ErrorCode) bool {
	var coded Error
	if errors.As(err, &coded) {
		return coded.Code() == code
	}

	return false
}
