package errors

// ErrorCode identifies a class of failure within a component.
type ErrorCode string

// Error is a coded error carrying optional context data.
type Error interface {
	error
	Code() ErrorCode
	WithMessage(msg string) Error
	WithData(data any) Error
	Data() any
	Unwrap() error
}

// Factory creates coded errors. Call sites construct one locally
// (`errFactory := errors.New()`) rather than sharing an instance.
type Factory interface {
	New(code ErrorCode) Error
	Wrap(code ErrorCode, err error) Error
	WithMessage(code ErrorCode, msg string) Error
	WithData(code ErrorCode, data any) Error
}
