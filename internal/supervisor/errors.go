package supervisor

import "codeberg.org/nording/hrvctl/internal/errors"

const (
	ErrAlreadyStarted errors.ErrorCode = "supervisor_already_started"
	ErrNotStarted     errors.ErrorCode = "supervisor_not_started"
	ErrShutdownFailed errors.ErrorCode = "supervisor_shutdown_failed"
)
