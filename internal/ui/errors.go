package ui

import "codeberg.org/nording/hrvctl/internal/errors"

const (
	ErrServerFailed   errors.ErrorCode = "ui_server_failed"
	ErrServerShutdown errors.ErrorCode = "ui_server_shutdown"
)
