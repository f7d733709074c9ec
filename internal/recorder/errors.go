package recorder

import "codeberg.org/nording/hrvctl/internal/errors"

const (
	// Validation errors
	ErrInvalidPath = errors.ErrorCode("recorder_invalid_path")
	ErrPathExists  = errors.ErrorCode("recorder_path_exists")

	// State errors
	ErrAlreadyRecording = errors.ErrorCode("recorder_already_recording")

	// Storage errors
	ErrOpenFailed  = errors.ErrorCode("recorder_open_failed")
	ErrWriteFailed = errors.ErrorCode("recorder_write_failed")
	ErrCloseFailed = errors.ErrorCode("recorder_close_failed")
)
