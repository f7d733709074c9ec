package sensor

import "codeberg.org/nording/hrvctl/internal/errors"

const (
	// Validation errors
	ErrInvalidAddress = errors.ErrorCode("sensor_invalid_address")

	// Transport errors
	ErrScanFailed    = errors.ErrorCode("sensor_scan_failed")
	ErrConnectFailed = errors.ErrorCode("sensor_connect_failed")
	ErrStreamLost    = errors.ErrorCode("sensor_stream_lost")

	// Lifecycle errors
	ErrNotRunning     = errors.ErrorCode("sensor_loop_not_running")
	ErrShutdownFailed = errors.ErrorCode("sensor_shutdown_failed")
)
