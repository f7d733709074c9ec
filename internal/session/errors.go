package session

import "codeberg.org/nording/hrvctl/internal/errors"

const (
	// Configuration errors
	ErrInvalidConfig = errors.ErrorCode("session_invalid_config")
	ErrInvalidDBPath = errors.ErrorCode("session_invalid_db_path")

	// Collection errors
	ErrInvalidSnapshot = errors.ErrorCode("session_invalid_snapshot")
	ErrRecordFailed    = errors.ErrorCode("session_record_failed")

	// Storage errors
	ErrStorageInit   = errors.ErrorCode("session_storage_init_failed")
	ErrStorageAccess = errors.ErrorCode("session_storage_access_failed")
	ErrStorageClose  = errors.ErrorCode("session_storage_close_failed")

	// Operation errors
	ErrOperationTimeout = errors.ErrorCode("session_operation_timeout")
	ErrServiceShutdown  = errors.ErrorCode("session_service_shutdown_failed")
)
