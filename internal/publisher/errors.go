package publisher

import "codeberg.org/nording/hrvctl/internal/errors"

const (
	ErrTransportInit  = errors.ErrorCode("publisher_transport_init_failed")
	ErrPublishFailed  = errors.ErrorCode("publisher_publish_failed")
	ErrTransportClose = errors.ErrorCode("publisher_transport_close_failed")
)
