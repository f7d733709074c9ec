package publisher

import "context"

// Transport is the external publish capability: fire one scalar at one
// channel. Reconnection after an outage is the transport's own business;
// the publisher simply tries again with the next update.
type Transport interface {
	Publish(ctx context.Context, channel string, value any) error
	Close() error
}
