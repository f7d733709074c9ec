package publisher

import (
	"context"

	"codeberg.org/nording/hrvctl/internal/errors"
	"github.com/go-redis/redis/v8"
)

// redisTransport publishes over Redis pub/sub. The client does not dial
// until the first command and re-establishes its connection on its own,
// so an outage surfaces here only as per-call errors the publisher
// swallows.
type redisTransport struct {
	client *redis.Client
}

func NewRedisTransport(addr, password string, db int) Transport {
	return &redisTransport{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

func (t *redisTransport) Publish(ctx context.Context, channel string, value any) error {
	errFactory := errors.New()

	if err := t.client.Publish(ctx, channel, value).Err(); err != nil {
		return errFactory.Wrap(ErrPublishFailed, err)
	}

	return nil
}

func (t *redisTransport) Close() error {
	errFactory := errors.New()

	if err := t.client.Close(); err != nil {
		return errFactory.Wrap(ErrTransportClose, err)
	}

	return nil
}
