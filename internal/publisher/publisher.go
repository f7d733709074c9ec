package publisher

import (
	"context"

	"codeberg.org/nording/hrvctl/internal/logger"
	"codeberg.org/nording/hrvctl/internal/model"
)

// Publisher pushes every model update to the external channel,
// best-effort. A failed publish is logged and dropped, with no retry
// queue and no backpressure on the producer; the next update is
// attempted regardless, so delivery resumes by itself once the
// transport recovers.
type Publisher struct {
	model     *model.Model
	transport Transport
	prefix    string
}

func New(m *model.Model, transport Transport, prefix string) *Publisher {
	return &Publisher{
		model:     m,
		transport: transport,
		prefix:    prefix,
	}
}

// Run drains updates until ctx is cancelled, then closes the transport.
func (p *Publisher) Run(ctx context.Context) {
	sub := p.model.Bus().Subscribe(0, model.PublisherFields()...)
	defer sub.Close()
	defer func() {
		if err := p.transport.Close(); err != nil {
			logger.Debug().Err(err).Msg("closing publish transport")
		}
	}()

	available := true
	for {
		select {
		case <-ctx.Done():
			return
		case u := <-sub.C:
			err := p.transport.Publish(ctx, p.channel(u.Field), u.Value.Scalar())
			if err != nil {
				// Transient by assumption: drop this update, keep going.
				if available {
					logger.Warn().Err(err).Str("channel", p.channel(u.Field)).
						Msg("publish channel unavailable, dropping updates")
					available = false
				}
				continue
			}
			if !available {
				logger.Info().Msg("publish channel recovered")
				available = true
			}
		}
	}
}

func (p *Publisher) channel(f model.Field) string {
	if p.prefix == "" {
		return string(f)
	}

	return p.prefix + ":" + string(f)
}
