package session

import (
	"context"
	"time"

	"codeberg.org/nording/hrvctl/internal/errors"
	"codeberg.org/nording/hrvctl/internal/logger"
	"codeberg.org/nording/hrvctl/internal/model"
)

type service struct {
	repo Repository
	cfg  Config
}

// No-op implementation used when snapshot persistence is disabled.
type noopCollector struct{}

func NewService(cfg Config) (Collector, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	if !cfg.Enabled {
		logger.Debug().Msg("session persistence disabled, using no-op collector")
		return &noopCollector{}, nil
	}

	repo, err := NewRepository(cfg)
	if err != nil {
		return nil, err // Already wrapped with appropriate error
	}

	logger.Debug().
		Str("db_path", cfg.DBPath).
		Dur("period", cfg.Period).
		Msg("session service initialized")

	return &service{
		repo: repo,
		cfg:  cfg,
	}, nil
}

func (s *service) Record(ctx context.Context, snapshot *model.Snapshot) error {
	errFactory := errors.New()

	if snapshot == nil {
		return errFactory.New(ErrInvalidSnapshot)
	}

	select {
	case <-ctx.Done():
		return errFactory.Wrap(ErrOperationTimeout, ctx.Err())
	default:
		if err := s.repo.Store(ctx, snapshot); err != nil {
			return errFactory.Wrap(ErrRecordFailed, err)
		}
	}

	return nil
}

func (s *service) Close() error {
	errFactory := errors.New()

	if err := s.repo.Close(); err != nil {
		return errFactory.Wrap(ErrServiceShutdown, err)
	}

	return nil
}

func (*noopCollector) Record(_ context.Context, _ *model.Snapshot) error {
	return nil
}

func (*noopCollector) Close() error {
	return nil
}

// Snapshotter samples the model on a fixed period and hands each
// snapshot to the collector. Recording failures are logged and skipped;
// the next tick tries again.
type Snapshotter struct {
	model     *model.Model
	collector Collector
	period    time.Duration
}

func NewSnapshotter(m *model.Model, c Collector, period time.Duration) *Snapshotter {
	return &Snapshotter{
		model:     m,
		collector: c,
		period:    period,
	}
}

func (s *Snapshotter) Run(ctx context.Context) {
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()
	defer func() {
		if err := s.collector.Close(); err != nil {
			logger.Debug().Err(err).Msg("closing session collector")
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap := s.model.Snapshot()
			if err := s.collector.Record(ctx, &snap); err != nil {
				logger.Debug().Err(err).Msg("session snapshot skipped")
			}
		}
	}
}
