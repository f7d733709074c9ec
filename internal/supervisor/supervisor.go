package supervisor

import (
	"context"
	"sync"

	"codeberg.org/nording/hrvctl/internal/errors"
	"codeberg.org/nording/hrvctl/internal/hrv"
	"codeberg.org/nording/hrvctl/internal/logger"
	"codeberg.org/nording/hrvctl/internal/model"
	"codeberg.org/nording/hrvctl/internal/publisher"
	"codeberg.org/nording/hrvctl/internal/recorder"
	"codeberg.org/nording/hrvctl/internal/sensor"
	"codeberg.org/nording/hrvctl/internal/session"
	"codeberg.org/nording/hrvctl/internal/ui"
)

// Components holds everything the supervisor runs. Publisher,
// Snapshotter and the UI server are optional; nil entries are skipped.
type Components struct {
	Model       *model.Model
	Sensor      *sensor.Client
	Processor   *hrv.Processor
	Pacer       *hrv.Pacer
	Recorder    *recorder.Recorder
	Publisher   *publisher.Publisher
	Snapshotter *session.Snapshotter
	UIServer    *ui.Server
}

// Supervisor owns the lifecycle of every long-running component and is
// the single control surface the presentation layer talks to.
type Supervisor struct {
	comp    Components
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

func New(comp Components) *Supervisor {
	return &Supervisor{comp: comp}
}

// AttachUI wires the websocket server in after construction. The hub
// needs the supervisor as its control surface, so the server cannot
// exist before the supervisor does.
func (s *Supervisor) AttachUI(server *ui.Server) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comp.UIServer = server
}

// Start launches every configured component. The passed context bounds
// the whole run; canceling it is equivalent to calling Stop without the
// cooperative sensor disconnect.
func (s *Supervisor) Start(ctx context.Context) error {
	errFactory := errors.New()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return errFactory.New(ErrAlreadyStarted)
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.started = true

	s.spawn(func() { s.comp.Sensor.Run(runCtx) })
	s.spawn(func() { s.comp.Pacer.Run(runCtx) })

	if s.comp.Publisher != nil {
		s.spawn(func() { s.comp.Publisher.Run(runCtx) })
	}
	if s.comp.Snapshotter != nil {
		s.spawn(func() { s.comp.Snapshotter.Run(runCtx) })
	}
	if s.comp.UIServer != nil {
		s.spawn(func() {
			if err := s.comp.UIServer.Run(runCtx); err != nil {
				logger.Error().Err(err).Msg("websocket server stopped")
			}
		})
	}

	logger.Info().Msg("supervisor started")

	return nil
}

// Stop shuts the system down in order: first ask the sensor loop to
// disconnect while it is still running, then cancel every component and
// join, then close the recorder so no update can arrive after its file
// is flushed.
func (s *Supervisor) Stop(ctx context.Context) error {
	errFactory := errors.New()

	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return errFactory.New(ErrNotStarted)
	}
	s.started = false
	cancel := s.cancel
	s.mu.Unlock()

	if err := s.comp.Sensor.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("sensor disconnect during shutdown failed")
	}

	cancel()
	s.wg.Wait()

	if err := s.comp.Recorder.Stop(); err != nil {
		return errFactory.Wrap(ErrShutdownFailed, err)
	}

	logger.Info().Msg("supervisor stopped")

	return nil
}

func (s *Supervisor) spawn(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn()
	}()
}

// Controls implementation. Every user-facing action funnels through
// here so the presentation layer never touches components directly.

func (s *Supervisor) SetPacerRate(rate float64) float64 {
	return s.comp.Model.SetPacerRate(rate)
}

func (s *Supervisor) SetHRVTarget(target int) int {
	return s.comp.Processor.SetTarget(target)
}

func (s *Supervisor) Scan() error {
	return s.comp.Sensor.Scan()
}

func (s *Supervisor) Connect(address string) error {
	return s.comp.Sensor.Connect(address)
}

func (s *Supervisor) Disconnect() error {
	return s.comp.Sensor.Disconnect()
}

func (s *Supervisor) StartRecording(path string, overwrite bool) error {
	return s.comp.Recorder.Start(path, overwrite)
}

func (s *Supervisor) StopRecording() error {
	return s.comp.Recorder.Stop()
}

func (s *Supervisor) Annotate(text string) {
	s.comp.Model.Annotate(text)
}
