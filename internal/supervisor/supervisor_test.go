package supervisor_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hrverrors "codeberg.org/nording/hrvctl/internal/errors"
	"codeberg.org/nording/hrvctl/internal/hrv"
	"codeberg.org/nording/hrvctl/internal/model"
	"codeberg.org/nording/hrvctl/internal/recorder"
	"codeberg.org/nording/hrvctl/internal/sensor"
	"codeberg.org/nording/hrvctl/internal/supervisor"
)

type stubStream struct {
	ch chan int
}

func (s *stubStream) Samples() <-chan int { return s.ch }
func (s *stubStream) Err() error          { return nil }
func (s *stubStream) Close() error        { return nil }

type stubTransport struct{}

func (stubTransport) Scan(_ context.Context, _ time.Duration) ([]sensor.Device, error) {
	return []sensor.Device{{Name: "Polar H10", Address: "A0:13:5E:2B:53:C2"}}, nil
}

func (stubTransport) Connect(_ context.Context, _ string) (sensor.Stream, error) {
	return &stubStream{ch: make(chan int)}, nil
}

func newSupervisor(t *testing.T) (*supervisor.Supervisor, *model.Model) {
	t.Helper()

	m := model.New(60, 150)
	processor := hrv.NewProcessor(m, 30)
	comp := supervisor.Components{
		Model:     m,
		Sensor:    sensor.New(stubTransport{}, m, processor.PushIBI, time.Second),
		Processor: processor,
		Pacer:     hrv.NewPacer(m, 10*time.Millisecond),
		Recorder:  recorder.New(m, t.TempDir(), false),
	}

	return supervisor.New(comp), m
}

func TestStartStop(t *testing.T) {
	sup, m := newSupervisor(t)
	ctx := context.Background()

	require.NoError(t, sup.Start(ctx))

	// The pacer is alive once started.
	sub := m.Bus().Subscribe(8, model.FieldPacer)
	defer sub.Close()
	select {
	case <-sub.C:
	case <-time.After(time.Second):
		t.Fatal("no pacer output after start")
	}

	stopCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	require.NoError(t, sup.Stop(stopCtx))
}

func TestStartTwice(t *testing.T) {
	sup, _ := newSupervisor(t)
	ctx := context.Background()

	require.NoError(t, sup.Start(ctx))
	err := sup.Start(ctx)
	require.Error(t, err)
	assert.True(t, hrverrors.IsCode(err, supervisor.ErrAlreadyStarted))

	stopCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	require.NoError(t, sup.Stop(stopCtx))
}

func TestStopWithoutStart(t *testing.T) {
	sup, _ := newSupervisor(t)

	err := sup.Stop(context.Background())
	require.Error(t, err)
	assert.True(t, hrverrors.IsCode(err, supervisor.ErrNotStarted))
}

func TestStopDisconnectsOpenStream(t *testing.T) {
	sup, m := newSupervisor(t)
	ctx := context.Background()

	require.NoError(t, sup.Start(ctx))
	require.NoError(t, sup.Connect("A0:13:5E:2B:53:C2"))
	require.Eventually(t, func() bool {
		return m.ConnectionState() == model.Connected
	}, time.Second, 5*time.Millisecond)

	stopCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	require.NoError(t, sup.Stop(stopCtx))

	assert.Equal(t, model.Disconnected, m.ConnectionState())
}

func TestControlSurface(t *testing.T) {
	sup, m := newSupervisor(t)
	ctx := context.Background()

	require.NoError(t, sup.Start(ctx))
	defer func() {
		stopCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		sup.Stop(stopCtx)
	}()

	assert.InDelta(t, 5.5, sup.SetPacerRate(5.3), 1e-9)
	assert.Equal(t, model.MaxHRVTarget, sup.SetHRVTarget(900))

	require.NoError(t, sup.Scan())
	assert.Eventually(t, func() bool {
		return len(m.Addresses()) == 1
	}, time.Second, 5*time.Millisecond)

	err := sup.Connect("bogus")
	assert.Error(t, err)

	require.NoError(t, sup.StartRecording("session.csv", false))
	sup.Annotate("marker")
	require.NoError(t, sup.StopRecording())
}
