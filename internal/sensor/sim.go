package sensor

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"
)

// Simulated transport for running without a physical sensor. Timing is
// real: samples arrive one inter-beat interval apart, so downstream
// stages see the same cadence a live sensor produces.

const (
	simDiscoveryDelay = 1500 * time.Millisecond
	simBaseIBI        = 800.0 // ms, ~75 bpm
	simBreathSwing    = 60.0  // ms of respiratory sinus arrhythmia
	simJitter         = 25.0  // ms of beat-to-beat noise
	simBreathPeriod   = 10.0  // s
)

var simDevices = []Device{
	{Name: "HRV-SIM 53C2", Address: "A0:13:5E:2B:53:C2"},
	{Name: "HRV-SIM 9DE1", Address: "A0:13:5E:47:9D:E1"},
}

type SimTransport struct{}

func NewSimTransport() *SimTransport {
	return &SimTransport{}
}

func (t *SimTransport) Scan(ctx context.Context, timeout time.Duration) ([]Device, error) {
	delay := simDiscoveryDelay
	if timeout < delay {
		delay = timeout
	}

	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	devices := make([]Device, len(simDevices))
	copy(devices, simDevices)

	return devices, nil
}

func (t *SimTransport) Connect(ctx context.Context, address string) (Stream, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	streamCtx, cancel := context.WithCancel(context.Background())
	s := &simStream{
		ch:     make(chan int),
		cancel: cancel,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	go s.run(streamCtx)

	return s, nil
}

type simStream struct {
	ch     chan int
	cancel context.CancelFunc
	rng    *rand.Rand
	once   sync.Once
}

func (s *simStream) run(ctx context.Context) {
	defer close(s.ch)

	elapsed := 0.0
	for {
		phase := 2 * math.Pi * elapsed / simBreathPeriod
		ibi := simBaseIBI + simBreathSwing*math.Sin(phase) + s.rng.NormFloat64()*simJitter
		ms := int(math.Round(ibi))
		if ms < 300 {
			ms = 300
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(ms) * time.Millisecond):
		}

		select {
		case s.ch <- ms:
		case <-ctx.Done():
			return
		}

		elapsed += float64(ms) / 1000.0
	}
}

func (s *simStream) Samples() <-chan int {
	return s.ch
}

// Err is always nil: the simulated stream only ends on Close.
func (s *simStream) Err() error {
	return nil
}

func (s *simStream) Close() error {
	s.once.Do(s.cancel)
	return nil
}
