package model

import (
	"math"
	"sync"
	"time"
)

// Bounds for the user-settable scalars. Out-of-range input is a normal UI
// event: it is clamped on write, never rejected and never re-clamped on
// read.
const (
	MinHRVTarget     = 50
	MaxHRVTarget     = 600
	DefaultHRVTarget = 250

	MinBreathingRate     = 4.0
	MaxBreathingRate     = 7.0
	DefaultBreathingRate = 6.0
	breathingRateStep    = 0.5
)

// Model is the process-wide telemetry state. It is constructed once,
// shared by reference, and mutated under a single lock; every field has
// exactly one logical writer. Readers always receive copies.
type Model struct {
	bus *Bus

	mu          sync.RWMutex
	ibis        timeSeries
	meanHRV     timeSeries
	addresses   []string
	pacerRate   float64
	hrvTarget   int
	biofeedback bool
	connection  ConnectionState
}

// New creates an empty model. ibiHistory and hrvHistory bound the two
// buffers in seconds of retained samples.
func New(ibiHistory, hrvHistory float64) *Model {
	return &Model{
		bus:       NewBus(),
		ibis:      newTimeSeries(ibiHistory),
		meanHRV:   newTimeSeries(hrvHistory),
		pacerRate: DefaultBreathingRate,
		hrvTarget: DefaultHRVTarget,
	}
}

func (m *Model) Bus() *Bus {
	return m.bus
}

// AppendIBI commits one inter-beat interval. offset is seconds since the
// first sample of the current connection; ms is the interval in
// milliseconds, kept as float so derivation never works on silently
// rounded input. Writer: the sample source.
func (m *Model) AppendIBI(offset, ms float64) {
	m.mu.Lock()
	ok := m.ibis.append(offset, ms)
	pts := m.ibis.points()
	m.mu.Unlock()

	if ok {
		m.bus.Publish(Update{Field: FieldIBIs, Value: Series(pts)})
	}
}

// AppendMeanHRV commits one smoothed HRV estimate. Writer: the
// derivation stage.
func (m *Model) AppendMeanHRV(offset, hrv float64) {
	m.mu.Lock()
	ok := m.meanHRV.append(offset, hrv)
	pts := m.meanHRV.points()
	m.mu.Unlock()

	if ok {
		m.bus.Publish(Update{Field: FieldMeanHRV, Value: Series(pts)})
	}
}

// SetAddresses replaces the discovered sensor set wholesale. Writer: the
// scanner.
func (m *Model) SetAddresses(addrs []string) {
	cp := make([]string, len(addrs))
	copy(cp, addrs)

	m.mu.Lock()
	m.addresses = cp
	m.mu.Unlock()

	m.bus.Publish(Update{Field: FieldAddresses, Value: Strings(cp)})
}

// SetPacerRate clamps into the breathing-rate domain, snaps to the
// half-breath step, and returns the committed value. Writer: the UI.
func (m *Model) SetPacerRate(rate float64) float64 {
	rate = math.Round(rate/breathingRateStep) * breathingRateStep
	rate = math.Min(math.Max(rate, MinBreathingRate), MaxBreathingRate)

	m.mu.Lock()
	m.pacerRate = rate
	m.mu.Unlock()

	m.bus.Publish(Update{Field: FieldPacerRate, Value: Float(rate)})

	return rate
}

// SetHRVTarget clamps into the target domain and returns the committed
// value. Writer: the UI.
func (m *Model) SetHRVTarget(target int) int {
	if target < MinHRVTarget {
		target = MinHRVTarget
	}
	if target > MaxHRVTarget {
		target = MaxHRVTarget
	}

	m.mu.Lock()
	m.hrvTarget = target
	m.mu.Unlock()

	m.bus.Publish(Update{Field: FieldHRVTarget, Value: Int(int64(target))})

	return target
}

// SetBiofeedback commits the target-reached flag. Writer: the derivation
// stage.
func (m *Model) SetBiofeedback(active bool) {
	m.mu.Lock()
	changed := m.biofeedback != active
	m.biofeedback = active
	m.mu.Unlock()

	if changed {
		m.bus.Publish(Update{Field: FieldBiofeedback, Value: Bool(active)})
	}
}

// SetConnectionState commits the sample source lifecycle state. Writer:
// the sample source.
func (m *Model) SetConnectionState(state ConnectionState) {
	m.mu.Lock()
	changed := m.connection != state
	m.connection = state
	m.mu.Unlock()

	if changed {
		m.bus.Publish(Update{Field: FieldConnection, Value: String(state.String())})
	}
}

// Annotate emits a session marker. Bus-only; nothing is stored.
func (m *Model) Annotate(text string) {
	m.bus.Publish(Update{Field: FieldAnnotation, Value: String(text)})
}

// EmitPacer emits the current pacer disk coordinate. Bus-only; the pacer
// waveform is consumed by the presentation adapter and never retained.
func (m *Model) EmitPacer(x, y float64) {
	m.bus.Publish(Update{Field: FieldPacer, Value: Series([]Point{{X: x, Y: y}})})
}

// EmitStatus emits a human-readable status line for the presentation
// adapter's status bar.
func (m *Model) EmitStatus(msg string) {
	m.bus.Publish(Update{Field: FieldStatus, Value: String(msg)})
}

func (m *Model) IBIs() []Point {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.ibis.points()
}

// RecentIBIs returns the IBI entries within the trailing span seconds.
func (m *Model) RecentIBIs(span float64) []Point {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.ibis.within(span)
}

func (m *Model) MeanHRV() []Point {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.meanHRV.points()
}

func (m *Model) LatestIBI() (Point, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.ibis.latest()
}

func (m *Model) LatestMeanHRV() (Point, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.meanHRV.latest()
}

func (m *Model) Addresses() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cp := make([]string, len(m.addresses))
	copy(cp, m.addresses)

	return cp
}

func (m *Model) PacerRate() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.pacerRate
}

func (m *Model) HRVTarget() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.hrvTarget
}

func (m *Model) Biofeedback() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.biofeedback
}

func (m *Model) ConnectionState() ConnectionState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.connection
}

// Snapshot is a consistent copy of the scalar fields plus the latest
// buffer entries, taken under one lock acquisition.
type Snapshot struct {
	Time        time.Time
	LatestIBI   float64
	LatestHRV   float64
	HRVTarget   int
	PacerRate   float64
	Biofeedback bool
	Connection  ConnectionState
}

func (m *Model) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := Snapshot{
		Time:        time.Now(),
		HRVTarget:   m.hrvTarget,
		PacerRate:   m.pacerRate,
		Biofeedback: m.biofeedback,
		Connection:  m.connection,
	}
	if p, ok := m.ibis.latest(); ok {
		snap.LatestIBI = p.Y
	}
	if p, ok := m.meanHRV.latest(); ok {
		snap.LatestHRV = p.Y
	}

	return snap
}
