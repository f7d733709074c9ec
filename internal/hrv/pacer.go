package hrv

import (
	"context"
	"math"
	"time"

	"codeberg.org/nording/hrvctl/internal/model"
)

// Pacer is the breathing guide oscillator. It is driven by wall-clock
// time and the current pacer rate only; sample arrival never advances
// it. Output goes to the bus for the presentation adapter and is not
// retained anywhere.
type Pacer struct {
	model    *model.Model
	interval time.Duration
}

func NewPacer(m *model.Model, interval time.Duration) *Pacer {
	return &Pacer{
		model:    m,
		interval: interval,
	}
}

// Run advances the oscillator until ctx is cancelled. Phase accumulates
// across rate changes, so adjusting the rate mid-breath never makes the
// guide jump.
func (p *Pacer) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var (
		phase   float64
		elapsed float64
		last    = time.Now()
	)

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			elapsed += dt

			rate := p.model.PacerRate() // breaths per minute
			phase += 2 * math.Pi * rate / 60.0 * dt

			// 0 at full exhale, 1 at full inhale.
			amplitude := 0.5 * (1 - math.Cos(phase))
			p.model.EmitPacer(elapsed, amplitude)
		}
	}
}
