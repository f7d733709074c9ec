package hrv

import (
	"math"

	"codeberg.org/nording/hrvctl/internal/model"
)

// Processor is the derivation stage. It has no goroutine of its own: it
// runs inline with whichever context produced the triggering event, the
// sensor loop for samples or the UI for target changes.
type Processor struct {
	model  *model.Model
	window float64 // trailing seconds of IBIs feeding the estimate
}

func NewProcessor(m *model.Model, window float64) *Processor {
	return &Processor{
		model:  m,
		window: window,
	}
}

// PushIBI commits one inter-beat interval and updates the derived
// signals: the rolling HRV estimate and the biofeedback flag.
func (p *Processor) PushIBI(offset, ms float64) {
	p.model.AppendIBI(offset, ms)

	recent := p.model.RecentIBIs(p.window)
	if len(recent) < 2 {
		return
	}

	estimate := rmssd(recent)
	p.model.AppendMeanHRV(offset, estimate)
	p.model.SetBiofeedback(estimate >= float64(p.model.HRVTarget()))
}

// SetTarget commits a (clamped) target change and recomputes the
// biofeedback flag against the latest estimate.
func (p *Processor) SetTarget(target int) int {
	committed := p.model.SetHRVTarget(target)
	if latest, ok := p.model.LatestMeanHRV(); ok {
		p.model.SetBiofeedback(latest.Y >= float64(committed))
	}

	return committed
}

// rmssd is the root mean square of successive differences, the standard
// short-window variability statistic. Inputs stay float throughout;
// rounding is a sink concern.
func rmssd(pts []model.Point) float64 {
	var sum float64
	for i := 1; i < len(pts); i++ {
		d := pts[i].Y - pts[i-1].Y
		sum += d * d
	}

	return math.Sqrt(sum / float64(len(pts)-1))
}
