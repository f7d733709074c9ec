package hrv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/nording/hrvctl/internal/hrv"
	"codeberg.org/nording/hrvctl/internal/model"
)

func TestPushIBISingleSampleNoEstimate(t *testing.T) {
	m := model.New(60, 150)
	p := hrv.NewProcessor(m, 30)

	p.PushIBI(0, 800)

	_, ok := m.LatestMeanHRV()
	assert.False(t, ok)
}

func TestPushIBIComputesRMSSD(t *testing.T) {
	m := model.New(60, 150)
	p := hrv.NewProcessor(m, 30)

	p.PushIBI(0, 800)
	p.PushIBI(1, 850)
	p.PushIBI(2, 790)

	// Successive differences 50 and -60:
	// sqrt((50^2 + 60^2) / 2) = sqrt(3050)
	latest, ok := m.LatestMeanHRV()
	require.True(t, ok)
	assert.InDelta(t, 55.2268, latest.Y, 1e-3)
	assert.InDelta(t, 2.0, latest.X, 1e-9)
}

func TestPushIBIWindowBoundsEstimate(t *testing.T) {
	m := model.New(120, 150)
	p := hrv.NewProcessor(m, 30)

	// An early outlier that a trailing 30s window must not see.
	p.PushIBI(0, 2000)
	p.PushIBI(40, 800)
	p.PushIBI(41, 850)
	p.PushIBI(42, 790)

	latest, ok := m.LatestMeanHRV()
	require.True(t, ok)
	assert.InDelta(t, 55.2268, latest.Y, 1e-3)
}

func TestBiofeedbackTracksTarget(t *testing.T) {
	m := model.New(60, 150)
	p := hrv.NewProcessor(m, 30)

	p.PushIBI(0, 800)
	p.PushIBI(1, 850)
	p.PushIBI(2, 790)

	// Estimate ~55 against the default target of 250.
	assert.False(t, m.Biofeedback())

	// Lowering the target below the latest estimate flips the flag
	// without waiting for the next beat.
	committed := p.SetTarget(50)
	assert.Equal(t, 50, committed)
	assert.True(t, m.Biofeedback())

	committed = p.SetTarget(400)
	assert.Equal(t, 400, committed)
	assert.False(t, m.Biofeedback())
}

func TestSetTargetClampsBeforeComparing(t *testing.T) {
	m := model.New(60, 150)
	p := hrv.NewProcessor(m, 30)

	p.PushIBI(0, 800)
	p.PushIBI(1, 850)
	p.PushIBI(2, 790)

	// 10 clamps to the minimum of 50, which is below the ~55 estimate.
	assert.Equal(t, model.MinHRVTarget, p.SetTarget(10))
	assert.True(t, m.Biofeedback())
}

func TestSetTargetWithoutEstimateLeavesFlag(t *testing.T) {
	m := model.New(60, 150)
	p := hrv.NewProcessor(m, 30)

	assert.Equal(t, 300, p.SetTarget(300))
	assert.False(t, m.Biofeedback())
}
