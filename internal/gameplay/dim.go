package gameplay

import (
	"math"
	"time"

	"github.com/llehouerou/rhythm/internal/bindable"
)

const dimEpsilon = 1e-6

// BackgroundDim tracks how far the gameplay background is darkened. The
// target is DimLevel while the player screen is active and dimming is
// enabled, and zero otherwise. Update eases toward it linearly.
type BackgroundDim struct {
	DimEnabled *bindable.Bindable[bool]
	DimLevel   *bindable.Bindable[float64]

	FadeDuration time.Duration

	active  bool
	current float64
}

func NewBackgroundDim(level float64, fade time.Duration) *BackgroundDim {
	return &BackgroundDim{
		DimEnabled:   bindable.New(true),
		DimLevel:     bindable.New(clamp01(level)),
		FadeDuration: fade,
	}
}

// SetActive marks whether the player screen owns the background.
func (d *BackgroundDim) SetActive(active bool) {
	d.active = active
}

func (d *BackgroundDim) Active() bool { return d.active }

// Target is the dim the background is heading for.
func (d *BackgroundDim) Target() float64 {
	if !d.active || !d.DimEnabled.Value() {
		return 0
	}
	return clamp01(d.DimLevel.Value())
}

// CurrentDim is the dim applied right now, in [0, 1].
func (d *BackgroundDim) CurrentDim() float64 { return d.current }

// Brightness is the grey level the background is drawn with: 1 is undimmed.
func (d *BackgroundDim) Brightness() float64 { return 1 - d.current }

// Update moves the current dim toward the target by dt's share of the fade.
func (d *BackgroundDim) Update(dt time.Duration) {
	target := d.Target()
	if d.FadeDuration <= 0 {
		d.current = target
		return
	}

	step := float64(dt) / float64(d.FadeDuration)
	diff := target - d.current
	if math.Abs(diff) <= step {
		d.current = target
		return
	}
	d.current += math.Copysign(step, diff)
}

// Finish jumps straight to the target.
func (d *BackgroundDim) Finish() {
	d.current = d.Target()
}

// IsDimmed reports whether the background sits at the user's dim level.
func (d *BackgroundDim) IsDimmed() bool {
	return math.Abs(d.current-clamp01(d.DimLevel.Value())) < dimEpsilon
}

// IsUndimmed reports whether the background is at full brightness.
func (d *BackgroundDim) IsUndimmed() bool {
	return d.current < dimEpsilon
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
