package skinning

import (
	zlog "github.com/rs/zerolog/log"

	"github.com/llehouerou/rhythm/internal/bindable"
	"github.com/llehouerou/rhythm/internal/scheduler"
)

// Playable is the sound a PausableSound gates.
type Playable interface {
	Play()
	Stop()
	Looping() bool
}

// Scheduler defers work to the next tick of the update loop.
type Scheduler interface {
	Schedule(fn func()) *scheduler.Delegate
}

// SamplePlaybackDisabler is the authority that silences samples, typically
// the gameplay pause state.
type SamplePlaybackDisabler interface {
	SamplePlaybackDisabled() bindable.ReadOnly[bool]
}

// Option configures a PausableSound.
type Option func(*PausableSound)

// WithPlaybackDisabler gates the sound on d. Without it the sound is never
// suppressed.
func WithPlaybackDisabler(d SamplePlaybackDisabler) Option {
	return func(p *PausableSound) { p.disabler = d }
}

// PausableSound wraps a sound so that it goes quiet while sample playback is
// disabled and picks up again afterwards.
//
// Looping sounds stop as soon as playback is disabled and restart on the
// next scheduler tick after it is re-enabled. One-shot sounds already in
// flight are left to finish, and a one-shot Play issued while disabled is
// dropped. The caller's play/stop intent is tracked separately from
// audibility, so a looping Play issued while disabled is heard once playback
// is re-enabled.
//
// All methods must be called from the scheduler's update goroutine.
type PausableSound struct {
	inner     Playable
	scheduler Scheduler
	disabler  SamplePlaybackDisabler

	requestedPlaying bool
	disabled         *bindable.Bindable[bool]
	scheduledStart   *scheduler.Delegate
}

// NewPausableSound gates inner on the configured disabler, scheduling
// restarts on s.
func NewPausableSound(inner Playable, s Scheduler, opts ...Option) *PausableSound {
	p := &PausableSound{
		inner:     inner,
		scheduler: s,
		disabled:  bindable.New(false),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.disabler != nil {
		p.disabled.BindTo(p.disabler.SamplePlaybackDisabled())
		p.disabled.BindValueChanged(p.playbackDisabledChanged, false)
	}
	return p
}

func (p *PausableSound) playbackDisabledChanged(e bindable.ValueChanged[bool]) {
	if !p.requestedPlaying {
		return
	}

	// one-shots in flight play out
	if !p.inner.Looping() {
		return
	}

	p.cancelPendingStart()

	if e.New {
		p.inner.Stop()
		return
	}

	// Restart on the next tick, and only if nothing superseded it.
	p.scheduledStart = p.scheduler.Schedule(func() {
		p.scheduledStart = nil
		if p.requestedPlaying {
			p.inner.Play()
		}
	})
	zlog.Trace().Msg("looping sample restart scheduled")
}

// Play requests playback. While sample playback is disabled the request is
// remembered and nothing is heard.
func (p *PausableSound) Play() {
	p.cancelPendingStart()
	p.requestedPlaying = true

	if p.disabled.Value() {
		return
	}

	p.inner.Play()
}

// Stop cancels any pending restart and stops the sound.
func (p *PausableSound) Stop() {
	p.cancelPendingStart()
	p.requestedPlaying = false
	p.inner.Stop()
}

// RequestedPlaying reports the intent of the most recent Play or Stop.
func (p *PausableSound) RequestedPlaying() bool {
	return p.requestedPlaying
}

// Looping reports whether the wrapped sound loops.
func (p *PausableSound) Looping() bool {
	return p.inner.Looping()
}

// PlaybackDisabled reports whether sample playback is currently suppressed.
func (p *PausableSound) PlaybackDisabled() bool {
	return p.disabled.Value()
}

// RestartPending reports whether a deferred restart is waiting to run.
func (p *PausableSound) RestartPending() bool {
	return p.scheduledStart != nil
}

// Close detaches from the disabler and drops any pending restart. The sound
// itself is left as is and is no longer gated.
func (p *PausableSound) Close() {
	p.cancelPendingStart()
	p.disabled.UnbindAll()
	p.disabled.Set(false)
}

func (p *PausableSound) cancelPendingStart() {
	p.scheduledStart.Cancel()
	p.scheduledStart = nil
}
