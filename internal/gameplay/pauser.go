// Package gameplay holds the player screen: pause state, background dim and
// the sounds that must fall silent while paused.
package gameplay

import (
	zlog "github.com/rs/zerolog/log"

	"github.com/llehouerou/rhythm/internal/bindable"
)

// Pauser owns the "sample playback disabled" signal. Sounds observe it; only
// the pauser writes it.
type Pauser struct {
	disabled *bindable.Bindable[bool]
}

func NewPauser() *Pauser {
	return &Pauser{disabled: bindable.New(false)}
}

// SamplePlaybackDisabled is true while gameplay is paused.
func (p *Pauser) SamplePlaybackDisabled() bindable.ReadOnly[bool] {
	return p.disabled
}

func (p *Pauser) Pause() {
	if p.disabled.Value() {
		return
	}
	zlog.Debug().Msg("gameplay paused")
	p.disabled.Set(true)
}

func (p *Pauser) Resume() {
	if !p.disabled.Value() {
		return
	}
	zlog.Debug().Msg("gameplay resumed")
	p.disabled.Set(false)
}

// Toggle flips the pause state and returns the new one.
func (p *Pauser) Toggle() bool {
	if p.IsPaused() {
		p.Resume()
	} else {
		p.Pause()
	}
	return p.IsPaused()
}

func (p *Pauser) IsPaused() bool {
	return p.disabled.Value()
}
