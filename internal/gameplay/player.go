package gameplay

import (
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/llehouerou/rhythm/internal/scheduler"
	"github.com/llehouerou/rhythm/internal/skinning"
)

// Player is the gameplay screen. It owns the pause authority, the
// background dim and every sound that must go quiet while paused.
type Player struct {
	pauser *Pauser
	dim    *BackgroundDim
	sched  *scheduler.Scheduler
	sounds []*skinning.PausableSound
	state  State
}

func NewPlayer(sched *scheduler.Scheduler, dim *BackgroundDim) *Player {
	return &Player{
		pauser: NewPauser(),
		dim:    dim,
		sched:  sched,
	}
}

func (p *Player) Pauser() *Pauser { return p.pauser }
func (p *Player) Dim() *BackgroundDim { return p.dim }
func (p *Player) State() State { return p.state }
func (p *Player) Sounds() []*skinning.PausableSound { return p.sounds }

// Start shows the player screen and dims the background.
func (p *Player) Start() {
	if p.state.IsActive() {
		return
	}
	p.state = StatePlaying
	p.dim.SetActive(true)
	zlog.Debug().Msg("player started")
}

// AddSound wraps inner so it is silenced while the player is paused.
func (p *Player) AddSound(inner skinning.Playable) *skinning.PausableSound {
	s := skinning.NewPausableSound(inner, p.sched, skinning.WithPlaybackDisabler(p.pauser))
	p.sounds = append(p.sounds, s)
	return s
}

// Pause suppresses sample playback. The background keeps its dim.
func (p *Player) Pause() {
	if p.state != StatePlaying {
		return
	}
	p.state = StatePaused
	p.pauser.Pause()
}

func (p *Player) Resume() {
	if p.state != StatePaused {
		return
	}
	p.state = StatePlaying
	p.pauser.Resume()
}

// TogglePause pauses or resumes and reports whether the player is now paused.
func (p *Player) TogglePause() bool {
	switch p.state {
	case StatePlaying:
		p.Pause()
	case StatePaused:
		p.Resume()
	}
	return p.state == StatePaused
}

// RequestExit is the back action. A playing player pauses instead of
// leaving; a paused one exits. It reports whether the player exited.
func (p *Player) RequestExit() bool {
	switch p.state {
	case StatePlaying:
		p.Pause()
		return false
	case StatePaused:
		p.Exit()
		return true
	}
	return false
}

// Exit leaves the player screen: sounds stop for good and the background
// returns to full brightness.
func (p *Player) Exit() {
	if p.state == StateExited {
		return
	}
	for _, s := range p.sounds {
		s.Stop()
		s.Close()
	}
	p.sounds = nil
	p.dim.SetActive(false)
	p.state = StateExited
	zlog.Debug().Msg("player exited")
}

// Update advances one frame: deferred work first, then the dim fade.
func (p *Player) Update(dt time.Duration) {
	p.sched.Update()
	p.dim.Update(dt)
}
