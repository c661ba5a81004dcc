// Package preview is the interactive player screen: it plays gameplay
// sounds through the pause gate, shows the background dim and lets the
// user switch or import skins while listening.
package preview

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/rhythm/internal/gameplay"
	"github.com/llehouerou/rhythm/internal/importer"
	"github.com/llehouerou/rhythm/internal/keymap"
	"github.com/llehouerou/rhythm/internal/skinning"
	"github.com/llehouerou/rhythm/internal/state"
)

const (
	defaultTickRate = 60
	maxLogLines     = 3
	dimStep         = 0.1

	// maxFrame caps dt after the process was stopped or the terminal lagged.
	maxFrame = 250 * time.Millisecond
)

const (
	spinnerSample   = "spinnerspin"
	pauseLoopSample = "pause-loop"
)

var hitSamples = map[keymap.Action]string{
	keymap.ActionHitNormal:  skinning.HitNormal,
	keymap.ActionHitWhistle: skinning.HitWhistle,
	keymap.ActionHitFinish:  skinning.HitFinish,
	keymap.ActionHitClap:    skinning.HitClap,
}

// Deps is what the preview screen runs on.
type Deps struct {
	Player   *gameplay.Player
	Skins    *skinning.Manager
	Store    state.Interface
	Importer *importer.Importer // nil disables importing
	TickRate int
	Stderr   <-chan string // captured audio backend output, may be nil
}

type tickMsg time.Time

type stderrMsg string

type importDoneMsg struct {
	dir string
	res *importer.Result
	err error
}

// Model is the bubbletea model of the preview screen.
type Model struct {
	player   *gameplay.Player
	skins    *skinning.Manager
	store    state.Interface
	importer *importer.Importer
	keys     *keymap.Resolver
	help     help.Model
	input    textinput.Model

	importing bool

	// spinner and hits are gated by the pauser; pauseLoop is the pause
	// screen's own music and plays only while paused.
	spinner   *skinning.PausableSound
	hits      map[keymap.Action]*skinning.PausableSound
	pauseLoop *skinning.SkinnableSound
	sounds    []*skinning.SkinnableSound

	rate     int
	lastTick time.Time
	stderr   <-chan string

	width     int
	height    int
	status    string
	statusErr bool
	logLines  []string
}

// New builds the screen. Sounds are resolved against d.Skins and follow
// skin changes.
func New(d Deps) Model {
	rate := d.TickRate
	if rate <= 0 {
		rate = defaultTickRate
	}

	input := textinput.New()
	input.Prompt = "import: "
	input.Placeholder = "path to a skin folder"
	input.CharLimit = 1024

	m := Model{
		player:   d.Player,
		skins:    d.Skins,
		store:    d.Store,
		importer: d.Importer,
		keys:     keymap.Default(),
		help:     help.New(),
		input:    input,
		hits:     make(map[keymap.Action]*skinning.PausableSound, len(hitSamples)),
		rate:     rate,
		lastTick: time.Now(),
		stderr:   d.Stderr,
	}

	m.spinner = m.player.AddSound(m.newSound(true, skinning.NewSampleInfo(spinnerSample, "")))
	for action, name := range hitSamples {
		m.hits[action] = m.player.AddSound(m.newSound(false, skinning.NewSampleInfo(name, skinning.BankNormal)))
	}
	m.pauseLoop = m.newSound(true, skinning.NewSampleInfo(pauseLoopSample, ""))
	return m
}

func (m *Model) newSound(looping bool, info skinning.SampleInfo) *skinning.SkinnableSound {
	s := skinning.NewSkinnableSound(m.skins, info)
	s.SetLooping(looping)
	m.sounds = append(m.sounds, s)
	return s
}

// Init enters the player screen and starts the gameplay loop.
func (m Model) Init() tea.Cmd {
	m.player.Start()
	m.spinner.Play()
	return tea.Batch(m.tick(), waitForLine(m.stderr))
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.rate), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForLine delivers the next captured stderr line.
func waitForLine(lines <-chan string) tea.Cmd {
	if lines == nil {
		return nil
	}
	return func() tea.Msg {
		line, ok := <-lines
		if !ok {
			return nil
		}
		return stderrMsg(line)
	}
}

// advance returns the frame time since the previous tick.
func (m *Model) advance(now time.Time) time.Duration {
	dt := now.Sub(m.lastTick)
	m.lastTick = now
	return min(max(dt, 0), maxFrame)
}

// shutdown leaves the player screen and releases every sound.
func (m *Model) shutdown() {
	m.player.Exit()
	for _, s := range m.sounds {
		s.Close()
	}
}

func (m *Model) setStatus(msg string) {
	m.status = msg
	m.statusErr = false
}

func (m *Model) setError(msg string) {
	m.status = msg
	m.statusErr = true
}

func (m *Model) addLog(line string) {
	m.logLines = append(m.logLines, line)
	if len(m.logLines) > maxLogLines {
		m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
	}
}
