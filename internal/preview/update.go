package preview

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/llehouerou/rhythm/internal/errmsg"
	"github.com/llehouerou/rhythm/internal/gameplay"
	"github.com/llehouerou/rhythm/internal/importer"
	"github.com/llehouerou/rhythm/internal/keymap"
	"github.com/llehouerou/rhythm/internal/ui/render"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-len(m.input.Prompt)-2, 10)
		return m, nil

	case tickMsg:
		m.player.Update(m.advance(time.Time(msg)))
		if m.player.State() == gameplay.StateExited && m.player.Dim().IsUndimmed() {
			return m, tea.Quit
		}
		return m, m.tick()

	case stderrMsg:
		zlog.Debug().Str("line", string(msg)).Msg("audio backend")
		m.addLog(string(msg))
		return m, waitForLine(m.stderr)

	case importDoneMsg:
		m.importFinished(msg)
		return m, nil

	case tea.KeyMsg:
		if m.importing {
			return m.updateImportPrompt(msg)
		}
		return m.handleAction(m.keys.Resolve(msg))
	}
	return m, nil
}

func (m Model) handleAction(a keymap.Action) (tea.Model, tea.Cmd) {
	switch a {
	case keymap.ActionQuit:
		m.shutdown()
		return m, tea.Quit
	case keymap.ActionHelp:
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if !m.player.State().IsActive() {
		return m, nil
	}

	switch a {
	case keymap.ActionTogglePause:
		m.player.TogglePause()
		m.syncPauseLoop()

	case keymap.ActionBack:
		if m.player.RequestExit() {
			m.shutdown()
			m.setStatus("leaving player")
			return m, nil
		}
		m.syncPauseLoop()

	case keymap.ActionHitNormal, keymap.ActionHitWhistle, keymap.ActionHitFinish, keymap.ActionHitClap:
		m.hits[a].Play()

	case keymap.ActionToggleDim:
		enabled := m.player.Dim().DimEnabled
		enabled.Set(!enabled.Value())

	case keymap.ActionDimUp:
		m.stepDim(dimStep)
	case keymap.ActionDimDown:
		m.stepDim(-dimStep)

	case keymap.ActionRandomSkin:
		m.selectSkin(m.skins.SelectRandom)
	case keymap.ActionNextSkin:
		m.selectSkin(m.nextSkin)

	case keymap.ActionImportSkin:
		if m.importer == nil {
			m.setError("importing is not available")
			return m, nil
		}
		m.importing = true
		return m, m.input.Focus()
	}
	return m, nil
}

// syncPauseLoop plays the pause screen's loop exactly while paused.
func (m *Model) syncPauseLoop() {
	if m.player.State() == gameplay.StatePaused {
		if !m.pauseLoop.IsPlaying() {
			m.pauseLoop.Play()
		}
		return
	}
	m.pauseLoop.Stop()
}

func (m *Model) stepDim(delta float64) {
	level := m.player.Dim().DimLevel
	next := math.Round((level.Value()+delta)*10) / 10
	level.Set(min(max(next, 0), 1))
}

func (m *Model) selectSkin(fn func() error) {
	if err := fn(); err != nil {
		m.setError(errmsg.Format(errmsg.OpSkinSelect, err))
		return
	}
	info := m.skins.Current().Info()
	m.setStatus("skin: " + render.Sanitize(info.String()))
	m.saveCurrentSkin(info.ID)
}

func (m *Model) saveCurrentSkin(id uuid.UUID) {
	settings, err := m.store.GetSettings()
	if err != nil {
		zlog.Warn().Err(err).Msg("load settings")
		return
	}
	settings.CurrentSkinID = id
	m.store.SaveSettings(*settings)
}

// nextSkin selects the installed skin after the current one, wrapping
// around.
func (m *Model) nextSkin() error {
	skins, err := m.store.ListSkins()
	if err != nil {
		return err
	}
	if len(skins) == 0 {
		return nil
	}

	current := m.skins.Current().Info()
	next := skins[0]
	for i, s := range skins {
		if s.Equal(current) {
			next = skins[(i+1)%len(skins)]
			break
		}
	}
	return m.skins.Select(next.ID)
}

func (m Model) updateImportPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.closePrompt()
		return m, nil
	case tea.KeyEnter:
		dir := expandHome(strings.TrimSpace(m.input.Value()))
		m.closePrompt()
		if dir == "" {
			return m, nil
		}
		m.setStatus("importing " + dir)
		return m, m.importSkin(dir)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) closePrompt() {
	m.importing = false
	m.input.Blur()
	m.input.Reset()
}

func (m Model) importSkin(dir string) tea.Cmd {
	imp := m.importer
	return func() tea.Msg {
		res, err := imp.Import(context.Background(), importer.Params{Dir: dir})
		return importDoneMsg{dir: dir, res: res, err: err}
	}
}

func (m *Model) importFinished(msg importDoneMsg) {
	if msg.err != nil {
		m.setError(errmsg.FormatWith(errmsg.OpSkinImport, msg.dir, msg.err))
		return
	}

	m.selectSkin(func() error { return m.skins.SelectInfo(msg.res.Skin) })
	if m.statusErr {
		return
	}
	if msg.res.Existing {
		m.setStatus(fmt.Sprintf("already installed: %s", render.Sanitize(msg.res.Skin.String())))
		return
	}
	m.setStatus(fmt.Sprintf("imported %s (%d samples)", render.Sanitize(msg.res.Skin.String()), msg.res.Samples))
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
