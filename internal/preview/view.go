package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/rhythm/internal/gameplay"
	"github.com/llehouerou/rhythm/internal/ui/render"
	"github.com/llehouerou/rhythm/internal/ui/styles"
)

const (
	defaultWidth  = 60
	maxPanelWidth = 72
	swatchHeight  = 3
	meterWidth    = 20
	labelWidth    = 7
)

// View implements tea.Model.
func (m Model) View() string {
	t := styles.T()
	s := t.S()

	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	// panel border and padding take four columns
	inner := min(max(width-4, 20), maxPanelWidth)

	lines := []string{
		render.Row(styles.ApplyGradient("rhythm", t.Primary, t.Secondary), m.stateLabel(), inner),
		m.field("skin", m.skinLabel(inner-labelWidth)),
		"",
	}
	lines = append(lines, m.swatch(inner)...)
	lines = append(lines,
		"",
		m.field("dim", m.dimLabel()),
		m.field("loop", m.loopLabel()),
	)

	var b strings.Builder
	b.WriteString(s.Panel.Width(inner + 2).Render(strings.Join(lines, "\n")))
	b.WriteString("\n")

	if m.status != "" {
		style := s.Muted
		if m.statusErr {
			style = s.Error
		}
		b.WriteString(style.Render(render.Truncate(m.status, width)))
		b.WriteString("\n")
	}
	for _, line := range m.logLines {
		b.WriteString(s.Subtle.Render(render.Truncate(line, width)))
		b.WriteString("\n")
	}

	if m.importing {
		b.WriteString(m.input.View())
		return b.String()
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) field(label, value string) string {
	return styles.T().S().Subtle.Render(fmt.Sprintf("%-*s", labelWidth, label)) + value
}

func (m Model) stateLabel() string {
	s := styles.T().S()
	state := m.player.State()
	switch state {
	case gameplay.StatePlaying:
		return s.Playing.Render(state.String())
	case gameplay.StatePaused:
		return s.Paused.Render(state.String())
	}
	return s.Muted.Render(state.String())
}

func (m Model) skinLabel(width int) string {
	s := styles.T().S()
	info := m.skins.Current().Info()
	name := s.Title.Render(render.Truncate(info.Name, width))
	if info.Creator == "" {
		return name
	}
	rest := width - lipgloss.Width(name) - len(" by ")
	if rest < 4 {
		return name
	}
	return name + s.Muted.Render(" by "+render.Truncate(info.Creator, rest))
}

// swatch paints the backdrop at the brightness the dim currently allows.
func (m Model) swatch(width int) []string {
	shade := styles.Shade(styles.T().Background, m.player.Dim().Brightness())
	row := lipgloss.NewStyle().Background(shade).Render(strings.Repeat(" ", width))

	rows := make([]string, swatchHeight)
	for i := range rows {
		rows[i] = row
	}
	return rows
}

func (m Model) dimLabel() string {
	dim := m.player.Dim()
	setting := "off"
	if dim.DimEnabled.Value() {
		setting = fmt.Sprintf("%.0f%%", dim.DimLevel.Value()*100)
	}
	return fmt.Sprintf("%s %3.0f%%  (user dim %s)", render.Meter(dim.CurrentDim(), meterWidth), dim.CurrentDim()*100, setting)
}

func (m Model) loopLabel() string {
	switch {
	case !m.spinner.RequestedPlaying():
		return "stopped"
	case m.spinner.RestartPending():
		return "resuming"
	case m.spinner.PlaybackDisabled():
		return "silenced"
	}
	return "playing"
}
