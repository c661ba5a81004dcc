package testutil

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestStripANSI(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no ansi codes", "hello world", "hello world"},
		{"with color codes", "\x1b[31mred\x1b[0m text", "red text"},
		{"with multiple codes", "\x1b[1;32mbold green\x1b[0m", "bold green"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripANSI(tt.input))
		})
	}
}

func TestMeasureWidth(t *testing.T) {
	assert.Equal(t, 3, MeasureWidth("\x1b[31mred\x1b[0m"))
}

func TestFindLine(t *testing.T) {
	output := "skin: Aristia\nstate: paused\n"

	assert.Equal(t, "state: paused", FindLine(output, "state"))
	assert.Empty(t, FindLine(output, "volume"))
	assert.True(t, ContainsLine(output, "Aristia"))
	assert.False(t, ContainsLine(output, "exited"))
}

func TestKey(t *testing.T) {
	assert.Equal(t, tea.KeyEscape, Key("esc").Type)
	assert.Equal(t, tea.KeyEnter, Key("enter").Type)
	assert.Equal(t, "d", Key("d").String())
	assert.Equal(t, "+", Key("+").String())
}
