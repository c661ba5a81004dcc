package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestShade(t *testing.T) {
	c := lipgloss.Color("#3b6ea5")

	assert.Equal(t, c, Shade(c, 1))
	assert.Equal(t, lipgloss.Color("#000000"), Shade(c, 0))
	assert.Equal(t, lipgloss.Color("#000000"), Shade(c, -0.5), "clamped below")
	assert.Equal(t, c, Shade(c, 2), "clamped above")
}

func TestShade_Darkens(t *testing.T) {
	c := lipgloss.Color("#ffffff")
	half := Shade(c, 0.5)

	assert.NotEqual(t, c, half)
	assert.NotEqual(t, lipgloss.Color("#000000"), half)
}

func TestShade_ANSIColourFallsBackToGray(t *testing.T) {
	assert.Equal(t, lipgloss.Color("#808080"), Shade(lipgloss.Color("240"), 1))
}

func TestBlendColors(t *testing.T) {
	colors := blendColors(3, "#000000", "#ffffff")
	assert.Len(t, colors, 3)
	assert.Equal(t, "#000000", colorToHex(colors[0]))
	assert.Equal(t, "#ffffff", colorToHex(colors[2]))

	assert.Len(t, blendColors(1, "#000000", "#ffffff"), 1)
}

func TestApplyGradient(t *testing.T) {
	assert.Empty(t, ApplyGradient("", "#000000", "#ffffff"))
	assert.Equal(t, "x", stripped(ApplyGradient("x", "#000000", "#ffffff")))
	assert.Equal(t, "rhythm", stripped(ApplyGradient("rhythm", "#000000", "#ffffff")))
}

func TestTheme_StylesBuiltOnce(t *testing.T) {
	assert.Same(t, T().S(), T().S())
}

func stripped(s string) string {
	var out []rune
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && r == 'm':
			inEsc = false
		case !inEsc:
			out = append(out, r)
		}
	}
	return string(out)
}
