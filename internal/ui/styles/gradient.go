package styles

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

var black = colorful.Color{}

// ApplyGradient renders bold text with a horizontal color gradient.
func ApplyGradient(text string, from, to lipgloss.Color) string {
	if text == "" {
		return ""
	}

	var clusters []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}

	if len(clusters) == 1 {
		return lipgloss.NewStyle().Foreground(from).Bold(true).Render(text)
	}

	colors := blendColors(len(clusters), from, to)

	var b strings.Builder
	for i, cluster := range clusters {
		style := lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorToHex(colors[i]))).
			Bold(true)
		b.WriteString(style.Render(cluster))
	}
	return b.String()
}

// Shade darkens c toward black. brightness 1 leaves it unchanged, 0 gives
// black. Blending is done in Lab space so the steps look even.
func Shade(c lipgloss.Color, brightness float64) lipgloss.Color {
	base, _ := colorful.MakeColor(lipglossToColor(c))
	switch {
	case brightness >= 1:
		return lipgloss.Color(base.Hex())
	case brightness <= 0:
		return lipgloss.Color(black.Hex())
	}
	return lipgloss.Color(black.BlendLab(base, brightness).Clamped().Hex())
}

// blendColors returns size colors blended between from and to in HCL space.
func blendColors(size int, from, to lipgloss.Color) []color.Color {
	if size < 2 {
		return []color.Color{lipglossToColor(from)}
	}

	c1, _ := colorful.MakeColor(lipglossToColor(from))
	c2, _ := colorful.MakeColor(lipglossToColor(to))

	colors := make([]color.Color, size)
	for i := range size {
		t := float64(i) / float64(size-1)
		colors[i] = c1.BlendHcl(c2, t).Clamped()
	}
	return colors
}

// lipglossToColor converts a hex lipgloss.Color. ANSI colours come back as
// a neutral gray.
func lipglossToColor(c lipgloss.Color) color.Color {
	hex := string(c)
	if len(hex) == 7 && hex[0] == '#' {
		if col, err := colorful.Hex(hex); err == nil {
			return col
		}
	}
	return color.RGBA{R: 128, G: 128, B: 128, A: 255}
}

func colorToHex(c color.Color) string {
	if cf, ok := c.(colorful.Color); ok {
		return cf.Hex()
	}
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}
