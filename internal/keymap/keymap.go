// Package keymap defines the preview screen's key bindings.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// Action is something a key press asks the preview to do.
type Action string

const (
	ActionQuit Action = "quit"
	ActionHelp Action = "help"

	ActionTogglePause Action = "toggle_pause"
	ActionBack        Action = "back"

	ActionHitNormal  Action = "hit_normal"
	ActionHitWhistle Action = "hit_whistle"
	ActionHitFinish  Action = "hit_finish"
	ActionHitClap    Action = "hit_clap"

	ActionToggleDim Action = "toggle_dim"
	ActionDimUp     Action = "dim_up"
	ActionDimDown   Action = "dim_down"

	ActionRandomSkin Action = "random_skin"
	ActionNextSkin   Action = "next_skin"
	ActionImportSkin Action = "import_skin"
)

// Binding describes a single key binding.
type Binding struct {
	Action      Action
	Keys        []string
	Help        string // key label shown in help
	Description string
	Context     string // "global", "playback", "hits", "dim", "skin"
}

// All lists every binding, in help order.
var All = []Binding{
	{ActionTogglePause, []string{" ", "space", "p"}, "space", "pause/resume", "playback"},
	{ActionBack, []string{"esc"}, "esc", "back", "playback"},

	{ActionHitNormal, []string{"1"}, "1", "hitnormal", "hits"},
	{ActionHitWhistle, []string{"2"}, "2", "hitwhistle", "hits"},
	{ActionHitFinish, []string{"3"}, "3", "hitfinish", "hits"},
	{ActionHitClap, []string{"4"}, "4", "hitclap", "hits"},

	{ActionToggleDim, []string{"d"}, "d", "toggle dim", "dim"},
	{ActionDimUp, []string{"+", "="}, "+", "dim more", "dim"},
	{ActionDimDown, []string{"-"}, "-", "dim less", "dim"},

	{ActionRandomSkin, []string{"r"}, "r", "random skin", "skin"},
	{ActionNextSkin, []string{"s"}, "s", "next skin", "skin"},
	{ActionImportSkin, []string{"i"}, "i", "import skin", "skin"},

	{ActionHelp, []string{"?"}, "?", "help", "global"},
	{ActionQuit, []string{"q", "ctrl+c"}, "q", "quit", "global"},
}

// ByContext returns the bindings in context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, b := range All {
		if b.Context == context {
			result = append(result, b)
		}
	}
	return result
}

// Key converts b to a bubbles key binding.
func (b Binding) Key() key.Binding {
	return key.NewBinding(
		key.WithKeys(b.Keys...),
		key.WithHelp(b.Help, b.Description),
	)
}
