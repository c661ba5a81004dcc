package keymap

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// contextOrder is the column order of the full help view.
var contextOrder = []string{"playback", "hits", "dim", "skin", "global"}

// Resolver maps key presses to actions and provides the help key map.
type Resolver struct {
	actions []Action
	keys    map[Action]key.Binding
	columns [][]key.Binding
}

// NewResolver indexes bindings. A key bound twice resolves to the first
// binding that lists it.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{keys: make(map[Action]key.Binding, len(bindings))}

	byContext := make(map[string][]key.Binding)
	for _, b := range bindings {
		if _, dup := r.keys[b.Action]; dup {
			continue
		}
		kb := b.Key()
		r.actions = append(r.actions, b.Action)
		r.keys[b.Action] = kb
		byContext[b.Context] = append(byContext[b.Context], kb)
	}
	for _, ctx := range contextOrder {
		if col := byContext[ctx]; len(col) > 0 {
			r.columns = append(r.columns, col)
		}
	}
	return r
}

// Default resolves All.
func Default() *Resolver {
	return NewResolver(All)
}

// Resolve returns the action bound to msg, or "" when none is.
func (r *Resolver) Resolve(msg tea.KeyMsg) Action {
	for _, a := range r.actions {
		if key.Matches(msg, r.keys[a]) {
			return a
		}
	}
	return ""
}

// Binding returns the key binding for a.
func (r *Resolver) Binding(a Action) key.Binding {
	return r.keys[a]
}

// ShortHelp implements help.KeyMap.
func (r *Resolver) ShortHelp() []key.Binding {
	short := []Action{ActionTogglePause, ActionBack, ActionToggleDim, ActionRandomSkin, ActionHelp, ActionQuit}
	out := make([]key.Binding, 0, len(short))
	for _, a := range short {
		if kb, ok := r.keys[a]; ok {
			out = append(out, kb)
		}
	}
	return out
}

// FullHelp implements help.KeyMap.
func (r *Resolver) FullHelp() [][]key.Binding {
	return r.columns
}
