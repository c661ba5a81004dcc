// Package bindable provides observable values that notify listeners on change.
//
// All notifications are delivered synchronously on the goroutine that called
// Set. Bindables are not safe for concurrent use; they belong to the single
// update loop that owns them.
package bindable

// ValueChanged is delivered to listeners when a bindable's value changes.
type ValueChanged[T comparable] struct {
	Old T
	New T
}

// ReadOnly is the observer side of a bindable.
type ReadOnly[T comparable] interface {
	Value() T
	BindValueChanged(fn func(ValueChanged[T]), runOnceImmediately bool) (unbind func())
}

// Bindable holds a value and a list of change listeners.
type Bindable[T comparable] struct {
	value     T
	listeners []*listener[T]

	source       ReadOnly[T]
	unbindSource func()
}

type listener[T comparable] struct {
	fn func(ValueChanged[T])
}

// Verify Bindable implements ReadOnly at compile time.
var _ ReadOnly[bool] = (*Bindable[bool])(nil)

// New creates a bindable with an initial value.
func New[T comparable](initial T) *Bindable[T] {
	return &Bindable[T]{value: initial}
}

// Value returns the current value.
func (b *Bindable[T]) Value() T {
	return b.value
}

// Set updates the value and notifies listeners if it changed.
func (b *Bindable[T]) Set(v T) {
	if v == b.value {
		return
	}
	old := b.value
	b.value = v
	b.notify(ValueChanged[T]{Old: old, New: v})
}

// BindValueChanged registers fn to be called on every change. When
// runOnceImmediately is set, fn is called right away with Old == New ==
// the current value. The returned func removes the listener.
func (b *Bindable[T]) BindValueChanged(fn func(ValueChanged[T]), runOnceImmediately bool) func() {
	l := &listener[T]{fn: fn}
	b.listeners = append(b.listeners, l)

	if runOnceImmediately {
		fn(ValueChanged[T]{Old: b.value, New: b.value})
	}

	return func() { b.remove(l) }
}

// BindTo makes b mirror source: b takes source's current value and follows
// every later change. Any previous binding is released first.
func (b *Bindable[T]) BindTo(source ReadOnly[T]) {
	b.Unbind()
	b.source = source
	b.unbindSource = source.BindValueChanged(func(e ValueChanged[T]) {
		b.Set(e.New)
	}, false)
	b.Set(source.Value())
}

// Unbind detaches b from its source, if any. b keeps its last value and
// its own listeners.
func (b *Bindable[T]) Unbind() {
	if b.unbindSource != nil {
		b.unbindSource()
	}
	b.source = nil
	b.unbindSource = nil
}

// UnbindAll detaches from the source and drops every listener.
func (b *Bindable[T]) UnbindAll() {
	b.Unbind()
	b.listeners = nil
}

// Bound reports whether b currently follows a source.
func (b *Bindable[T]) Bound() bool {
	return b.source != nil
}

func (b *Bindable[T]) notify(e ValueChanged[T]) {
	// Snapshot so listeners may unbind themselves during delivery.
	ls := make([]*listener[T], len(b.listeners))
	copy(ls, b.listeners)
	for _, l := range ls {
		if b.has(l) {
			l.fn(e)
		}
	}
}

func (b *Bindable[T]) has(l *listener[T]) bool {
	for _, x := range b.listeners {
		if x == l {
			return true
		}
	}
	return false
}

func (b *Bindable[T]) remove(l *listener[T]) {
	for i, x := range b.listeners {
		if x == l {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			return
		}
	}
}
