package bindable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBindable_SetNotifiesOnChange(t *testing.T) {
	b := New(false)

	var events []ValueChanged[bool]
	b.BindValueChanged(func(e ValueChanged[bool]) {
		events = append(events, e)
	}, false)

	b.Set(true)
	b.Set(true)
	b.Set(false)

	assert.Equal(t, []ValueChanged[bool]{
		{Old: false, New: true},
		{Old: true, New: false},
	}, events)
}

func TestBindable_RunOnceImmediately(t *testing.T) {
	b := New(3)

	var got []ValueChanged[int]
	b.BindValueChanged(func(e ValueChanged[int]) {
		got = append(got, e)
	}, true)

	assert.Equal(t, []ValueChanged[int]{{Old: 3, New: 3}}, got)
}

func TestBindable_UnbindListener(t *testing.T) {
	b := New("a")

	calls := 0
	unbind := b.BindValueChanged(func(ValueChanged[string]) { calls++ }, false)

	b.Set("b")
	unbind()
	b.Set("c")

	assert.Equal(t, 1, calls)
}

func TestBindable_ListenerCanUnbindItselfDuringDelivery(t *testing.T) {
	b := New(0)

	var unbind func()
	first := 0
	unbind = b.BindValueChanged(func(ValueChanged[int]) {
		first++
		unbind()
	}, false)

	second := 0
	b.BindValueChanged(func(ValueChanged[int]) { second++ }, false)

	b.Set(1)
	b.Set(2)

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}

func TestBindable_BindToFollowsSource(t *testing.T) {
	source := New(true)
	mirror := New(false)

	var events []ValueChanged[bool]
	mirror.BindValueChanged(func(e ValueChanged[bool]) {
		events = append(events, e)
	}, false)

	mirror.BindTo(source)
	assert.True(t, mirror.Value(), "takes source value on bind")
	assert.True(t, mirror.Bound())

	source.Set(false)
	assert.False(t, mirror.Value())

	assert.Equal(t, []ValueChanged[bool]{
		{Old: false, New: true},
		{Old: true, New: false},
	}, events)
}

func TestBindable_UnbindStopsFollowing(t *testing.T) {
	source := New(false)
	mirror := New(false)
	mirror.BindTo(source)

	mirror.Unbind()
	source.Set(true)

	assert.False(t, mirror.Value())
	assert.False(t, mirror.Bound())
}

func TestBindable_RebindReleasesPreviousSource(t *testing.T) {
	a := New(1)
	b := New(2)
	mirror := New(0)

	mirror.BindTo(a)
	mirror.BindTo(b)
	a.Set(10)

	assert.Equal(t, 2, mirror.Value())

	b.Set(20)
	assert.Equal(t, 20, mirror.Value())
}

func TestBindable_UnbindAllDropsListeners(t *testing.T) {
	b := New(0)
	calls := 0
	b.BindValueChanged(func(ValueChanged[int]) { calls++ }, false)

	b.UnbindAll()
	b.Set(1)

	assert.Equal(t, 0, calls)
}
