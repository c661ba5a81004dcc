package sample

import "testing"

func TestMock_TracksCalls(t *testing.T) {
	m := NewMock(true)

	m.Play()
	m.Play()
	m.Stop()

	if m.PlayCalls() != 2 {
		t.Errorf("PlayCalls() = %d, want 2", m.PlayCalls())
	}
	if m.StopCalls() != 1 {
		t.Errorf("StopCalls() = %d, want 1", m.StopCalls())
	}
	if m.Playing() {
		t.Error("Playing() = true after Stop")
	}
	if !m.Looping() {
		t.Error("Looping() = false, want true")
	}
}

func TestMock_Finish(t *testing.T) {
	m := NewMock(false)
	m.Play()
	m.Finish()

	if m.Playing() {
		t.Error("Playing() = true after Finish")
	}
	if m.StopCalls() != 0 {
		t.Errorf("StopCalls() = %d, want 0", m.StopCalls())
	}
}
