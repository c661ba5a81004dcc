// internal/sample/mock.go
package sample

// Mock is a test double for Sample.
type Mock struct {
	looping   bool
	playing   bool
	playCalls int
	stopCalls int
}

// NewMock creates a new mock sample for testing.
func NewMock(looping bool) *Mock {
	return &Mock{looping: looping}
}

func (m *Mock) Play() {
	m.playCalls++
	m.playing = true
}

func (m *Mock) Stop() {
	m.stopCalls++
	m.playing = false
}

func (m *Mock) Looping() bool { return m.looping }

func (m *Mock) SetLooping(looping bool) { m.looping = looping }

func (m *Mock) Playing() bool { return m.playing }

// Test helpers

func (m *Mock) PlayCalls() int { return m.playCalls }

func (m *Mock) StopCalls() int { return m.stopCalls }

// Finish simulates a one-shot sample reaching its end.
func (m *Mock) Finish() { m.playing = false }

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
