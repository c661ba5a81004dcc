// internal/sample/interface.go
package sample

// Interface defines the playable sample contract for dependency injection and testing.
type Interface interface {
	Play()
	Stop()
	Looping() bool
	SetLooping(looping bool)
	Playing() bool
}

// Verify Sample implements Interface at compile time.
var _ Interface = (*Sample)(nil)
