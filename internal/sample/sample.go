package sample

import (
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
)

// Sample is a decoded audio clip that can be played on a Channel.
//
// The clip is decoded once into memory; every Play starts a fresh stream
// from the beginning. A sample has at most one live stream: playing again
// replaces the previous one.
type Sample struct {
	name    string
	buffer  *beep.Buffer
	channel *Channel

	looping bool
	volume  float64

	// current is the live stream's control, nil when not playing.
	// Guarded by channel.lock.
	current *beep.Ctrl
}

// New wraps an already-filled buffer. The buffer must be in the channel's format.
func New(name string, buffer *beep.Buffer, channel *Channel) *Sample {
	return &Sample{
		name:    name,
		buffer:  buffer,
		channel: channel,
		volume:  1,
	}
}

// Name returns the lookup name the sample was loaded under.
func (s *Sample) Name() string { return s.name }

// Length returns the duration of one pass through the sample.
func (s *Sample) Length() time.Duration {
	return s.buffer.Format().SampleRate.D(s.buffer.Len())
}

// Play starts the sample from the beginning.
func (s *Sample) Play() {
	body := s.buffer.Streamer(0, s.buffer.Len())
	var stream beep.Streamer = body
	if s.looping {
		stream = beep.Loop(-1, body)
	}

	ctrl := &beep.Ctrl{Streamer: stream}
	vol := &effects.Volume{
		Streamer: ctrl,
		Base:     2,
		Volume:   levelToVolume(s.volume),
		Silent:   s.volume <= 0,
	}

	s.channel.lock.Lock()
	defer s.channel.lock.Unlock()

	s.detachLocked()
	s.current = ctrl
	// The callback runs on the mixing goroutine, which already holds the lock.
	s.channel.mixer.Add(beep.Seq(vol, beep.Callback(func() {
		if s.current == ctrl {
			s.current = nil
		}
	})))
}

// Stop silences the sample immediately.
func (s *Sample) Stop() {
	s.channel.lock.Lock()
	defer s.channel.lock.Unlock()
	s.detachLocked()
}

func (s *Sample) detachLocked() {
	if s.current == nil {
		return
	}
	// A Ctrl without a streamer drains, so the mixer drops it on the next pass.
	s.current.Streamer = nil
	s.current = nil
}

// Playing reports whether a stream of this sample is still audible.
func (s *Sample) Playing() bool {
	s.channel.lock.Lock()
	defer s.channel.lock.Unlock()
	return s.current != nil
}

// Looping reports whether Play starts an endless loop.
func (s *Sample) Looping() bool { return s.looping }

// SetLooping configures the next Play. A stream already playing keeps its mode.
func (s *Sample) SetLooping(looping bool) { s.looping = looping }

// Volume returns the per-sample volume level (0.0 to 1.0).
func (s *Sample) Volume() float64 { return s.volume }

// SetVolume sets the per-sample volume applied on the next Play.
func (s *Sample) SetVolume(level float64) { s.volume = clamp(level) }

// Clone returns an independent sample sharing the decoded audio, so two
// sounds using the same skin file can be started and stopped separately.
func (s *Sample) Clone() *Sample {
	return &Sample{
		name:    s.name,
		buffer:  s.buffer,
		channel: s.channel,
		looping: s.looping,
		volume:  s.volume,
	}
}
