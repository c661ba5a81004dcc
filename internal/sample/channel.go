package sample

import (
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
)

// DefaultFormat is the mixing format used when none is configured.
var DefaultFormat = beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}

// Channel mixes every sample playing through it into a single stream.
//
// All mutation of the mixer happens under lock. For the speaker-backed
// channel that is the speaker lock, so sample callbacks (which run on the
// speaker goroutine) and Play/Stop never race.
type Channel struct {
	lock   sync.Locker
	format beep.Format
	mixer  *beep.Mixer
	master *effects.Volume

	volumeLevel float64
	muted       bool
}

// NewChannel creates a channel in the given format, guarded by lock.
func NewChannel(format beep.Format, lock sync.Locker) *Channel {
	mixer := &beep.Mixer{}
	return &Channel{
		lock:        lock,
		format:      format,
		mixer:       mixer,
		master:      &effects.Volume{Streamer: mixer, Base: 2},
		volumeLevel: 1,
	}
}

// speakerLock adapts the speaker's package-level lock to sync.Locker.
type speakerLock struct{}

func (speakerLock) Lock()   { speaker.Lock() }
func (speakerLock) Unlock() { speaker.Unlock() }

// OpenSpeaker initializes the audio device and returns a channel playing
// through it. bufferSize trades latency for underrun safety.
func OpenSpeaker(format beep.Format, bufferSize time.Duration) (*Channel, error) {
	if err := speaker.Init(format.SampleRate, format.SampleRate.N(bufferSize)); err != nil {
		return nil, err
	}
	c := NewChannel(format, speakerLock{})
	speaker.Play(c.master)
	return c, nil
}

// Close stops everything playing on the channel.
func (c *Channel) Close() {
	c.lock.Lock()
	c.mixer.Clear()
	c.lock.Unlock()
}

// Format returns the channel's mixing format.
func (c *Channel) Format() beep.Format { return c.format }

// Streamer returns the channel's output stream.
func (c *Channel) Streamer() beep.Streamer { return c.master }

// Active returns the number of streams currently attached to the mixer.
func (c *Channel) Active() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.mixer.Len()
}

// Pump pulls n frames through the channel and returns them. It is how
// tests and offline rendering advance playback without an audio device.
func (c *Channel) Pump(n int) [][2]float64 {
	buf := make([][2]float64, n)
	c.lock.Lock()
	defer c.lock.Unlock()
	c.master.Stream(buf)
	return buf
}

// SetVolume sets the master volume level (0.0 to 1.0).
func (c *Channel) SetVolume(level float64) {
	level = clamp(level)
	c.lock.Lock()
	c.volumeLevel = level
	c.master.Volume = levelToVolume(level)
	c.master.Silent = c.muted || level <= 0
	c.lock.Unlock()
}

// Volume returns the master volume level.
func (c *Channel) Volume() float64 {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.volumeLevel
}

// SetMuted silences the channel without losing the volume level.
func (c *Channel) SetMuted(muted bool) {
	c.lock.Lock()
	c.muted = muted
	c.master.Silent = muted || c.volumeLevel <= 0
	c.lock.Unlock()
}

// Muted reports whether the channel is muted.
func (c *Channel) Muted() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.muted
}

func clamp(level float64) float64 {
	if level < 0 {
		return 0
	}
	if level > 1 {
		return 1
	}
	return level
}
