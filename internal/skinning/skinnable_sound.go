package skinning

import (
	"github.com/llehouerou/rhythm/internal/sample"
)

// Source resolves samples against the current skin and announces skin changes.
type Source interface {
	GetSample(info SampleInfo) sample.Interface
	OnSourceChanged(fn func()) (unbind func())
}

// SkinnableSound plays a set of samples resolved from the current skin,
// re-resolving them whenever the skin changes.
type SkinnableSound struct {
	source  Source
	infos   []SampleInfo
	samples []sample.Interface
	looping bool

	unbindSource func()
}

// Verify SkinnableSound implements Playable at compile time.
var _ Playable = (*SkinnableSound)(nil)

// NewSkinnableSound resolves infos against source.
func NewSkinnableSound(source Source, infos ...SampleInfo) *SkinnableSound {
	s := &SkinnableSound{source: source}
	s.unbindSource = source.OnSourceChanged(s.skinChanged)
	s.SetSamples(infos...)
	return s
}

// Play starts every resolved sample.
func (s *SkinnableSound) Play() {
	for _, smp := range s.samples {
		smp.Play()
	}
}

// Stop stops every resolved sample.
func (s *SkinnableSound) Stop() {
	for _, smp := range s.samples {
		smp.Stop()
	}
}

// Looping reports whether the samples loop.
func (s *SkinnableSound) Looping() bool { return s.looping }

// SetLooping applies to every resolved sample, including ones resolved later.
func (s *SkinnableSound) SetLooping(looping bool) {
	s.looping = looping
	for _, smp := range s.samples {
		smp.SetLooping(looping)
	}
}

// IsPlaying reports whether any resolved sample is audible.
func (s *SkinnableSound) IsPlaying() bool {
	for _, smp := range s.samples {
		if smp.Playing() {
			return true
		}
	}
	return false
}

// Samples returns the infos this sound plays.
func (s *SkinnableSound) Samples() []SampleInfo {
	out := make([]SampleInfo, len(s.infos))
	copy(out, s.infos)
	return out
}

// Resolved returns how many infos were found in the current skin.
func (s *SkinnableSound) Resolved() int { return len(s.samples) }

// SetSamples replaces the sample set. Samples still playing from the old set
// are stopped.
func (s *SkinnableSound) SetSamples(infos ...SampleInfo) {
	s.infos = append([]SampleInfo(nil), infos...)
	s.Stop()
	s.resolve()
}

func (s *SkinnableSound) resolve() {
	s.samples = s.samples[:0]
	for _, info := range s.infos {
		smp := s.source.GetSample(info)
		if smp == nil {
			continue
		}
		smp.SetLooping(s.looping)
		if v, ok := smp.(interface{ SetVolume(float64) }); ok {
			v.SetVolume(info.VolumeLevel())
		}
		s.samples = append(s.samples, smp)
	}
}

func (s *SkinnableSound) skinChanged() {
	wasPlaying := s.IsPlaying()
	s.Stop()
	s.resolve()

	// Loops carry over to the new skin; one-shots don't get replayed.
	if wasPlaying && s.looping {
		s.Play()
	}
}

// Close stops the samples and stops following skin changes.
func (s *SkinnableSound) Close() {
	s.Stop()
	if s.unbindSource != nil {
		s.unbindSource()
		s.unbindSource = nil
	}
}
