package skinning

import (
	"io"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/llehouerou/rhythm/internal/sample"
)

// Skin is a runtime skin instance.
type Skin interface {
	Info() *SkinInfo
	GetSample(info SampleInfo) sample.Interface
}

// Resources gives skins access to stored files and the audio channel.
type Resources interface {
	Open(hash string) (io.ReadCloser, error)
	Channel() *sample.Channel
}

// tone describes a synthesised built-in sample.
type tone struct {
	freq   float64
	length time.Duration
}

// skin backs every Kind. Which sources it reads from is decided by the
// kind's constructor.
type skin struct {
	info      *SkinInfo
	resources Resources

	useFiles bool
	builtin  map[string]tone

	// cache holds one decoded prototype per lookup name; nil marks a miss.
	cache map[string]*sample.Sample
}

func newDefaultSkin(info *SkinInfo, resources Resources) Skin {
	return &skin{
		info:      info,
		resources: resources,
		builtin:   defaultTones,
		cache:     make(map[string]*sample.Sample),
	}
}

func newClassicSkin(info *SkinInfo, resources Resources) Skin {
	return &skin{
		info:      info,
		resources: resources,
		useFiles:  true,
		builtin:   classicTones,
		cache:     make(map[string]*sample.Sample),
	}
}

func newLegacySkin(info *SkinInfo, resources Resources) Skin {
	return &skin{
		info:      info,
		resources: resources,
		useFiles:  true,
		cache:     make(map[string]*sample.Sample),
	}
}

func (s *skin) Info() *SkinInfo { return s.info }

// GetSample returns a fresh sample for the first lookup name the skin has,
// or nil.
func (s *skin) GetSample(info SampleInfo) sample.Interface {
	for _, name := range info.LookupNames() {
		if proto := s.lookup(trimLookupName(name)); proto != nil {
			return proto.Clone()
		}
	}
	return nil
}

func (s *skin) lookup(name string) *sample.Sample {
	if proto, ok := s.cache[name]; ok {
		return proto
	}

	var proto *sample.Sample
	if s.useFiles {
		proto = s.loadFile(name)
	}
	if proto == nil {
		proto = s.synthesise(name)
	}

	s.cache[name] = proto
	return proto
}

func (s *skin) loadFile(name string) *sample.Sample {
	for _, ext := range sample.Extensions {
		filename := name + ext
		hash, ok := s.info.File(filename)
		if !ok {
			continue
		}

		rc, err := s.resources.Open(hash)
		if err != nil {
			zlog.Warn().Err(err).Str("skin", s.info.String()).Str("file", filename).Msg("skin file missing from store")
			continue
		}
		smp, err := sample.Load(s.resources.Channel(), filename, rc)
		if err != nil {
			zlog.Warn().Err(err).Str("skin", s.info.String()).Str("file", filename).Msg("skin sample unreadable")
			continue
		}
		return smp
	}
	return nil
}

func (s *skin) synthesise(name string) *sample.Sample {
	t, ok := s.builtin[name]
	if !ok {
		return nil
	}
	smp, err := sample.Tone(s.resources.Channel(), name, t.freq, t.length)
	if err != nil {
		zlog.Warn().Err(err).Str("sample", name).Msg("built-in sample")
		return nil
	}
	return smp
}

var (
	defaultTones = buildTones(1.0, map[string]tone{
		"pause-loop":  {freq: 220, length: 2 * time.Second},
		"spinnerspin": {freq: 330, length: time.Second},
		"failsound":   {freq: 110, length: time.Second},
		"applause":    {freq: 523.25, length: 1500 * time.Millisecond},
	})
	classicTones = buildTones(0.75, map[string]tone{
		"pause-loop":  {freq: 196, length: 2 * time.Second},
		"spinnerspin": {freq: 247.5, length: time.Second},
		"failsound":   {freq: 98, length: time.Second},
	})
)

// buildTones derives a hit sample for every bank from a base pitch, scaled
// by pitch, plus the given extra samples.
func buildTones(pitch float64, extra map[string]tone) map[string]tone {
	hits := map[string]tone{
		HitNormal:  {freq: 880, length: 80 * time.Millisecond},
		HitWhistle: {freq: 1320, length: 150 * time.Millisecond},
		HitFinish:  {freq: 660, length: 400 * time.Millisecond},
		HitClap:    {freq: 1760, length: 60 * time.Millisecond},
	}
	banks := map[string]float64{
		BankNormal: 1,
		BankSoft:   0.5,
		BankDrum:   0.25,
	}

	tones := make(map[string]tone, len(hits)*len(banks)+len(extra))
	for bank, bankPitch := range banks {
		for name, t := range hits {
			tones[bank+"-"+name] = tone{freq: t.freq * bankPitch * pitch, length: t.length}
		}
	}
	for name, t := range extra {
		tones[name] = t
	}
	return tones
}
