package skinning

import "strings"

// Bank names.
const (
	BankNormal = "normal"
	BankSoft   = "soft"
	BankDrum   = "drum"
)

// Hit sample names.
const (
	HitNormal  = "hitnormal"
	HitWhistle = "hitwhistle"
	HitFinish  = "hitfinish"
	HitClap    = "hitclap"
)

// gameplayPrefix namespaces samples that belong to the gameplay screen.
const gameplayPrefix = "Gameplay/"

// SampleInfo describes a sample to look up in a skin.
type SampleInfo struct {
	Name   string // e.g. "hitclap"
	Bank   string // e.g. "soft"; empty for non-hit samples
	Suffix string // custom sample set suffix, e.g. "2"
	Volume int    // 0-100
}

// NewSampleInfo returns a full-volume sample in bank.
func NewSampleInfo(name, bank string) SampleInfo {
	return SampleInfo{Name: name, Bank: bank, Volume: 100}
}

// LookupNames returns the names to try in a skin, most specific first.
func (i SampleInfo) LookupNames() []string {
	base := i.Name
	if i.Bank != "" {
		base = i.Bank + "-" + i.Name
	}

	names := make([]string, 0, 3)
	if i.Suffix != "" {
		names = append(names, gameplayPrefix+base+i.Suffix)
	}
	names = append(names, gameplayPrefix+base, base)
	return names
}

// VolumeLevel returns the volume as a 0.0-1.0 level.
func (i SampleInfo) VolumeLevel() float64 {
	switch {
	case i.Volume <= 0:
		return 0
	case i.Volume >= 100:
		return 1
	default:
		return float64(i.Volume) / 100
	}
}

// trimLookupName drops the gameplay namespace for skins with a flat layout.
func trimLookupName(name string) string {
	return strings.TrimPrefix(name, gameplayPrefix)
}

// ParseSampleName reads a skin file name such as "soft-hitclap" or
// "spinnerspin" back into a SampleInfo. Extensions and the gameplay
// namespace are ignored.
func ParseSampleName(name string) SampleInfo {
	name = trimLookupName(strings.TrimSpace(name))
	if ext := strings.LastIndexByte(name, '.'); ext > 0 {
		name = name[:ext]
	}
	if bank, rest, ok := strings.Cut(name, "-"); ok {
		switch strings.ToLower(bank) {
		case BankNormal, BankSoft, BankDrum:
			return NewSampleInfo(rest, strings.ToLower(bank))
		}
	}
	return NewSampleInfo(name, "")
}
