package sample

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
	zlog "github.com/rs/zerolog/log"
)

// resampleQuality is passed to beep.Resample when a file's rate differs
// from the channel's.
const resampleQuality = 4

// ErrUnsupportedFormat is returned by Decode for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Extensions lists the file extensions Decode understands, in lookup order.
var Extensions = []string{".wav", ".ogg", ".mp3", ".flac"}

// IsAudioFile reports whether name has a decodable extension.
func IsAudioFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Decode picks a decoder from name's extension.
func Decode(name string, rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".wav":
		return wav.Decode(rc)
	case ".mp3":
		return mp3.Decode(rc)
	case ".flac":
		return flac.Decode(rc)
	case ".ogg":
		return vorbis.Decode(rc)
	default:
		return nil, beep.Format{}, errors.Wrap(ErrUnsupportedFormat, ext)
	}
}

// Load decodes rc fully into memory in the channel's format. rc is closed.
func Load(channel *Channel, name string, rc io.ReadCloser) (*Sample, error) {
	streamer, format, err := Decode(name, rc)
	if err != nil {
		rc.Close()
		return nil, errors.Wrapf(err, "decode %s", name)
	}
	defer streamer.Close()

	buffer := beep.NewBuffer(channel.format)
	if format.SampleRate != channel.format.SampleRate {
		buffer.Append(beep.Resample(resampleQuality, format.SampleRate, channel.format.SampleRate, streamer))
	} else {
		buffer.Append(streamer)
	}
	if err := streamer.Err(); err != nil {
		return nil, errors.Wrapf(err, "read %s", name)
	}

	zlog.Debug().
		Str("sample", name).
		Dur("length", channel.format.SampleRate.D(buffer.Len())).
		Msg("sample loaded")

	return New(name, buffer, channel), nil
}

// Tone synthesises a sine tone sample, used for built-in skins.
func Tone(channel *Channel, name string, freq float64, length time.Duration) (*Sample, error) {
	sr := channel.format.SampleRate
	tone, err := generators.SineTone(sr, freq)
	if err != nil {
		return nil, errors.Wrapf(err, "tone %s", name)
	}
	buffer := beep.NewBuffer(channel.format)
	buffer.Append(beep.Take(sr.N(length), tone))
	return New(name, buffer, channel), nil
}
