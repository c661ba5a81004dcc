// Package logger configures the global zerolog logger.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

const defaultLogFile = "rhythm/rhythm.log"

// Config represents logger configuration.
type Config struct {
	Output string // "stdout", "stderr", or "file"
	Level  string // "trace", "debug", "info", "warn", "error"
	File   string // log file path when Output is "file"; defaults to the xdg state dir
}

// Console reports whether cfg writes to a terminal stream.
func (c Config) Console() bool {
	switch strings.ToLower(c.Output) {
	case "stdout", "stderr", "":
		return true
	}
	return false
}

// Init initializes the global zerolog logger with the given configuration.
// The returned closer releases the log file, if any.
func Init(cfg Config) (io.Closer, error) {
	level := parseLevel(cfg.Level)

	var writer io.Writer
	var closer io.Closer = nopCloser{}
	switch strings.ToLower(cfg.Output) {
	case "stdout":
		writer = os.Stdout
	case "stderr", "":
		writer = os.Stderr
	default:
		path := cfg.File
		if path == "" {
			var err error
			path, err = xdg.StateFile(defaultLogFile)
			if err != nil {
				return nil, errors.Wrap(err, "resolve log file")
			}
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(err, "create log dir")
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, errors.Wrapf(err, "open log file %s", path)
		}
		writer = f
		closer = f
	}

	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.TimeOnly
	zerolog.TimestampFieldName = "time"
	zerolog.LevelFieldName = "level"
	zerolog.MessageFieldName = "message"

	zerolog.CallerMarshalFunc = func(_ uintptr, file string, line int) string {
		parts := strings.Split(file, string(filepath.Separator))
		if len(parts) > 1 {
			return filepath.Join(parts[len(parts)-2:]...) + ":" + strconv.Itoa(line)
		}
		return filepath.Base(file) + ":" + strconv.Itoa(line)
	}

	logger := newLogger(writer, level, cfg.Console())
	zerolog.DefaultContextLogger = &logger
	zlog.Logger = logger

	return closer, nil
}

// newLogger uses a colored console writer for terminals and JSON otherwise.
// Caller info is added at debug and below.
func newLogger(w io.Writer, level zerolog.Level, console bool) zerolog.Logger {
	verbose := level <= zerolog.DebugLevel

	if !console {
		ctx := zerolog.New(w).With().Timestamp()
		if verbose {
			return ctx.Caller().Logger()
		}
		return ctx.Logger()
	}

	if verbose {
		return zerolog.New(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.TimeOnly,
			PartsOrder: []string{"time", "level", "message", "caller"},
			FormatCaller: func(i any) string {
				s, _ := i.(string)
				return "(" + s + ")"
			},
		}).With().Timestamp().Caller().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.TimeOnly,
	}).With().Timestamp().Logger()
}

// parseLevel parses the log level string.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "off", "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
