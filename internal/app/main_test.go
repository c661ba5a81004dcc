package app

import (
	"testing"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

func TestMain(m *testing.M) {
	zlog.Logger = zerolog.Nop()
	m.Run()
}
