// Command skinimport imports every skin directory found under a root
// directory, skipping skins that are already installed.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	zlog "github.com/rs/zerolog/log"

	"github.com/llehouerou/rhythm/internal/app"
	"github.com/llehouerou/rhythm/internal/config"
	"github.com/llehouerou/rhythm/internal/errmsg"
	"github.com/llehouerou/rhythm/internal/importer"
	"github.com/llehouerou/rhythm/internal/logger"
)

var (
	cli      = kingpin.New("skinimport", "Import all skins below a directory")
	root     = cli.Arg("root", "Directory holding one skin per subdirectory").Required().ExistingDir()
	creator  = cli.Flag("creator", "Creator to record when skin.ini has none").String()
	logLevel = cli.Flag("log-level", "Log level").Default("info").String()
)

func main() {
	kingpin.MustParse(cli.Parse(os.Args[1:]))

	closer, err := logger.Init(logger.Config{Output: "stderr", Level: *logLevel})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	defer closer.Close()

	if err := run(); err != nil {
		zlog.Error().Msg(err.Error())
		closer.Close()
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	a, err := app.Open(cfg)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	defer a.Close()

	dirs, err := skinDirs(*root)
	if err != nil {
		return err
	}
	zlog.Info().Int("count", len(dirs)).Str("root", *root).Msg("importing skins")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var imported, existing, failed int
	var bytes int64
	for _, dir := range dirs {
		if ctx.Err() != nil {
			break
		}
		res, err := a.Import(ctx, importer.Params{Dir: dir, Creator: *creator})
		if err != nil {
			failed++
			zlog.Warn().Msg(errmsg.FormatWith(errmsg.OpSkinImport, dir, err))
			continue
		}
		if res.Existing {
			existing++
			zlog.Debug().Str("skin", res.Skin.String()).Msg("already installed")
			continue
		}
		imported++
		bytes += res.Bytes
		zlog.Info().
			Str("skin", res.Skin.String()).
			Int("samples", res.Samples).
			Str("size", humanize.Bytes(uint64(res.Bytes))).
			Msg("imported")
	}

	zlog.Info().
		Int("imported", imported).
		Int("existing", existing).
		Int("failed", failed).
		Str("size", humanize.Bytes(uint64(bytes))).
		Msg("done")
	return ctx.Err()
}

func skinDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", root)
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, filepath.Join(root, e.Name()))
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}
