// Package main provides the rhythm command line.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kingpin/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/gopxl/beep/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/llehouerou/rhythm/internal/app"
	"github.com/llehouerou/rhythm/internal/config"
	"github.com/llehouerou/rhythm/internal/errmsg"
	"github.com/llehouerou/rhythm/internal/gameplay"
	"github.com/llehouerou/rhythm/internal/importer"
	"github.com/llehouerou/rhythm/internal/logger"
	"github.com/llehouerou/rhythm/internal/preview"
	"github.com/llehouerou/rhythm/internal/sample"
	"github.com/llehouerou/rhythm/internal/scheduler"
	"github.com/llehouerou/rhythm/internal/skinning"
	"github.com/llehouerou/rhythm/internal/stderr"
)

var (
	cli        = kingpin.New("rhythm", "Skin manager and gameplay sound preview")
	configFile = cli.Flag("config", "Config file (default: ~/.config/rhythm/config.toml, ./config.toml)").Short('c').String()
	logLevel   = cli.Flag("log-level", "Log level override").Envar("RHYTHM_LOG_LEVEL").String()

	skinsCmd = cli.Command("skins", "Manage installed skins")

	listCmd = skinsCmd.Command("list", "List installed skins").Default().Alias("ls")

	importCmd     = skinsCmd.Command("import", "Import a skin directory")
	importDir     = importCmd.Arg("dir", "Skin directory").Required().ExistingDir()
	importName    = importCmd.Flag("name", "Skin name (default: skin.ini, then the directory name)").String()
	importCreator = importCmd.Flag("creator", "Skin creator (default: skin.ini)").String()

	deleteCmd = skinsCmd.Command("delete", "Mark a skin for deletion").Alias("rm")
	deleteRef = deleteCmd.Arg("skin", "Skin name, ID or ID prefix").Required().String()

	restoreCmd = skinsCmd.Command("restore", "Restore a skin marked for deletion")
	restoreID  = restoreCmd.Arg("id", "Skin ID").Required().String()

	purgeCmd = skinsCmd.Command("purge", "Remove deleted skins and their unused files")

	selectCmd = skinsCmd.Command("select", "Choose the skin to start with")
	selectRef = selectCmd.Arg("skin", "Skin name, ID, ID prefix, default, classic or random").Required().String()

	previewCmd  = cli.Command("preview", "Open the gameplay preview screen")
	previewSkin = previewCmd.Flag("skin", "Skin to start with").String()

	playCmd     = cli.Command("play", "Play skin samples without the preview screen")
	playSamples = playCmd.Arg("sample", "Sample names, e.g. soft-hitclap").Default("normal-hitnormal").Strings()
	playSkin    = playCmd.Flag("skin", "Skin to play from").String()
	playLoop    = playCmd.Flag("loop", "Loop until interrupted or --for elapses").Bool()
	playFor     = playCmd.Flag("for", "Stop after this long").Default("10s").Duration()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(cli.Parse(os.Args[1:]))

	if err := run(command); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(command string) error {
	cfg, err := loadConfig()
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	logCfg := logger.Config{Output: cfg.Log.Output, Level: cfg.Log.Level, File: cfg.Log.File}
	if command == previewCmd.FullCommand() && logCfg.Console() {
		// the screen owns the terminal
		logCfg.Output = "file"
	}
	logCloser, err := logger.Init(logCfg)
	if err != nil {
		return errors.Wrap(err, "init logger")
	}
	defer logCloser.Close()

	a, err := app.Open(cfg)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	defer func() {
		if err := a.Close(); err != nil {
			zlog.Error().Err(err).Msg("close state")
		}
	}()

	switch command {
	case listCmd.FullCommand():
		return listSkins(a)
	case importCmd.FullCommand():
		return importSkin(a)
	case deleteCmd.FullCommand():
		info, err := a.DeleteSkin(*deleteRef)
		if err != nil {
			return errors.New(errmsg.FormatWith(errmsg.OpSkinDelete, *deleteRef, err))
		}
		fmt.Printf("Marked %s for deletion (restore with: rhythm skins restore %s)\n", info, info.ID)
	case restoreCmd.FullCommand():
		info, err := a.RestoreSkin(*restoreID)
		if err != nil {
			return errors.New(errmsg.FormatWith(errmsg.OpSkinRestore, *restoreID, err))
		}
		fmt.Printf("Restored %s\n", info)
	case purgeCmd.FullCommand():
		removed, err := a.Purge()
		if err != nil {
			return errors.New(errmsg.Format(errmsg.OpSkinPurge, err))
		}
		fmt.Printf("Removed %d unused files\n", removed)
	case selectCmd.FullCommand():
		id, err := a.SelectSkin(*selectRef)
		if err != nil {
			return errors.New(errmsg.FormatWith(errmsg.OpSkinSelect, *selectRef, err))
		}
		fmt.Printf("Selected %s\n", id)
	case previewCmd.FullCommand():
		return runPreview(a)
	case playCmd.FullCommand():
		return runPlay(a)
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if *configFile != "" {
		cfg, err = config.LoadFrom(*configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	return cfg, nil
}

func listSkins(a *app.App) error {
	entries, err := a.ListSkins()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpSkinList, err))
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\tID\tNAME\tCREATOR\tKIND\tFILES\tSIZE")
	for _, e := range entries {
		mark := ""
		if e.Current {
			mark = "*"
		}
		size := "-"
		if e.Size > 0 {
			size = humanize.Bytes(uint64(e.Size))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			mark, e.ID.String()[:8], e.Name, e.Creator, e.Kind, len(e.Files), size)
	}
	return w.Flush()
}

func importSkin(a *app.App) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := a.Import(ctx, importer.Params{Dir: *importDir, Name: *importName, Creator: *importCreator})
	if err != nil {
		return errors.New(errmsg.FormatWith(errmsg.OpSkinImport, *importDir, err))
	}
	if res.Existing {
		fmt.Printf("Already installed: %s (%s)\n", res.Skin, res.Skin.ID)
		return nil
	}
	fmt.Printf("Imported %s (%s): %d files, %d samples, %s\n",
		res.Skin, res.Skin.ID, res.Files, res.Samples, humanize.Bytes(uint64(res.Bytes)))
	return nil
}

func openAudio(a *app.App) (*sample.Channel, error) {
	format := beep.Format{
		SampleRate:  beep.SampleRate(a.Config.Audio.SampleRate),
		NumChannels: 2,
		Precision:   2,
	}
	channel, err := sample.OpenSpeaker(format, a.Config.Audio.BufferDuration())
	if err != nil {
		return nil, errors.New(errmsg.Format(errmsg.OpAudioInit, err))
	}
	a.ApplyVolume(channel)
	return channel, nil
}

func runPreview(a *app.App) error {
	if *previewSkin != "" {
		a.Config.Skin.Current = *previewSkin
	}

	// Capture before the audio device opens; ALSA complains on fd 2.
	var lines <-chan string
	capture, err := stderr.Start()
	if err != nil {
		zlog.Warn().Err(err).Msg("stderr capture unavailable")
	} else {
		defer capture.Stop()
		lines = capture.Lines()
	}

	channel, err := openAudio(a)
	if err != nil {
		return err
	}
	defer channel.Close()

	skins, err := a.Skins(channel)
	if err != nil {
		return err
	}

	gp := a.Config.Gameplay
	player := gameplay.NewPlayer(
		scheduler.New(),
		gameplay.NewBackgroundDim(gp.DimLevel, gp.FadeDuration()),
	)

	m := preview.New(preview.Deps{
		Player:   player,
		Skins:    skins,
		Store:    a.State,
		Importer: a.Importer(),
		TickRate: gp.TickRate,
		Stderr:   lines,
	})
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return errors.Wrap(err, "preview")
	}
	return nil
}

func runPlay(a *app.App) error {
	if *playSkin != "" {
		a.Config.Skin.Current = *playSkin
	}

	channel, err := openAudio(a)
	if err != nil {
		return err
	}
	defer channel.Close()

	skins, err := a.Skins(channel)
	if err != nil {
		return err
	}

	infos := make([]skinning.SampleInfo, 0, len(*playSamples))
	for _, name := range *playSamples {
		infos = append(infos, skinning.ParseSampleName(name))
	}
	sound := skinning.NewSkinnableSound(skins, infos...)
	defer sound.Close()
	if sound.Resolved() == 0 {
		return errors.Newf("no sample found for %v in %s", *playSamples, skins.Current().Info())
	}
	sound.SetLooping(*playLoop)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *playFor)
	defer cancel()

	fmt.Printf("Playing %d sample(s) from %s\n", sound.Resolved(), skins.Current().Info())
	sched := scheduler.New()
	sched.Schedule(sound.Play)

	started := time.Now()
	err = scheduler.Run(ctx, sched, a.Config.Gameplay.TickRate, func(time.Duration) {
		if !sound.Looping() && sched.Pending() == 0 && !sound.IsPlaying() {
			cancel()
		}
	})
	zlog.Debug().Dur("elapsed", time.Since(started)).Msg("playback finished")
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
