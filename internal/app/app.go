// Package app wires configuration, the state database and the file store
// into the operations the command line exposes.
package app

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/llehouerou/rhythm/internal/config"
	"github.com/llehouerou/rhythm/internal/files"
	"github.com/llehouerou/rhythm/internal/importer"
	"github.com/llehouerou/rhythm/internal/sample"
	"github.com/llehouerou/rhythm/internal/skinning"
	"github.com/llehouerou/rhythm/internal/state"
)

// ErrAmbiguousSkin is returned when a skin reference matches several skins.
var ErrAmbiguousSkin = errors.New("skin reference is ambiguous")

// App holds the long-lived stores.
type App struct {
	Config *config.Config
	State  state.Interface
	Files  *files.Store
}

// Open opens the database and file store named by cfg and makes sure the
// built-in skins are recorded.
func Open(cfg *config.Config) (*App, error) {
	st, err := state.Open(cfg.Database.Path)
	if err != nil {
		return nil, errors.Wrap(err, "open state database")
	}
	fs, err := files.Open(cfg.Skin.FilesDir)
	if err != nil {
		st.Close()
		return nil, err
	}
	return New(cfg, st, fs)
}

// New builds an App over already opened stores.
func New(cfg *config.Config, st state.Interface, fs *files.Store) (*App, error) {
	if err := st.EnsureDefaults(); err != nil {
		st.Close()
		return nil, errors.Wrap(err, "record built-in skins")
	}
	return &App{Config: cfg, State: st, Files: fs}, nil
}

// Close flushes pending settings and closes the database.
func (a *App) Close() error {
	return a.State.Close()
}

// Importer returns an importer writing to the app's stores.
func (a *App) Importer() *importer.Importer {
	return importer.New(a.Files, a.State)
}

// SkinEntry is a listed skin with its on-disk size.
type SkinEntry struct {
	skinning.SkinInfo
	Size    int64
	Current bool
}

// ListSkins returns the installed skins, marking the selected one.
func (a *App) ListSkins() ([]SkinEntry, error) {
	skins, err := a.State.ListSkins()
	if err != nil {
		return nil, err
	}
	current := a.selectedSkinID()

	entries := make([]SkinEntry, 0, len(skins))
	for _, s := range skins {
		e := SkinEntry{SkinInfo: s, Current: s.ID == current}
		for _, f := range s.Files {
			if n, err := a.Files.Size(f.Hash); err == nil {
				e.Size += n
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Import imports dir as a new skin.
func (a *App) Import(ctx context.Context, p importer.Params) (*importer.Result, error) {
	return a.Importer().Import(ctx, p)
}

// ResolveSkin finds an installed skin by keyword ("default", "classic"),
// ID, ID prefix or case-insensitive name.
func (a *App) ResolveSkin(ref string) (*skinning.SkinInfo, error) {
	ref = strings.TrimSpace(ref)
	if id, err := config.ParseSkinRef(ref); err == nil && id != uuid.Nil && id != skinning.RandomSkinID {
		info, err := a.State.GetSkin(id)
		if err != nil {
			return nil, err
		}
		if info == nil {
			return nil, errors.Wrapf(skinning.ErrSkinNotFound, "%s", ref)
		}
		return info, nil
	}

	skins, err := a.State.ListSkins()
	if err != nil {
		return nil, err
	}
	var matches []skinning.SkinInfo
	for _, s := range skins {
		if strings.EqualFold(s.Name, ref) {
			return &s, nil
		}
		if ref != "" && strings.HasPrefix(s.ID.String(), strings.ToLower(ref)) {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 0:
		return nil, errors.Wrapf(skinning.ErrSkinNotFound, "%q", ref)
	case 1:
		return &matches[0], nil
	}
	return nil, errors.Wrapf(ErrAmbiguousSkin, "%q matches %d skins", ref, len(matches))
}

// SelectSkin records ref as the skin to start with. "random" is stored as
// such and resolved at every start.
func (a *App) SelectSkin(ref string) (uuid.UUID, error) {
	id := skinning.RandomSkinID
	if !strings.EqualFold(strings.TrimSpace(ref), "random") {
		info, err := a.ResolveSkin(ref)
		if err != nil {
			return uuid.Nil, err
		}
		id = info.ID
	}

	settings, err := a.State.GetSettings()
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "load settings")
	}
	settings.CurrentSkinID = id
	a.State.SaveSettings(*settings)
	return id, nil
}

// DeleteSkin marks a skin for deletion. Its files stay until Purge.
func (a *App) DeleteSkin(ref string) (*skinning.SkinInfo, error) {
	info, err := a.ResolveSkin(ref)
	if err != nil {
		return nil, err
	}
	if err := a.State.SoftDeleteSkin(info.ID); err != nil {
		return nil, err
	}
	if info.ID == a.selectedSkinID() {
		a.resetSelection()
	}
	return info, nil
}

// RestoreSkin brings back a skin marked for deletion. Only full IDs are
// accepted because deleted skins are not listed.
func (a *App) RestoreSkin(ref string) (*skinning.SkinInfo, error) {
	id, err := uuid.Parse(strings.TrimSpace(ref))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid skin id %q", ref)
	}
	info, err := a.State.GetSkin(id)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, errors.Wrapf(skinning.ErrSkinNotFound, "%s", id)
	}
	if err := a.State.RestoreSkin(id); err != nil {
		return nil, err
	}
	info.DeletePending = false
	return info, nil
}

// Purge removes skins marked for deletion and the files no remaining skin
// uses. It returns how many files were removed.
func (a *App) Purge() (int, error) {
	hashes, err := a.State.PurgeDeletedSkins()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, h := range hashes {
		if err := a.Files.Delete(h); err != nil {
			zlog.Warn().Err(err).Str("hash", h).Msg("delete skin file")
			continue
		}
		removed++
	}
	return removed, nil
}

// Skins creates the skin manager on channel and activates the configured
// skin, falling back to the saved one and then the default.
func (a *App) Skins(channel *sample.Channel) (*skinning.Manager, error) {
	mgr, err := skinning.NewManager(a.State, skinning.NewStoreResources(a.Files, channel))
	if err != nil {
		return nil, errors.Wrap(err, "create skin manager")
	}

	id := a.Config.Skin.CurrentSkinID()
	if id == uuid.Nil {
		id = a.selectedSkinID()
	}
	if id == uuid.Nil {
		return mgr, nil
	}
	if err := mgr.Select(id); err != nil {
		zlog.Warn().Err(err).Str("skin", id.String()).Msg("starting on the default skin")
	}
	return mgr, nil
}

// ApplyVolume sets channel volume from config and saved settings.
func (a *App) ApplyVolume(channel *sample.Channel) {
	settings, err := a.State.GetSettings()
	if err != nil {
		zlog.Warn().Err(err).Msg("load settings")
		channel.SetVolume(a.Config.Audio.Volume)
		return
	}
	channel.SetVolume(a.Config.Audio.Volume * settings.Volume)
	channel.SetMuted(settings.Muted)
}

func (a *App) selectedSkinID() uuid.UUID {
	settings, err := a.State.GetSettings()
	if err != nil {
		zlog.Warn().Err(err).Msg("load settings")
		return uuid.Nil
	}
	return settings.CurrentSkinID
}

func (a *App) resetSelection() {
	settings, err := a.State.GetSettings()
	if err != nil {
		return
	}
	settings.CurrentSkinID = uuid.Nil
	a.State.SaveSettings(*settings)
}
