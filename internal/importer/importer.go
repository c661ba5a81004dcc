// Package importer turns a directory of skin files into a stored skin:
// files go into the content-addressed store and a record into the database.
package importer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/llehouerou/rhythm/internal/files"
	"github.com/llehouerou/rhythm/internal/sample"
	"github.com/llehouerou/rhythm/internal/skinning"
)

// ErrNoFiles is returned when an import directory holds nothing to import.
var ErrNoFiles = errors.New("no files to import")

// Store is the part of the state database the importer writes to.
type Store interface {
	SaveSkin(info *skinning.SkinInfo) error
	GetSkinByHash(hash string) (*skinning.SkinInfo, error)
	RestoreSkin(id uuid.UUID) error
}

// Params describes one import. Name and Creator override skin.ini; when
// both are empty the directory name is used.
type Params struct {
	Dir     string
	Name    string
	Creator string
}

// Result describes what an import produced.
type Result struct {
	Skin     *skinning.SkinInfo
	Existing bool // an identical skin was already installed
	Files    int
	Samples  int // files with a supported audio extension
	Bytes    int64
}

type Importer struct {
	files *files.Store
	store Store
}

func New(fileStore *files.Store, store Store) *Importer {
	return &Importer{files: fileStore, store: store}
}

// Import copies p.Dir into the file store and records it as a legacy skin.
// Importing content identical to an installed skin returns that skin,
// restoring it if it was pending deletion. When the skin cannot be recorded
// the files this import added are removed again.
func (i *Importer) Import(ctx context.Context, p Params) (*Result, error) {
	fi, err := os.Stat(p.Dir)
	if err != nil {
		return nil, errors.Wrap(err, "source directory")
	}
	if !fi.IsDir() {
		return nil, errors.Newf("%s is not a directory", p.Dir)
	}

	entries, err := i.files.ImportDir(p.Dir)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errors.Wrapf(ErrNoFiles, "%s", p.Dir)
	}
	saved := false
	defer func() {
		if !saved {
			i.files.Discard(entries)
		}
	}()

	res := &Result{Files: len(entries)}
	named := make([]skinning.NamedFile, 0, len(entries))
	for _, e := range entries {
		named = append(named, skinning.NamedFile{Filename: e.Filename, Hash: e.Hash})
		res.Bytes += e.Size
		if sample.IsAudioFile(e.Filename) {
			res.Samples++
		}
	}
	hash := contentHash(named)

	var existing *skinning.SkinInfo
	err = retryWithBackoff(ctx, "find existing skin", func() error {
		var err error
		existing, err = i.store.GetSkinByHash(hash)
		return err
	})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.DeletePending {
			if err := retryWithBackoff(ctx, "restore skin", func() error {
				return i.store.RestoreSkin(existing.ID)
			}); err != nil {
				return nil, err
			}
			existing.DeletePending = false
		}
		zlog.Info().Str("skin", existing.String()).Msg("skin already installed")
		saved = true
		res.Skin = existing
		res.Existing = true
		return res, nil
	}

	meta := i.readMetadata(named)
	name, creator := p.Name, p.Creator
	if name == "" {
		name = meta.Name
	}
	if creator == "" {
		creator = meta.Author
	}
	if name == "" {
		name = filepath.Base(filepath.Clean(p.Dir))
	}

	info := skinning.NewSkinInfo(name, creator)
	info.Hash = hash
	info.Files = named

	if err := retryWithBackoff(ctx, "save skin", func() error {
		return i.store.SaveSkin(info)
	}); err != nil {
		return nil, err
	}
	saved = true

	zlog.Info().
		Str("skin", info.String()).
		Int("files", res.Files).
		Int("samples", res.Samples).
		Msg("skin imported")
	res.Skin = info
	return res, nil
}

func (i *Importer) readMetadata(named []skinning.NamedFile) skinMetadata {
	for _, f := range named {
		if !strings.EqualFold(f.Filename, skinIniName) {
			continue
		}
		rc, err := i.files.Open(f.Hash)
		if err != nil {
			zlog.Warn().Err(err).Msg("open skin.ini")
			return skinMetadata{}
		}
		defer rc.Close()
		meta, err := parseSkinIni(rc)
		if err != nil {
			zlog.Warn().Err(err).Msg("parse skin.ini")
		}
		return meta
	}
	return skinMetadata{}
}

// contentHash identifies a skin by its files: the same names with the same
// contents always hash the same. files must be sorted by filename.
func contentHash(files []skinning.NamedFile) string {
	h := sha256.New()
	for _, f := range files {
		h.Write([]byte(strings.ToLower(f.Filename)))
		h.Write([]byte{0})
		h.Write([]byte(f.Hash))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
