// Package files stores skin files by content hash.
package files

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

const (
	appName = "rhythm"
	dirName = "files"
)

// ErrFileNotFound is returned when a hash has no stored file.
var ErrFileNotFound = errors.New("file not found in store")

// Entry is a file found while importing a directory.
type Entry struct {
	Filename string // slash-separated, relative to the imported directory
	Hash     string
	Size     int64
	Added    bool // the content was not stored before
}

// Store keeps files under root at <h[0]>/<h[0:2]>/<h>.
type Store struct {
	root string
}

// Open returns a store rooted at root, or at the xdg data directory when
// root is empty.
func Open(root string) (*Store, error) {
	if root == "" {
		dataDir, err := xdg.DataFile(filepath.Join(appName, dirName, ".keep"))
		if err != nil {
			return nil, errors.Wrap(err, "resolve files dir")
		}
		root = filepath.Dir(dataDir)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrap(err, "create files dir")
	}
	return &Store{root: root}, nil
}

// Root returns the store's directory.
func (s *Store) Root() string { return s.root }

// Path returns where the file with hash lives.
func (s *Store) Path(hash string) string {
	if len(hash) < 2 {
		return filepath.Join(s.root, hash)
	}
	return filepath.Join(s.root, hash[:1], hash[:2], hash)
}

// Add copies r into the store and returns its hash. Adding content that is
// already stored is a no-op.
func (s *Store) Add(r io.Reader) (string, int64, error) {
	hash, n, _, err := s.add(r)
	return hash, n, err
}

func (s *Store) add(r io.Reader) (hash string, n int64, added bool, err error) {
	tmp, err := os.CreateTemp(s.root, "import-*")
	if err != nil {
		return "", 0, false, errors.Wrap(err, "create temp file")
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // best-effort cleanup

	h := sha256.New()
	n, err = io.Copy(io.MultiWriter(tmp, h), r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", 0, false, errors.Wrap(err, "copy into store")
	}

	hash = hex.EncodeToString(h.Sum(nil))
	if s.Exists(hash) {
		return hash, n, false, nil
	}

	dest := s.Path(hash)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", 0, false, errors.Wrap(err, "create hash dir")
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", 0, false, errors.Wrapf(err, "store %s", hash)
	}
	return hash, n, true, nil
}

// Exists reports whether a file with hash is stored.
func (s *Store) Exists(hash string) bool {
	_, err := os.Stat(s.Path(hash))
	return err == nil
}

// Open returns the stored file with hash.
func (s *Store) Open(hash string) (io.ReadCloser, error) {
	f, err := os.Open(s.Path(hash))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrapf(ErrFileNotFound, "%s", hash)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", hash)
	}
	return f, nil
}

// Size returns the stored size of hash.
func (s *Store) Size(hash string) (int64, error) {
	fi, err := os.Stat(s.Path(hash))
	if err != nil {
		return 0, errors.Wrapf(err, "stat %s", hash)
	}
	return fi.Size(), nil
}

// Delete removes the stored file with hash. Deleting a missing file is not an error.
func (s *Store) Delete(hash string) error {
	err := os.Remove(s.Path(hash))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Wrapf(err, "delete %s", hash)
	}
	return nil
}

// ImportDir adds every regular file under dir, skipping hidden files, and
// returns them sorted by filename. On error the files it added are removed.
func (s *Store) ImportDir(dir string) ([]Entry, error) {
	var entries []Entry
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && path != dir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		hash, size, added, err := s.add(f)
		f.Close()
		if err != nil {
			return err
		}

		entries = append(entries, Entry{Filename: filepath.ToSlash(rel), Hash: hash, Size: size, Added: added})
		return nil
	})
	if err != nil {
		s.Discard(entries)
		return nil, errors.Wrapf(err, "import %s", dir)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Filename < entries[j].Filename })
	return entries, nil
}

// Discard deletes the files an import added. Files that were already
// stored are left alone.
func (s *Store) Discard(entries []Entry) {
	for _, e := range entries {
		if !e.Added {
			continue
		}
		if err := s.Delete(e.Hash); err != nil {
			zlog.Warn().Err(err).Str("hash", e.Hash).Msg("discard imported file")
		}
	}
}
