package state

import (
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	dbutil "github.com/llehouerou/rhythm/internal/db"
	"github.com/llehouerou/rhythm/internal/skinning"
)

// ErrProtectedSkin is returned when trying to delete a built-in skin.
var ErrProtectedSkin = errors.New("built-in skins cannot be deleted")

const skinColumns = `id, name, creator, hash, instantiation_info, delete_pending`

// SaveSkin inserts or replaces a skin record together with its file list.
func (m *Manager) SaveSkin(info *skinning.SkinInfo) error {
	return errors.Wrapf(saveSkin(m.db, info), "save skin %s", info.ID)
}

// GetSkin returns the record with id, including soft-deleted ones, or nil
// if there is none.
func (m *Manager) GetSkin(id uuid.UUID) (*skinning.SkinInfo, error) {
	info, err := getSkin(m.db, `WHERE id = ?`, id.String())
	return info, errors.Wrapf(err, "get skin %s", id)
}

// GetSkinByHash returns the record whose content hash is hash, or nil.
func (m *Manager) GetSkinByHash(hash string) (*skinning.SkinInfo, error) {
	info, err := getSkin(m.db, `WHERE hash = ? ORDER BY added_at LIMIT 1`, hash)
	return info, errors.Wrapf(err, "get skin by hash %s", hash)
}

// ListSkins returns every skin not pending deletion, ordered by name.
func (m *Manager) ListSkins() ([]skinning.SkinInfo, error) {
	skins, err := listSkins(m.db)
	return skins, errors.Wrap(err, "list skins")
}

// SoftDeleteSkin marks a skin for deletion. Its files stay in place until
// PurgeDeletedSkins runs.
func (m *Manager) SoftDeleteSkin(id uuid.UUID) error {
	if id == skinning.DefaultSkinID || id == skinning.ClassicSkinID {
		return ErrProtectedSkin
	}
	_, err := m.db.Exec(`
		UPDATE skins SET delete_pending = 1, updated_at = ? WHERE id = ?
	`, time.Now().Unix(), id.String())
	return errors.Wrapf(err, "soft delete skin %s", id)
}

// RestoreSkin clears a pending deletion.
func (m *Manager) RestoreSkin(id uuid.UUID) error {
	_, err := m.db.Exec(`
		UPDATE skins SET delete_pending = 0, updated_at = ? WHERE id = ?
	`, time.Now().Unix(), id.String())
	return errors.Wrapf(err, "restore skin %s", id)
}

// PurgeDeletedSkins removes every soft-deleted skin and returns the file
// hashes no remaining skin references, so the caller can drop them from
// the file store.
func (m *Manager) PurgeDeletedSkins() ([]string, error) {
	var orphans []string
	err := dbutil.WithTx(m.db, func(tx *sql.Tx) error {
		rows, err := tx.Query(`
			SELECT DISTINCT f.hash FROM skin_files f
			JOIN skins s ON s.id = f.skin_id
			WHERE s.delete_pending = 1
		`)
		if err != nil {
			return err
		}
		candidates, err := scanStrings(rows)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(`
			DELETE FROM skin_files WHERE skin_id IN (SELECT id FROM skins WHERE delete_pending = 1)
		`); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM skins WHERE delete_pending = 1`); err != nil {
			return err
		}

		for _, hash := range candidates {
			var n int
			if err := tx.QueryRow(`SELECT COUNT(*) FROM skin_files WHERE hash = ?`, hash).Scan(&n); err != nil {
				return err
			}
			if n == 0 {
				orphans = append(orphans, hash)
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "purge deleted skins")
	}
	return orphans, nil
}

// EnsureDefaults makes sure the built-in skins have records.
func (m *Manager) EnsureDefaults() error {
	err := dbutil.WithTx(m.db, func(tx *sql.Tx) error {
		now := time.Now().Unix()
		for _, info := range []*skinning.SkinInfo{skinning.DefaultSkinInfo(), skinning.ClassicSkinInfo()} {
			_, err := tx.Exec(`
				INSERT OR IGNORE INTO skins (id, name, creator, hash, instantiation_info, delete_pending, added_at, updated_at)
				VALUES (?, ?, ?, '', ?, 0, ?, ?)
			`, info.ID.String(), info.Name, info.Creator, string(info.Kind), now, now)
			if err != nil {
				return err
			}
		}
		return nil
	})
	return errors.Wrap(err, "record built-in skins")
}

func saveSkin(db *sql.DB, info *skinning.SkinInfo) error {
	return dbutil.WithTx(db, func(tx *sql.Tx) error {
		now := time.Now().Unix()
		_, err := tx.Exec(`
			INSERT INTO skins (id, name, creator, hash, instantiation_info, delete_pending, added_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				creator = excluded.creator,
				hash = excluded.hash,
				instantiation_info = excluded.instantiation_info,
				delete_pending = excluded.delete_pending,
				updated_at = excluded.updated_at
		`, info.ID.String(), info.Name, info.Creator, info.Hash, string(info.Kind), info.DeletePending, now, now)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(`DELETE FROM skin_files WHERE skin_id = ?`, info.ID.String()); err != nil {
			return err
		}

		stmt, err := tx.Prepare(`INSERT INTO skin_files (skin_id, filename, hash) VALUES (?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, f := range info.Files {
			if _, err := stmt.Exec(info.ID.String(), f.Filename, f.Hash); err != nil {
				return err
			}
		}
		return nil
	})
}

func getSkin(db *sql.DB, where string, args ...any) (*skinning.SkinInfo, error) {
	row := db.QueryRow(`SELECT `+skinColumns+` FROM skins `+where, args...)
	info, err := scanSkin(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // nil means no skin saved
	}
	if err != nil {
		return nil, err
	}

	files, err := getSkinFiles(db, info.ID)
	if err != nil {
		return nil, err
	}
	info.Files = files
	return info, nil
}

func listSkins(db *sql.DB) ([]skinning.SkinInfo, error) {
	rows, err := db.Query(`
		SELECT ` + skinColumns + ` FROM skins
		WHERE delete_pending = 0
		ORDER BY name COLLATE NOCASE, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var skins []skinning.SkinInfo
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		info, err := scanSkin(rows)
		if err != nil {
			return nil, err
		}
		index[info.ID] = len(skins)
		skins = append(skins, *info)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	fileRows, err := db.Query(`
		SELECT f.skin_id, f.filename, f.hash FROM skin_files f
		JOIN skins s ON s.id = f.skin_id
		WHERE s.delete_pending = 0
		ORDER BY f.filename
	`)
	if err != nil {
		return nil, err
	}
	defer fileRows.Close()

	for fileRows.Next() {
		var skinID string
		var f skinning.NamedFile
		if err := fileRows.Scan(&skinID, &f.Filename, &f.Hash); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(skinID)
		if err != nil {
			continue
		}
		if i, ok := index[id]; ok {
			skins[i].Files = append(skins[i].Files, f)
		}
	}
	return skins, fileRows.Err()
}

func getSkinFiles(db *sql.DB, id uuid.UUID) ([]skinning.NamedFile, error) {
	rows, err := db.Query(`
		SELECT filename, hash FROM skin_files WHERE skin_id = ? ORDER BY filename
	`, id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []skinning.NamedFile
	for rows.Next() {
		var f skinning.NamedFile
		if err := rows.Scan(&f.Filename, &f.Hash); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSkin(s scanner) (*skinning.SkinInfo, error) {
	var (
		id      string
		kind    sql.NullString
		info    skinning.SkinInfo
		pending bool
	)
	if err := s.Scan(&id, &info.Name, &info.Creator, &info.Hash, &kind, &pending); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	info.ID = parsed
	info.Kind = skinning.Kind(dbutil.NullStringValue(kind))
	info.DeletePending = pending
	return &info, nil
}

func scanStrings(rows *sql.Rows) ([]string, error) {
	defer rows.Close()
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
