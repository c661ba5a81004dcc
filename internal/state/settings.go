package state

import (
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	dbutil "github.com/llehouerou/rhythm/internal/db"
)

// Settings is the saved user selection: current skin and master volume.
type Settings struct {
	CurrentSkinID uuid.UUID // uuid.Nil when nothing was ever selected
	Volume        float64
	Muted         bool
}

// DefaultSettings is what a fresh database reports.
func DefaultSettings() Settings {
	return Settings{Volume: 1.0}
}

func getSettings(db *sql.DB) (*Settings, error) {
	var skinID sql.NullString
	var volume float64
	var muted bool

	row := db.QueryRow(`SELECT current_skin_id, volume, muted FROM settings_state WHERE id = 1`)
	err := row.Scan(&skinID, &volume, &muted)
	if errors.Is(err, sql.ErrNoRows) {
		s := DefaultSettings()
		return &s, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "load settings")
	}

	s := Settings{Volume: volume, Muted: muted}
	if id := dbutil.NullStringValue(skinID); id != "" {
		// An unparsable ID is treated as no selection.
		s.CurrentSkinID, _ = uuid.Parse(id)
	}
	return &s, nil
}

func saveSettings(db *sql.DB, s Settings) error {
	var skinID string
	if s.CurrentSkinID != uuid.Nil {
		skinID = s.CurrentSkinID.String()
	}

	_, err := db.Exec(`
		INSERT INTO settings_state (id, current_skin_id, volume, muted)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			current_skin_id = excluded.current_skin_id,
			volume = excluded.volume,
			muted = excluded.muted
	`, dbutil.NullString(skinID), s.Volume, s.Muted)
	return errors.Wrap(err, "save settings")
}
