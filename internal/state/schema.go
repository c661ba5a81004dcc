package state

import (
	"database/sql"
)

const currentSchemaVersion = 2

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS skins (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			creator TEXT NOT NULL DEFAULT '',
			hash TEXT NOT NULL DEFAULT '',
			delete_pending INTEGER NOT NULL DEFAULT 0,
			added_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_skins_name ON skins(name COLLATE NOCASE);
		CREATE INDEX IF NOT EXISTS idx_skins_hash ON skins(hash);

		CREATE TABLE IF NOT EXISTS skin_files (
			skin_id TEXT NOT NULL REFERENCES skins(id) ON DELETE CASCADE,
			filename TEXT NOT NULL,
			hash TEXT NOT NULL,
			PRIMARY KEY (skin_id, filename)
		);

		CREATE INDEX IF NOT EXISTS idx_skin_files_hash ON skin_files(hash);

		CREATE TABLE IF NOT EXISTS settings_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			current_skin_id TEXT,
			volume REAL NOT NULL DEFAULT 1.0,
			muted INTEGER NOT NULL DEFAULT 0
		);
	`)
	if err != nil {
		return err
	}

	// Set initial version if not exists
	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	if err != nil {
		return err
	}

	// Migration: version 1 databases predate the kind column. Their rows
	// get an empty kind, which instantiates as a legacy skin.
	_, _ = db.Exec(`ALTER TABLE skins ADD COLUMN instantiation_info TEXT NOT NULL DEFAULT ''`)

	return nil
}
