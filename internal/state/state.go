package state

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName      = "rhythm"
	dbFileName   = "rhythm.db"
	saveDebounce = 500 * time.Millisecond
)

type Manager struct {
	db *sql.DB

	// saveMu guards the debounced settings save and is held while it writes.
	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   *Settings
	closed    bool
}

// Open opens the database at path, or at the xdg data location when path
// is empty, creating it if needed.
func Open(path string) (*Manager, error) {
	if path == "" {
		var err error
		path, err = getDBPath()
		if err != nil {
			return nil, errors.Wrap(err, "resolve database path")
		}
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "create database dir")
	}

	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	return &Manager{db: db}, nil
}

func openDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	// SQLite serializes writers anyway; one connection also keeps :memory: databases whole.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "enable foreign keys")
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "init schema")
	}
	return db, nil
}

// Close flushes pending settings and closes the database. A debounced
// save already running finishes before the database closes.
func (m *Manager) Close() error {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()
	if m.closed {
		return nil
	}
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	m.writePending()
	m.closed = true

	return errors.Wrap(m.db.Close(), "close database")
}

// writePending saves the pending settings, if any. Callers hold saveMu.
func (m *Manager) writePending() {
	if m.pending == nil {
		return
	}
	s := *m.pending
	m.pending = nil
	if err := saveSettings(m.db, s); err != nil {
		zlog.Error().Err(err).Str("skin", s.CurrentSkinID.String()).Msg("settings not saved")
	}
}

func (m *Manager) DB() *sql.DB {
	return m.db
}

// GetSettings returns the saved settings, including a save still waiting
// on the debounce.
func (m *Manager) GetSettings() (*Settings, error) {
	m.saveMu.Lock()
	pending := m.pending
	m.saveMu.Unlock()
	if pending != nil {
		s := *pending
		return &s, nil
	}
	return getSettings(m.db)
}

// SaveSettings persists settings after a short quiet period, so dragging a
// volume slider doesn't write on every step.
func (m *Manager) SaveSettings(settings Settings) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.pending = &settings

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}

	m.saveTimer = time.AfterFunc(saveDebounce, func() {
		m.saveMu.Lock()
		defer m.saveMu.Unlock()
		if m.closed {
			return
		}
		m.writePending()
	})
}

func getDBPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}
