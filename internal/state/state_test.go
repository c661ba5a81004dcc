package state

import (
	"bytes"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/llehouerou/rhythm/internal/skinning"
)

// setupTestDB creates an in-memory SQLite database with the schema initialized.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := openDB(":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testSkin(name string, files ...skinning.NamedFile) *skinning.SkinInfo {
	info := skinning.NewSkinInfo(name, "tester")
	info.Hash = "hash-" + name
	info.Files = files
	return info
}

func TestGetSkin_Empty(t *testing.T) {
	m := &Manager{db: setupTestDB(t)}

	info, err := m.GetSkin(uuid.New())
	if err != nil {
		t.Fatalf("GetSkin failed: %v", err)
	}
	if info != nil {
		t.Errorf("expected nil skin on empty db, got %+v", info)
	}
}

func TestSaveAndGetSkin(t *testing.T) {
	m := &Manager{db: setupTestDB(t)}

	saved := testSkin("Aristia",
		skinning.NamedFile{Filename: "normal-hitclap.wav", Hash: "aaa"},
		skinning.NamedFile{Filename: "Gameplay/pause-loop.ogg", Hash: "bbb"},
	)
	require.NoError(t, m.SaveSkin(saved))

	got, err := m.GetSkin(saved.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "Aristia", got.Name)
	assert.Equal(t, "tester", got.Creator)
	assert.Equal(t, "hash-Aristia", got.Hash)
	assert.Equal(t, skinning.KindLegacy, got.Kind)
	assert.False(t, got.DeletePending)
	assert.Equal(t, []skinning.NamedFile{
		{Filename: "Gameplay/pause-loop.ogg", Hash: "bbb"},
		{Filename: "normal-hitclap.wav", Hash: "aaa"},
	}, got.Files)
}

func TestSaveSkin_ReplacesFiles(t *testing.T) {
	m := &Manager{db: setupTestDB(t)}

	info := testSkin("Rafis", skinning.NamedFile{Filename: "a.wav", Hash: "1"})
	require.NoError(t, m.SaveSkin(info))

	info.Name = "Rafis v2"
	info.Files = []skinning.NamedFile{{Filename: "b.wav", Hash: "2"}}
	require.NoError(t, m.SaveSkin(info))

	got, err := m.GetSkin(info.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rafis v2", got.Name)
	assert.Equal(t, []skinning.NamedFile{{Filename: "b.wav", Hash: "2"}}, got.Files)
}

func TestGetSkinByHash(t *testing.T) {
	m := &Manager{db: setupTestDB(t)}

	info := testSkin("Cookiezi")
	require.NoError(t, m.SaveSkin(info))

	got, err := m.GetSkinByHash("hash-Cookiezi")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, info.ID, got.ID)

	got, err = m.GetSkinByHash("missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListSkins_OrderAndDeletePending(t *testing.T) {
	m := &Manager{db: setupTestDB(t)}

	zeta := testSkin("zeta", skinning.NamedFile{Filename: "z.wav", Hash: "z"})
	alpha := testSkin("Alpha", skinning.NamedFile{Filename: "a.wav", Hash: "a"})
	gone := testSkin("Mid")
	for _, s := range []*skinning.SkinInfo{zeta, alpha, gone} {
		require.NoError(t, m.SaveSkin(s))
	}
	require.NoError(t, m.SoftDeleteSkin(gone.ID))

	skins, err := m.ListSkins()
	require.NoError(t, err)
	require.Len(t, skins, 2)
	assert.Equal(t, "Alpha", skins[0].Name)
	assert.Equal(t, "zeta", skins[1].Name)
	assert.Equal(t, []skinning.NamedFile{{Filename: "a.wav", Hash: "a"}}, skins[0].Files)
	assert.Equal(t, []skinning.NamedFile{{Filename: "z.wav", Hash: "z"}}, skins[1].Files)

	// Soft-deleted skins are still reachable by ID.
	got, err := m.GetSkin(gone.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.DeletePending)
}

func TestSoftDeleteSkin_BuiltInProtected(t *testing.T) {
	m := &Manager{db: setupTestDB(t)}
	require.NoError(t, m.EnsureDefaults())

	assert.ErrorIs(t, m.SoftDeleteSkin(skinning.DefaultSkinID), ErrProtectedSkin)
	assert.ErrorIs(t, m.SoftDeleteSkin(skinning.ClassicSkinID), ErrProtectedSkin)
}

func TestRestoreSkin(t *testing.T) {
	m := &Manager{db: setupTestDB(t)}
	info := testSkin("Back")
	require.NoError(t, m.SaveSkin(info))
	require.NoError(t, m.SoftDeleteSkin(info.ID))
	require.NoError(t, m.RestoreSkin(info.ID))

	skins, err := m.ListSkins()
	require.NoError(t, err)
	require.Len(t, skins, 1)
	assert.Equal(t, info.ID, skins[0].ID)
}

func TestPurgeDeletedSkins_ReturnsOrphanedHashes(t *testing.T) {
	m := &Manager{db: setupTestDB(t)}

	keep := testSkin("keep", skinning.NamedFile{Filename: "shared.wav", Hash: "shared"})
	drop := testSkin("drop",
		skinning.NamedFile{Filename: "shared.wav", Hash: "shared"},
		skinning.NamedFile{Filename: "own.wav", Hash: "own"},
	)
	require.NoError(t, m.SaveSkin(keep))
	require.NoError(t, m.SaveSkin(drop))
	require.NoError(t, m.SoftDeleteSkin(drop.ID))

	hashes, err := m.PurgeDeletedSkins()
	require.NoError(t, err)
	assert.Equal(t, []string{"own"}, hashes)

	got, err := m.GetSkin(drop.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = m.GetSkin(keep.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Files, 1)
}

func TestPurgeDeletedSkins_NothingPending(t *testing.T) {
	m := &Manager{db: setupTestDB(t)}
	require.NoError(t, m.SaveSkin(testSkin("stay")))

	hashes, err := m.PurgeDeletedSkins()
	require.NoError(t, err)
	assert.Empty(t, hashes)
}

func TestEnsureDefaults(t *testing.T) {
	m := &Manager{db: setupTestDB(t)}

	require.NoError(t, m.EnsureDefaults())
	require.NoError(t, m.EnsureDefaults(), "running twice is fine")

	skins, err := m.ListSkins()
	require.NoError(t, err)
	require.Len(t, skins, 2)

	def, err := m.GetSkin(skinning.DefaultSkinID)
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, skinning.KindDefault, def.Kind)

	classic, err := m.GetSkin(skinning.ClassicSkinID)
	require.NoError(t, err)
	require.NotNil(t, classic)
	assert.Equal(t, skinning.KindClassic, classic.Kind)
}

func TestEmptyKindIsLegacy(t *testing.T) {
	db := setupTestDB(t)
	m := &Manager{db: db}

	id := uuid.New()
	_, err := db.Exec(`
		INSERT INTO skins (id, name, creator, hash, added_at, updated_at)
		VALUES (?, 'old', '', '', 0, 0)
	`, id.String())
	require.NoError(t, err)

	got, err := m.GetSkin(id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, skinning.Kind(""), got.Kind)
	assert.True(t, got.Kind.Valid())
}

func TestInitSchema_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	if err := initSchema(db); err != nil {
		t.Fatalf("second initSchema failed: %v", err)
	}
}

func TestGetSettings_Empty(t *testing.T) {
	db := setupTestDB(t)

	s, err := getSettings(db)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), *s)
}

func TestSaveAndGetSettings(t *testing.T) {
	db := setupTestDB(t)

	want := Settings{CurrentSkinID: skinning.ClassicSkinID, Volume: 0.4, Muted: true}
	require.NoError(t, saveSettings(db, want))

	got, err := getSettings(db)
	require.NoError(t, err)
	assert.Equal(t, want, *got)

	// Clearing the selection stores NULL.
	want.CurrentSkinID = uuid.Nil
	require.NoError(t, saveSettings(db, want))
	got, err = getSettings(db)
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, got.CurrentSkinID)
}

func TestManager_SaveSettingsPendingVisible(t *testing.T) {
	m := &Manager{db: setupTestDB(t)}

	m.SaveSettings(Settings{CurrentSkinID: skinning.DefaultSkinID, Volume: 0.5})
	m.SaveSettings(Settings{CurrentSkinID: skinning.ClassicSkinID, Volume: 0.7})

	got, err := m.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, skinning.ClassicSkinID, got.CurrentSkinID)
	assert.InDelta(t, 0.7, got.Volume, 1e-9)
}

func TestManager_CloseFlushesSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rhythm.db")

	m, err := Open(path)
	require.NoError(t, err)
	m.SaveSettings(Settings{CurrentSkinID: skinning.ClassicSkinID, Volume: 0.25})
	require.NoError(t, m.Close())

	m, err = Open(path)
	require.NoError(t, err)
	defer m.Close()

	got, err := m.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, skinning.ClassicSkinID, got.CurrentSkinID)
	assert.InDelta(t, 0.25, got.Volume, 1e-9)
}

func TestManager_CloseTwice(t *testing.T) {
	m, err := Open(filepath.Join(t.TempDir(), "rhythm.db"))
	require.NoError(t, err)
	m.SaveSettings(Settings{CurrentSkinID: skinning.ClassicSkinID, Volume: 1})

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	assert.True(t, m.closed)
	assert.Nil(t, m.pending)
}

func TestManager_FailedSettingsSaveIsLogged(t *testing.T) {
	var buf bytes.Buffer
	zlog.Logger = zerolog.New(&buf)
	t.Cleanup(func() { zlog.Logger = zerolog.Nop() })

	db, err := openDB(":memory:")
	require.NoError(t, err)
	m := &Manager{db: db}
	m.SaveSettings(Settings{CurrentSkinID: skinning.ClassicSkinID, Volume: 1})
	m.saveTimer.Stop()
	require.NoError(t, db.Close())

	m.saveMu.Lock()
	m.writePending()
	m.saveMu.Unlock()

	assert.Contains(t, buf.String(), "settings not saved")
	assert.Contains(t, buf.String(), skinning.ClassicSkinID.String())
	assert.Nil(t, m.pending)
}

func TestManager_ErrorsNameTheOperation(t *testing.T) {
	db, err := openDB(":memory:")
	require.NoError(t, err)
	m := &Manager{db: db}
	require.NoError(t, db.Close())

	id := uuid.New()
	_, err = m.GetSkin(id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get skin "+id.String())

	_, err = m.ListSkins()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list skins")

	err = m.SoftDeleteSkin(id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "soft delete skin")

	_, err = getSettings(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load settings")
}

func TestManager_DB(t *testing.T) {
	db := setupTestDB(t)

	m := &Manager{db: db}
	if m.DB() != db {
		t.Error("DB() should return the underlying database")
	}
}

func TestMock_ImplementsStoreSemantics(t *testing.T) {
	m := NewMock()
	require.NoError(t, m.EnsureDefaults())

	info := testSkin("mocked", skinning.NamedFile{Filename: "x.wav", Hash: "x"})
	require.NoError(t, m.SaveSkin(info))
	require.NoError(t, m.SoftDeleteSkin(info.ID))

	skins, err := m.ListSkins()
	require.NoError(t, err)
	assert.Len(t, skins, 2)

	hashes, err := m.PurgeDeletedSkins()
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, hashes)

	require.NoError(t, m.Close())
	assert.True(t, m.IsClosed())
}
