// internal/state/mock.go
package state

import (
	"database/sql"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/llehouerou/rhythm/internal/skinning"
)

// Mock is a test double for Manager.
type Mock struct {
	skins    map[uuid.UUID]skinning.SkinInfo
	settings Settings
	closed   bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{
		skins:    make(map[uuid.UUID]skinning.SkinInfo),
		settings: DefaultSettings(),
	}
}

func (m *Mock) DB() *sql.DB { return nil }

func (m *Mock) SaveSkin(info *skinning.SkinInfo) error {
	m.skins[info.ID] = *info
	return nil
}

func (m *Mock) GetSkin(id uuid.UUID) (*skinning.SkinInfo, error) {
	info, ok := m.skins[id]
	if !ok {
		return nil, nil //nolint:nilnil // nil means no skin saved
	}
	return &info, nil
}

func (m *Mock) GetSkinByHash(hash string) (*skinning.SkinInfo, error) {
	for _, info := range m.skins {
		if info.Hash == hash {
			return &info, nil
		}
	}
	return nil, nil //nolint:nilnil // nil means no skin saved
}

func (m *Mock) ListSkins() ([]skinning.SkinInfo, error) {
	var out []skinning.SkinInfo
	for _, info := range m.skins {
		if !info.DeletePending {
			out = append(out, info)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (m *Mock) SoftDeleteSkin(id uuid.UUID) error {
	if id == skinning.DefaultSkinID || id == skinning.ClassicSkinID {
		return ErrProtectedSkin
	}
	if info, ok := m.skins[id]; ok {
		info.DeletePending = true
		m.skins[id] = info
	}
	return nil
}

func (m *Mock) RestoreSkin(id uuid.UUID) error {
	if info, ok := m.skins[id]; ok {
		info.DeletePending = false
		m.skins[id] = info
	}
	return nil
}

func (m *Mock) PurgeDeletedSkins() ([]string, error) {
	var hashes []string
	for id, info := range m.skins {
		if !info.DeletePending {
			continue
		}
		for _, f := range info.Files {
			hashes = append(hashes, f.Hash)
		}
		delete(m.skins, id)
	}
	return hashes, nil
}

func (m *Mock) EnsureDefaults() error {
	for _, info := range []*skinning.SkinInfo{skinning.DefaultSkinInfo(), skinning.ClassicSkinInfo()} {
		if _, ok := m.skins[info.ID]; !ok {
			m.skins[info.ID] = *info
		}
	}
	return nil
}

func (m *Mock) SaveSettings(settings Settings) {
	m.settings = settings
}

func (m *Mock) GetSettings() (*Settings, error) {
	s := m.settings
	return &s, nil
}

func (m *Mock) Close() error {
	m.closed = true
	return nil
}

// Test helpers

// IsClosed returns true if Close was called.
func (m *Mock) IsClosed() bool {
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
