// internal/state/interface.go
package state

import (
	"database/sql"

	"github.com/google/uuid"

	"github.com/llehouerou/rhythm/internal/skinning"
)

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	skinning.Store

	DB() *sql.DB
	SaveSkin(info *skinning.SkinInfo) error
	GetSkinByHash(hash string) (*skinning.SkinInfo, error)
	SoftDeleteSkin(id uuid.UUID) error
	RestoreSkin(id uuid.UUID) error
	PurgeDeletedSkins() ([]string, error)
	EnsureDefaults() error
	SaveSettings(settings Settings)
	GetSettings() (*Settings, error)
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
