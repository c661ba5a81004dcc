package skinning

import (
	"strings"

	"github.com/google/uuid"
)

// Well-known skin IDs.
var (
	DefaultSkinID = uuid.MustParse("2991CFD8-2140-469A-BCB9-2EC23FBCE4AD")
	ClassicSkinID = uuid.MustParse("81F02CD3-EEC6-4865-AC23-FAE26A386187")
	RandomSkinID  = uuid.MustParse("D39DFEFB-477C-4372-B1EA-2BCEA5FB8908")
)

// NamedFile maps a filename inside a skin to its content hash in the file store.
type NamedFile struct {
	Filename string
	Hash     string
}

// SkinInfo is the persisted record of an installed skin.
type SkinInfo struct {
	ID            uuid.UUID
	Name          string
	Creator       string
	Hash          string
	Kind          Kind // empty for skins imported before kinds were recorded
	Files         []NamedFile
	DeletePending bool
}

// NewSkinInfo returns a legacy skin record with a fresh ID.
func NewSkinInfo(name, creator string) *SkinInfo {
	return &SkinInfo{
		ID:      uuid.New(),
		Name:    name,
		Creator: creator,
		Kind:    KindLegacy,
	}
}

// DefaultSkinInfo returns the built-in default skin record.
func DefaultSkinInfo() *SkinInfo {
	return &SkinInfo{
		ID:      DefaultSkinID,
		Name:    "rhythm! (triangles)",
		Creator: "team rhythm!",
		Kind:    KindDefault,
	}
}

// ClassicSkinInfo returns the built-in classic skin record.
func ClassicSkinInfo() *SkinInfo {
	return &SkinInfo{
		ID:      ClassicSkinID,
		Name:    "rhythm! (classic)",
		Creator: "team rhythm!",
		Kind:    KindClassic,
	}
}

// BuiltIn reports whether the record is one of the skins shipped with the game.
func (s *SkinInfo) BuiltIn() bool {
	return s.ID == DefaultSkinID || s.ID == ClassicSkinID
}

// Equal compares skins by ID only.
func (s *SkinInfo) Equal(other *SkinInfo) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil {
		return false
	}
	return s.ID == other.ID
}

// String returns "name (creator)", or just the name when there is no creator.
func (s *SkinInfo) String() string {
	author := ""
	if s.Creator != "" {
		author = "(" + s.Creator + ")"
	}
	return strings.TrimSpace(s.Name + " " + author)
}

// File returns the hash of filename, matched case-insensitively.
func (s *SkinInfo) File(filename string) (string, bool) {
	for _, f := range s.Files {
		if strings.EqualFold(f.Filename, filename) {
			return f.Hash, true
		}
	}
	return "", false
}

// CreateInstance builds the runtime skin for this record.
func (s *SkinInfo) CreateInstance(resources Resources) (Skin, error) {
	ctor, err := s.Kind.constructor()
	if err != nil {
		return nil, err
	}
	return ctor(s, resources), nil
}
