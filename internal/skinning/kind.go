package skinning

import (
	"github.com/cockroachdb/errors"
)

// ErrUnknownSkinKind is returned when a record names a kind that has no constructor.
var ErrUnknownSkinKind = errors.New("unknown skin kind")

// Kind identifies which Skin implementation a record instantiates.
// It is what gets stored in the database.
type Kind string

const (
	KindDefault Kind = "default"
	KindClassic Kind = "classic"
	KindLegacy  Kind = "legacy"
)

// Constructor builds a skin from its record.
type Constructor func(info *SkinInfo, resources Resources) Skin

var constructors = map[Kind]Constructor{
	KindDefault: newDefaultSkin,
	KindClassic: newClassicSkin,
	KindLegacy:  newLegacySkin,
}

// Kinds returns every known kind.
func Kinds() []Kind {
	return []Kind{KindDefault, KindClassic, KindLegacy}
}

// Valid reports whether k names a known kind. The empty kind is valid and
// resolves to KindLegacy.
func (k Kind) Valid() bool {
	_, err := k.constructor()
	return err == nil
}

func (k Kind) constructor() (Constructor, error) {
	// Skins imported before kinds were recorded are legacy skins.
	if k == "" {
		k = KindLegacy
	}
	ctor, ok := constructors[k]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownSkinKind, "%q", string(k))
	}
	return ctor, nil
}
