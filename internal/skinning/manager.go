package skinning

import (
	"math/rand/v2"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/llehouerou/rhythm/internal/bindable"
	"github.com/llehouerou/rhythm/internal/sample"
)

// ErrSkinNotFound is returned when selecting a skin the store doesn't have.
var ErrSkinNotFound = errors.New("skin not found")

// Store is the persisted side of skin selection.
type Store interface {
	GetSkin(id uuid.UUID) (*SkinInfo, error)
	ListSkins() ([]SkinInfo, error)
}

// Manager owns the current skin and resolves samples against it, falling
// back to the default skin for anything the current one lacks.
type Manager struct {
	store     Store
	resources Resources

	current  *bindable.Bindable[Skin]
	fallback Skin

	intN func(n int) int
}

// Verify Manager implements Source at compile time.
var _ Source = (*Manager)(nil)

// NewManager starts on the default skin.
func NewManager(store Store, resources Resources) (*Manager, error) {
	fallback, err := DefaultSkinInfo().CreateInstance(resources)
	if err != nil {
		return nil, err
	}
	return &Manager{
		store:     store,
		resources: resources,
		current:   bindable.New(fallback),
		fallback:  fallback,
		intN:      rand.IntN,
	}, nil
}

// Current returns the active skin.
func (m *Manager) Current() Skin { return m.current.Value() }

// CurrentSkin exposes the active skin for observers.
func (m *Manager) CurrentSkin() bindable.ReadOnly[Skin] { return m.current }

// Select activates the skin with id. RandomSkinID picks a random installed skin.
func (m *Manager) Select(id uuid.UUID) error {
	if id == RandomSkinID {
		return m.SelectRandom()
	}
	if id == DefaultSkinID {
		m.setCurrent(m.fallback)
		return nil
	}

	info, err := m.store.GetSkin(id)
	if err != nil {
		return errors.Wrapf(err, "load skin %s", id)
	}
	if info == nil || info.DeletePending {
		if id == ClassicSkinID {
			info = ClassicSkinInfo()
		} else {
			return errors.Wrapf(ErrSkinNotFound, "%s", id)
		}
	}
	return m.SelectInfo(info)
}

// SelectInfo instantiates info and makes it current.
func (m *Manager) SelectInfo(info *SkinInfo) error {
	if info.Equal(m.current.Value().Info()) {
		return nil
	}
	s, err := info.CreateInstance(m.resources)
	if err != nil {
		return errors.Wrapf(err, "instantiate skin %s", info)
	}
	m.setCurrent(s)
	return nil
}

// SelectRandom activates a random installed skin other than the current one.
// With nothing else installed it leaves the current skin in place.
func (m *Manager) SelectRandom() error {
	skins, err := m.store.ListSkins()
	if err != nil {
		return errors.Wrap(err, "list skins")
	}

	current := m.current.Value().Info()
	candidates := make([]SkinInfo, 0, len(skins))
	for _, s := range skins {
		if s.DeletePending || s.Equal(current) {
			continue
		}
		candidates = append(candidates, s)
	}
	if len(candidates) == 0 {
		return nil
	}

	picked := candidates[m.intN(len(candidates))]
	if picked.ID == DefaultSkinID {
		m.setCurrent(m.fallback)
		return nil
	}
	return m.SelectInfo(&picked)
}

func (m *Manager) setCurrent(s Skin) {
	zlog.Info().Str("skin", s.Info().String()).Msg("skin selected")
	m.current.Set(s)
}

// GetSample looks in the current skin, then the default skin.
func (m *Manager) GetSample(info SampleInfo) sample.Interface {
	if smp := m.current.Value().GetSample(info); smp != nil {
		return smp
	}
	if m.current.Value() == m.fallback {
		return nil
	}
	return m.fallback.GetSample(info)
}

// OnSourceChanged calls fn after every skin change.
func (m *Manager) OnSourceChanged(fn func()) func() {
	return m.current.BindValueChanged(func(bindable.ValueChanged[Skin]) { fn() }, false)
}
