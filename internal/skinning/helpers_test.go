package skinning

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/wav"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/rhythm/internal/sample"
)

// testResources keeps skin files in memory, keyed by hash.
type testResources struct {
	channel *sample.Channel
	files   map[string][]byte
	opens   int
}

func newTestResources(t *testing.T) *testResources {
	t.Helper()
	return &testResources{
		channel: sample.NewChannel(sample.DefaultFormat, &sync.Mutex{}),
		files:   make(map[string][]byte),
	}
}

func (r *testResources) Open(hash string) (io.ReadCloser, error) {
	data, ok := r.files[hash]
	if !ok {
		return nil, os.ErrNotExist
	}
	r.opens++
	return seekCloser{bytes.NewReader(data)}, nil
}

// seekCloser keeps the reader seekable, like an *os.File from the real store.
type seekCloser struct{ *bytes.Reader }

func (seekCloser) Close() error { return nil }

func (r *testResources) Channel() *sample.Channel { return r.channel }

// addWav stores a short tone as a wav file and returns its hash.
func (r *testResources) addWav(t *testing.T, hash string, length time.Duration) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), hash+".wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	format := sample.DefaultFormat
	tone, err := generators.SineTone(format.SampleRate, 330)
	require.NoError(t, err)
	require.NoError(t, wav.Encode(f, beep.Take(format.SampleRate.N(length), tone), format))
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	r.files[hash] = data
	return hash
}

// testStore is an in-memory skin store.
type testStore struct {
	skins map[uuid.UUID]SkinInfo
	order []uuid.UUID
}

func newTestStore(skins ...*SkinInfo) *testStore {
	s := &testStore{skins: make(map[uuid.UUID]SkinInfo)}
	for _, info := range skins {
		s.skins[info.ID] = *info
		s.order = append(s.order, info.ID)
	}
	return s
}

func (s *testStore) GetSkin(id uuid.UUID) (*SkinInfo, error) {
	info, ok := s.skins[id]
	if !ok {
		return nil, nil
	}
	return &info, nil
}

func (s *testStore) ListSkins() ([]SkinInfo, error) {
	out := make([]SkinInfo, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.skins[id])
	}
	return out, nil
}
