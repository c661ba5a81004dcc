package skinning

import (
	"io"

	"github.com/llehouerou/rhythm/internal/files"
	"github.com/llehouerou/rhythm/internal/sample"
)

// StoreResources serves skin files from the content-addressed file store.
type StoreResources struct {
	files   *files.Store
	channel *sample.Channel
}

func NewStoreResources(store *files.Store, channel *sample.Channel) *StoreResources {
	return &StoreResources{files: store, channel: channel}
}

func (r *StoreResources) Open(hash string) (io.ReadCloser, error) {
	return r.files.Open(hash)
}

func (r *StoreResources) Channel() *sample.Channel { return r.channel }

var _ Resources = (*StoreResources)(nil)
