package chartshare_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/yumetaro/chart-share/pkg/chartshare"
)

func resource(kind chartshare.ResourceKind, hash string) *chartshare.FileResource {
	return &chartshare.FileResource{
		ID:   uuid.New(),
		Kind: kind,
		Hash: hash,
		URL:  "https://cdn.example.com/" + hash,
	}
}

func TestResolve(t *testing.T) {
	t.Run("maps each kind to its slot", func(t *testing.T) {
		resolved := chartshare.Resolve([]*chartshare.FileResource{
			resource(chartshare.ResourceKindChart, "a"),
			resource(chartshare.ResourceKindBGM, "b"),
			resource(chartshare.ResourceKindCover, "c"),
			resource(chartshare.ResourceKindBackgroundTabletV3, "d"),
		})

		assert.Equal(t, "a", resolved.Get(chartshare.ResourceKindChart).Hash)
		assert.Equal(t, "b", resolved.Get(chartshare.ResourceKindBGM).Hash)
		assert.Equal(t, "c", resolved.Get(chartshare.ResourceKindCover).Hash)
		assert.Equal(t, "d", resolved.Get(chartshare.ResourceKindBackgroundTabletV3).Hash)
	})

	t.Run("empty slots are absent, not errors", func(t *testing.T) {
		resolved := chartshare.Resolve(nil)
		for _, kind := range chartshare.ResourceKinds() {
			assert.Nil(t, resolved.Get(kind))
		}
	})

	t.Run("duplicate kinds resolve to the first in collection order", func(t *testing.T) {
		resolved := chartshare.Resolve([]*chartshare.FileResource{
			resource(chartshare.ResourceKindCover, "first"),
			resource(chartshare.ResourceKindCover, "second"),
		})
		assert.Equal(t, "first", resolved.Get(chartshare.ResourceKindCover).Hash)
	})
}
