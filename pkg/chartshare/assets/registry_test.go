package assets

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yumetaro/chart-share/pkg/chartshare"
)

func TestRegisterAndLookup(t *testing.T) {
	r := New("https://charts.example.com")
	ctx := context.Background()

	r.RegisterItem("engine", "pjsekai-extended", json.RawMessage(`{"name":"pjsekai-extended","version":13}`))

	item, err := r.Asset(ctx, "engine", "pjsekai-extended")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"pjsekai-extended","version":13}`, string(item))

	_, err = r.Asset(ctx, "engine", "missing")
	assert.ErrorIs(t, err, chartshare.ErrAssetNotFound)
}

func TestStaticPathURL(t *testing.T) {
	r := New("https://charts.example.com/")
	ctx := context.Background()

	r.RegisterStaticPath("backgrounds/data.json.gz")

	srl, err := r.Static(ctx, "backgrounds/data.json.gz")
	require.NoError(t, err)
	assert.Equal(t, chartshare.SRL{
		URL: "https://charts.example.com/sonolus/assets/backgrounds/data.json.gz",
	}, srl)

	_, err = r.Static(ctx, "backgrounds/missing.json.gz")
	assert.ErrorIs(t, err, chartshare.ErrAssetNotFound)
}

func TestNewWithDefaults(t *testing.T) {
	r := NewWithDefaults("https://charts.example.com")
	ctx := context.Background()

	for _, path := range []string{
		"backgrounds/data.json.gz",
		"backgrounds/configuration.json.gz",
	} {
		srl, err := r.Static(ctx, path)
		require.NoError(t, err)
		assert.Contains(t, srl.URL, path)
	}

	item, err := r.Asset(ctx, "engine", "pjsekai-extended")
	require.NoError(t, err)
	assert.NotEmpty(t, item)
}
