// Package assets provides a static AssetRegistry over pre-packaged
// game-engine assets served from the deployment host.
package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/yumetaro/chart-share/pkg/chartshare"
)

// Registry implements chartshare.AssetRegistry from registered entries.
type Registry struct {
	mu      sync.RWMutex
	host    string
	items   map[string]json.RawMessage // "kind/name" -> item
	statics map[string]chartshare.SRL  // path -> reference
}

// New creates an empty registry. Host is the deployment base used when
// deriving static asset URLs.
func New(host string) *Registry {
	return &Registry{
		host:    strings.TrimSuffix(host, "/"),
		items:   make(map[string]json.RawMessage),
		statics: make(map[string]chartshare.SRL),
	}
}

// NewWithDefaults creates a registry pre-populated with the packaged
// background data/configuration references served under /sonolus/assets.
func NewWithDefaults(host string) *Registry {
	r := New(host)
	r.RegisterStaticPath("backgrounds/data.json.gz")
	r.RegisterStaticPath("backgrounds/configuration.json.gz")
	// Minimal engine item; deployments replace it with the packaged engine
	// via RegisterItem.
	r.RegisterItem("engine", "pjsekai-extended", json.RawMessage(`{"name":"pjsekai-extended"}`))
	return r
}

// RegisterItem registers a full asset item under kind and name.
func (r *Registry) RegisterItem(kind, name string, item json.RawMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[kind+"/"+name] = item
}

// RegisterStatic registers a static asset reference for a path.
func (r *Registry) RegisterStatic(path string, srl chartshare.SRL) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statics[path] = srl
}

// RegisterStaticPath registers a static asset served from the deployment
// host under /sonolus/assets/<path>. The hash is left empty; clients treat
// these as unversioned packaged files.
func (r *Registry) RegisterStaticPath(path string) {
	r.RegisterStatic(path, chartshare.SRL{
		Hash: "",
		URL:  fmt.Sprintf("%s/sonolus/assets/%s", r.host, path),
	})
}

// Asset returns the registered item for kind and name.
func (r *Registry) Asset(ctx context.Context, kind, name string) (json.RawMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[kind+"/"+name]
	if !exists {
		return nil, fmt.Errorf("asset %s/%s: %w", kind, name, chartshare.ErrAssetNotFound)
	}
	return item, nil
}

// Static returns the registered reference for a packaged file.
func (r *Registry) Static(ctx context.Context, path string) (chartshare.SRL, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	srl, exists := r.statics[path]
	if !exists {
		return chartshare.SRL{}, fmt.Errorf("static asset %s: %w", path, chartshare.ErrAssetNotFound)
	}
	return srl, nil
}
