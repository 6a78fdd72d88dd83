package chartshare

import (
	"context"
	"encoding/json"
)

// NoopAssetRegistry is a no-operation implementation of AssetRegistry.
// Useful for tests and for deployments that resolve engine assets elsewhere.
type NoopAssetRegistry struct{}

// NewNoopAssetRegistry creates a new no-operation asset registry
func NewNoopAssetRegistry() AssetRegistry {
	return &NoopAssetRegistry{}
}

// Asset returns an empty item for every key
func (n *NoopAssetRegistry) Asset(ctx context.Context, kind, name string) (json.RawMessage, error) {
	return json.RawMessage(`{}`), nil
}

// Static returns the placeholder reference for every path
func (n *NoopAssetRegistry) Static(ctx context.Context, path string) (SRL, error) {
	return SRL{}, nil
}
