package chartshare

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for chart and related-entity persistence.
//
// The store owns the relational invariants: DeleteChart cascades to file
// resources, co-author links, likes and tags, and nullifies the parent
// reference of any variants. The per-author public root chart counter is
// recomputed from its predicate (CountAuthorPublicCharts), never maintained
// incrementally by this core.
type Repository interface {
	// Chart operations
	CreateChart(ctx context.Context, chart *Chart) error
	GetChart(ctx context.Context, id uuid.UUID) (*Chart, error)
	GetChartByName(ctx context.Context, name string) (*Chart, error)
	UpdateChart(ctx context.Context, chart *Chart) error
	DeleteChart(ctx context.Context, id uuid.UUID) error

	// Variant graph (derived reverse index over Chart.VariantID)
	ListVariants(ctx context.Context, chartID uuid.UUID) ([]*Chart, error)

	// Identifier queries for discovery
	ListChartIDs(ctx context.Context, filter ChartIDFilter) ([]uuid.UUID, error)
	CountCharts(ctx context.Context, filter ChartIDFilter) (int64, error)
	CountAuthorPublicCharts(ctx context.Context, authorID uuid.UUID) (int64, error)

	// User operations
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)

	// File resource operations
	AddFileResource(ctx context.Context, resource *FileResource) error
	ListFileResources(ctx context.Context, chartID uuid.UUID) ([]*FileResource, error)

	// Co-author operations
	AddCoAuthor(ctx context.Context, chartID, userID uuid.UUID) error
	ListCoAuthors(ctx context.Context, chartID uuid.UUID) ([]*User, error)

	// Tag operations
	AddTag(ctx context.Context, chartID uuid.UUID, name string) error
	ListTags(ctx context.Context, chartID uuid.UUID) ([]string, error)

	// Like operations
	AddLike(ctx context.Context, chartID, userID uuid.UUID) error
	RemoveLike(ctx context.Context, chartID, userID uuid.UUID) error
	CountLikes(ctx context.Context, chartID uuid.UUID) (int64, error)
	HasLike(ctx context.Context, chartID, userID uuid.UUID) (bool, error)
}

// Cache defines the interface for the discovery cache backend.
//
// Get returns (data, hit, err); an expired or missing key is a miss, not an
// error. Concurrent refreshes after expiry are last-writer-wins.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

// AssetRegistry resolves statically packaged game-engine assets.
//
// Asset returns the full item for a keyed asset family (e.g. the engine
// item); Static returns the reference for a pre-packaged file.
type AssetRegistry interface {
	Asset(ctx context.Context, kind, name string) (json.RawMessage, error)
	Static(ctx context.Context, path string) (SRL, error)
}

// Localizer renders user-facing strings for the wire serialization. Args are
// substituted for {placeholder} occurrences in the catalog value.
type Localizer interface {
	Localize(key string, args map[string]string) string
}
