package chartshare

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service defines the main interface for the chart-share core.
type Service interface {
	// Chart lookup
	GetChart(ctx context.Context, id uuid.UUID) (*Chart, error)
	GetChartByName(ctx context.Context, name string) (*Chart, error)

	// Resource resolution
	Resources(ctx context.Context, chart *Chart) (ResolvedResources, error)

	// Variant graph
	Variants(ctx context.Context, chart *Chart, includePrivate bool) ([]*Chart, error)
	Parent(ctx context.Context, chart *Chart) (*Chart, error)

	// Serializations
	ChartView(ctx context.Context, chart *Chart, viewer *uuid.UUID, opts ViewOptions) (*ChartView, error)
	SonolusLevel(ctx context.Context, chart *Chart, opts SonolusOptions) (*SonolusLevel, error)

	// Discovery
	RandomChartIDs(ctx context.Context, count int, genres ...Genre) ([]uuid.UUID, error)
	CountCharts(ctx context.Context, genres ...Genre) (int64, error)
}

// service implements the Service interface
type service struct {
	repository Repository
	cache      Cache
	assets     AssetRegistry
	localizer  Localizer
	host       string
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the entity store for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithCache sets the discovery cache backend
func WithCache(cache Cache) Option {
	return func(s *service) {
		s.cache = cache
	}
}

// WithAssetRegistry sets the static asset registry used by the wire serializer
func WithAssetRegistry(registry AssetRegistry) Option {
	return func(s *service) {
		s.assets = registry
	}
}

// WithLocalizer sets the string catalog for wire-format badges and titles
func WithLocalizer(localizer Localizer) Option {
	return func(s *service) {
		s.localizer = localizer
	}
}

// WithSourceHost sets the deployment base host emitted as the wire "source"
// field. Passed explicitly rather than read from the process environment.
func WithSourceHost(host string) Option {
	return func(s *service) {
		s.host = host
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.cache == nil {
		return nil, fmt.Errorf("cache is required")
	}
	if s.assets == nil {
		s.assets = NewNoopAssetRegistry()
	}
	if s.localizer == nil {
		s.localizer = NewDefaultLocalizer()
	}

	return s, nil
}

func (s *service) GetChart(ctx context.Context, id uuid.UUID) (*Chart, error) {
	chart, err := s.repository.GetChart(ctx, id)
	if err != nil {
		return nil, &ChartError{ChartID: id, Op: "get", Err: err}
	}
	return chart, nil
}

func (s *service) GetChartByName(ctx context.Context, name string) (*Chart, error) {
	chart, err := s.repository.GetChartByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get chart by name %q: %w", name, err)
	}
	return chart, nil
}

// Resources resolves the chart's attached assets into their slots.
func (s *service) Resources(ctx context.Context, chart *Chart) (ResolvedResources, error) {
	resources, err := s.repository.ListFileResources(ctx, chart.ID)
	if err != nil {
		return nil, &ChartError{ChartID: chart.ID, Op: "resources", Err: err}
	}
	return Resolve(resources), nil
}

// Variants returns the chart's children. Private children are withheld
// unless includePrivate is set.
func (s *service) Variants(ctx context.Context, chart *Chart, includePrivate bool) ([]*Chart, error) {
	variants, err := s.repository.ListVariants(ctx, chart.ID)
	if err != nil {
		return nil, &ChartError{ChartID: chart.ID, Op: "variants", Err: err}
	}
	if includePrivate {
		return variants, nil
	}
	public := make([]*Chart, 0, len(variants))
	for _, v := range variants {
		if v.Visibility == VisibilityPublic {
			public = append(public, v)
		}
	}
	return public, nil
}

// Parent returns the chart this one is a variant of, or nil for root charts.
func (s *service) Parent(ctx context.Context, chart *Chart) (*Chart, error) {
	if chart.VariantID == nil {
		return nil, nil
	}
	parent, err := s.repository.GetChart(ctx, *chart.VariantID)
	if err != nil {
		return nil, &ChartError{ChartID: chart.ID, Op: "parent", Err: err}
	}
	return parent, nil
}

// author resolves the owning user, surfacing a missing author as corruption.
func (s *service) author(ctx context.Context, chart *Chart) (*User, error) {
	if chart.AuthorID == uuid.Nil {
		return nil, &ChartError{ChartID: chart.ID, Op: "author", Err: ErrAuthorMissing}
	}
	author, err := s.repository.GetUser(ctx, chart.AuthorID)
	if err != nil {
		return nil, &ChartError{ChartID: chart.ID, Op: "author", Err: err}
	}
	return author, nil
}
