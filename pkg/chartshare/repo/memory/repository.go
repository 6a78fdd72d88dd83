package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yumetaro/chart-share/pkg/chartshare"
)

// Repository implements chartshare.Repository using in-memory storage
type Repository struct {
	mu            sync.RWMutex
	charts        map[uuid.UUID]*chartshare.Chart
	chartsByName  map[string]uuid.UUID
	users         map[uuid.UUID]*chartshare.User
	resources     map[uuid.UUID][]*chartshare.FileResource // chart_id -> resources
	coAuthors     map[uuid.UUID][]uuid.UUID                // chart_id -> []user_id
	tags          map[uuid.UUID][]string                   // chart_id -> tag names
	likes         map[uuid.UUID]map[uuid.UUID]time.Time    // chart_id -> user_id -> liked_at
	variantsByPar map[uuid.UUID][]uuid.UUID                // parent chart_id -> []child chart_id
}

// New creates a new in-memory repository
func New() chartshare.Repository {
	return &Repository{
		charts:        make(map[uuid.UUID]*chartshare.Chart),
		chartsByName:  make(map[string]uuid.UUID),
		users:         make(map[uuid.UUID]*chartshare.User),
		resources:     make(map[uuid.UUID][]*chartshare.FileResource),
		coAuthors:     make(map[uuid.UUID][]uuid.UUID),
		tags:          make(map[uuid.UUID][]string),
		likes:         make(map[uuid.UUID]map[uuid.UUID]time.Time),
		variantsByPar: make(map[uuid.UUID][]uuid.UUID),
	}
}

// Chart operations

func (r *Repository) CreateChart(ctx context.Context, chart *chartshare.Chart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Create a copy to avoid external modifications
	chartCopy := *chart
	r.charts[chart.ID] = &chartCopy
	r.chartsByName[chart.Name] = chart.ID
	if chart.VariantID != nil {
		r.variantsByPar[*chart.VariantID] = append(r.variantsByPar[*chart.VariantID], chart.ID)
	}

	return nil
}

func (r *Repository) GetChart(ctx context.Context, id uuid.UUID) (*chartshare.Chart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chart, exists := r.charts[id]
	if !exists {
		return nil, chartshare.ErrChartNotFound
	}
	chartCopy := *chart
	return &chartCopy, nil
}

func (r *Repository) GetChartByName(ctx context.Context, name string) (*chartshare.Chart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.chartsByName[name]
	if !exists {
		return nil, chartshare.ErrChartNotFound
	}
	chartCopy := *r.charts[id]
	return &chartCopy, nil
}

func (r *Repository) UpdateChart(ctx context.Context, chart *chartshare.Chart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.charts[chart.ID]
	if !exists {
		return chartshare.ErrChartNotFound
	}

	if existing.Name != chart.Name {
		delete(r.chartsByName, existing.Name)
		r.chartsByName[chart.Name] = chart.ID
	}
	if !equalParent(existing.VariantID, chart.VariantID) {
		if existing.VariantID != nil {
			r.variantsByPar[*existing.VariantID] = removeID(r.variantsByPar[*existing.VariantID], chart.ID)
		}
		if chart.VariantID != nil {
			r.variantsByPar[*chart.VariantID] = append(r.variantsByPar[*chart.VariantID], chart.ID)
		}
	}

	chartCopy := *chart
	chartCopy.UpdatedAt = time.Now().UTC()
	r.charts[chart.ID] = &chartCopy

	return nil
}

// DeleteChart removes a chart and its owned collections, and nullifies the
// parent reference of its variants instead of deleting them.
func (r *Repository) DeleteChart(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	chart, exists := r.charts[id]
	if !exists {
		return chartshare.ErrChartNotFound
	}

	for _, childID := range r.variantsByPar[id] {
		if child, ok := r.charts[childID]; ok {
			child.VariantID = nil
		}
	}
	delete(r.variantsByPar, id)

	if chart.VariantID != nil {
		r.variantsByPar[*chart.VariantID] = removeID(r.variantsByPar[*chart.VariantID], id)
	}

	delete(r.resources, id)
	delete(r.coAuthors, id)
	delete(r.tags, id)
	delete(r.likes, id)
	delete(r.chartsByName, chart.Name)
	delete(r.charts, id)

	return nil
}

func (r *Repository) ListVariants(ctx context.Context, chartID uuid.UUID) ([]*chartshare.Chart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, exists := r.charts[chartID]; !exists {
		return nil, chartshare.ErrChartNotFound
	}

	childIDs := r.variantsByPar[chartID]
	variants := make([]*chartshare.Chart, 0, len(childIDs))
	for _, childID := range childIDs {
		if child, ok := r.charts[childID]; ok {
			childCopy := *child
			variants = append(variants, &childCopy)
		}
	}
	return variants, nil
}

func (r *Repository) ListChartIDs(ctx context.Context, filter chartshare.ChartIDFilter) ([]uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []uuid.UUID
	for id, chart := range r.charts {
		if matchesFilter(chart, filter) {
			ids = append(ids, id)
		}
	}
	// Map iteration order is random; sort for a stable listing.
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

func (r *Repository) CountCharts(ctx context.Context, filter chartshare.ChartIDFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, chart := range r.charts {
		if matchesFilter(chart, filter) {
			n++
		}
	}
	return n, nil
}

// CountAuthorPublicCharts recomputes the public root chart count for an
// author straight from the predicate, so the counter can never drift.
func (r *Repository) CountAuthorPublicCharts(ctx context.Context, authorID uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, chart := range r.charts {
		if chart.AuthorID == authorID && chart.Visibility == chartshare.VisibilityPublic && chart.VariantID == nil {
			n++
		}
	}
	return n, nil
}

// User operations

func (r *Repository) CreateUser(ctx context.Context, user *chartshare.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	userCopy := *user
	r.users[user.ID] = &userCopy
	return nil
}

func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*chartshare.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[id]
	if !exists {
		return nil, chartshare.ErrUserNotFound
	}
	userCopy := *user
	return &userCopy, nil
}

// File resource operations

func (r *Repository) AddFileResource(ctx context.Context, resource *chartshare.FileResource) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.charts[resource.ChartID]; !exists {
		return chartshare.ErrChartNotFound
	}
	resourceCopy := *resource
	r.resources[resource.ChartID] = append(r.resources[resource.ChartID], &resourceCopy)
	return nil
}

func (r *Repository) ListFileResources(ctx context.Context, chartID uuid.UUID) ([]*chartshare.FileResource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, exists := r.charts[chartID]; !exists {
		return nil, chartshare.ErrChartNotFound
	}
	resources := make([]*chartshare.FileResource, 0, len(r.resources[chartID]))
	for _, resource := range r.resources[chartID] {
		resourceCopy := *resource
		resources = append(resources, &resourceCopy)
	}
	return resources, nil
}

// Co-author operations

func (r *Repository) AddCoAuthor(ctx context.Context, chartID, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.charts[chartID]; !exists {
		return chartshare.ErrChartNotFound
	}
	if _, exists := r.users[userID]; !exists {
		return chartshare.ErrUserNotFound
	}
	for _, existing := range r.coAuthors[chartID] {
		if existing == userID {
			return nil
		}
	}
	r.coAuthors[chartID] = append(r.coAuthors[chartID], userID)
	return nil
}

func (r *Repository) ListCoAuthors(ctx context.Context, chartID uuid.UUID) ([]*chartshare.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, exists := r.charts[chartID]; !exists {
		return nil, chartshare.ErrChartNotFound
	}
	coAuthors := make([]*chartshare.User, 0, len(r.coAuthors[chartID]))
	for _, userID := range r.coAuthors[chartID] {
		if user, ok := r.users[userID]; ok {
			userCopy := *user
			coAuthors = append(coAuthors, &userCopy)
		}
	}
	return coAuthors, nil
}

// Tag operations

func (r *Repository) AddTag(ctx context.Context, chartID uuid.UUID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.charts[chartID]; !exists {
		return chartshare.ErrChartNotFound
	}
	for _, existing := range r.tags[chartID] {
		if existing == name {
			return nil
		}
	}
	r.tags[chartID] = append(r.tags[chartID], name)
	return nil
}

func (r *Repository) ListTags(ctx context.Context, chartID uuid.UUID) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, exists := r.charts[chartID]; !exists {
		return nil, chartshare.ErrChartNotFound
	}
	tags := make([]string, len(r.tags[chartID]))
	copy(tags, r.tags[chartID])
	return tags, nil
}

// Like operations

func (r *Repository) AddLike(ctx context.Context, chartID, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.charts[chartID]; !exists {
		return chartshare.ErrChartNotFound
	}
	if r.likes[chartID] == nil {
		r.likes[chartID] = make(map[uuid.UUID]time.Time)
	}
	if _, liked := r.likes[chartID][userID]; !liked {
		r.likes[chartID][userID] = time.Now().UTC()
	}
	return nil
}

func (r *Repository) RemoveLike(ctx context.Context, chartID, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.charts[chartID]; !exists {
		return chartshare.ErrChartNotFound
	}
	delete(r.likes[chartID], userID)
	return nil
}

func (r *Repository) CountLikes(ctx context.Context, chartID uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, exists := r.charts[chartID]; !exists {
		return 0, chartshare.ErrChartNotFound
	}
	return int64(len(r.likes[chartID])), nil
}

func (r *Repository) HasLike(ctx context.Context, chartID, userID uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, exists := r.charts[chartID]; !exists {
		return false, chartshare.ErrChartNotFound
	}
	_, liked := r.likes[chartID][userID]
	return liked, nil
}

// Helpers

func matchesFilter(chart *chartshare.Chart, filter chartshare.ChartIDFilter) bool {
	if filter.Genre != nil && chart.Genre != *filter.Genre {
		return false
	}
	if filter.Visibility != nil && chart.Visibility != *filter.Visibility {
		return false
	}
	if filter.RootOnly && chart.VariantID != nil {
		return false
	}
	return true
}

func equalParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
