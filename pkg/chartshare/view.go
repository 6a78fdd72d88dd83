package chartshare

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MaxVariantDepth caps variant embedding in views: variants and the parent
// are embedded at most one level deep, and the embedded views carry no
// further embedding of their own.
const MaxVariantDepth = 1

// ViewOptions control what a ChartView includes.
type ViewOptions struct {
	// WithResources resolves and embeds asset references.
	WithResources bool
	// VariantDepth is clamped to [0, MaxVariantDepth]. At depth 0 the
	// variants list is empty and variantOf is null.
	VariantDepth int
}

// AssetView is the internal representation of a resolved asset reference.
type AssetView struct {
	Hash string `json:"hash"`
	URL  string `json:"url"`
}

// UserView is the minimal author representation embedded in views.
type UserView struct {
	Name   string `json:"name"`
	Handle string `json:"handle"`
}

// ChartView is the internal (front-end facing) chart representation.
type ChartView struct {
	Name        string       `json:"name"`
	Title       string       `json:"title"`
	Composer    string       `json:"composer"`
	Artist      string       `json:"artist"`
	Author      UserView     `json:"author"`
	AuthorName  string       `json:"authorName"`
	CoAuthors   []UserView   `json:"coAuthors"`
	Cover       *AssetView   `json:"cover"`
	BGM         *AssetView   `json:"bgm"`
	Chart       *AssetView   `json:"chart"`
	Data        *AssetView   `json:"data"`
	Variants    []*ChartView `json:"variants"`
	Tags        []string     `json:"tags"`
	Genre       Genre        `json:"genre"`
	PublishedAt *string      `json:"publishedAt"`
	UpdatedAt   string       `json:"updatedAt"`
	Rating      int          `json:"rating"`
	Likes       int64        `json:"likes"`
	Liked       bool         `json:"liked"`
	Description string       `json:"description"`
	Visibility  Visibility   `json:"visibility"`
	ScheduledAt *string      `json:"scheduledAt"`
	VariantOf   *ChartView   `json:"variantOf"`
}

// ChartView builds the internal representation of a chart for a viewer.
// A nil viewer is an anonymous request: liked is always false.
func (s *service) ChartView(ctx context.Context, chart *Chart, viewer *uuid.UUID, opts ViewOptions) (*ChartView, error) {
	depth := opts.VariantDepth
	if depth > MaxVariantDepth {
		depth = MaxVariantDepth
	}
	if depth < 0 {
		depth = 0
	}

	author, err := s.author(ctx, chart)
	if err != nil {
		return nil, err
	}

	coAuthors, err := s.repository.ListCoAuthors(ctx, chart.ID)
	if err != nil {
		return nil, &ChartError{ChartID: chart.ID, Op: "view", Err: err}
	}

	tags, err := s.repository.ListTags(ctx, chart.ID)
	if err != nil {
		return nil, &ChartError{ChartID: chart.ID, Op: "view", Err: err}
	}
	if tags == nil {
		tags = []string{}
	}

	likes, err := s.repository.CountLikes(ctx, chart.ID)
	if err != nil {
		return nil, &ChartError{ChartID: chart.ID, Op: "view", Err: err}
	}

	liked := false
	if viewer != nil {
		liked, err = s.repository.HasLike(ctx, chart.ID, *viewer)
		if err != nil {
			return nil, &ChartError{ChartID: chart.ID, Op: "view", Err: err}
		}
	}

	resources := ResolvedResources{}
	if opts.WithResources {
		resources, err = s.Resources(ctx, chart)
		if err != nil {
			return nil, err
		}
	}

	view := &ChartView{
		Name:        chart.Name,
		Title:       chart.Title,
		Composer:    chart.Composer,
		Artist:      chart.Artist,
		Author:      UserView{Name: author.Name, Handle: author.Handle},
		AuthorName:  chart.AuthorName,
		CoAuthors:   make([]UserView, 0, len(coAuthors)),
		Cover:       assetView(resources.Get(ResourceKindCover)),
		BGM:         assetView(resources.Get(ResourceKindBGM)),
		Data:        assetView(resources.Get(ResourceKindData)),
		Variants:    []*ChartView{},
		Tags:        tags,
		Genre:       chart.Genre,
		PublishedAt: nil,
		UpdatedAt:   chart.UpdatedAt.UTC().Format(time.RFC3339),
		Rating:      chart.Rating,
		Likes:       likes,
		Liked:       liked,
		Description: chart.Description,
		Visibility:  chart.Visibility,
	}

	for _, co := range coAuthors {
		view.CoAuthors = append(view.CoAuthors, UserView{Name: co.Name, Handle: co.Handle})
	}

	// The notation asset is withheld in any non-public state, whoever asks.
	if chart.Visibility == VisibilityPublic {
		view.Chart = assetView(resources.Get(ResourceKindChart))
	}
	if chart.Visibility == VisibilityPublic && chart.PublishedAt != nil {
		view.PublishedAt = isoTime(chart.PublishedAt)
	}
	if chart.Visibility == VisibilityScheduled && chart.ScheduledAt != nil {
		view.ScheduledAt = isoTime(chart.ScheduledAt)
	}

	if depth > 0 {
		inner := ViewOptions{WithResources: opts.WithResources, VariantDepth: depth - 1}

		variants, err := s.Variants(ctx, chart, false)
		if err != nil {
			return nil, err
		}
		for _, variant := range variants {
			variantView, err := s.ChartView(ctx, variant, viewer, inner)
			if err != nil {
				return nil, err
			}
			view.Variants = append(view.Variants, variantView)
		}

		parent, err := s.Parent(ctx, chart)
		if err != nil {
			return nil, err
		}
		if parent != nil {
			view.VariantOf, err = s.ChartView(ctx, parent, viewer, inner)
			if err != nil {
				return nil, err
			}
		}
	}

	return view, nil
}

func assetView(resource *FileResource) *AssetView {
	if resource == nil {
		return nil
	}
	return &AssetView{Hash: resource.Hash, URL: resource.URL}
}

func isoTime(t *time.Time) *string {
	s := t.UTC().Format(time.RFC3339)
	return &s
}
