package chartshare

import (
	"time"

	"github.com/google/uuid"
)

// Visibility is the domain type for chart exposure states.
type Visibility string

// Visibility constants (typed).
const (
	VisibilityPrivate   Visibility = "private"
	VisibilityPublic    Visibility = "public"
	VisibilityScheduled Visibility = "scheduled"
)

// Genre is the fixed category set charts are filed under.
type Genre string

// Genre constants (typed).
const (
	GenreVocalSynth   Genre = "vocal_synth"
	GenreMusicGame    Genre = "music_game"
	GenreGame         Genre = "game"
	GenreMeme         Genre = "meme"
	GenrePops         Genre = "pops"
	GenreInstrumental Genre = "instrumental"
	GenreOthers       Genre = "others"
)

// Genres returns all known genres in a stable order.
func Genres() []Genre {
	return []Genre{
		GenreVocalSynth,
		GenreMusicGame,
		GenreGame,
		GenreMeme,
		GenrePops,
		GenreInstrumental,
		GenreOthers,
	}
}

// ChartType is the source format of the notation file. It is carried as
// metadata only; neither serialization surfaces it.
type ChartType string

// Chart type constants (typed).
const (
	ChartTypeSUS    ChartType = "sus"
	ChartTypeMMWS   ChartType = "mmws"
	ChartTypeCHS    ChartType = "chs"
	ChartTypeVUSC   ChartType = "vusc"
	ChartTypeCCMMWS ChartType = "ccmmws"
)

// ResourceKind names one of the nine fixed asset slots a chart may fill.
type ResourceKind string

// Resource kind constants (typed).
const (
	ResourceKindChart              ResourceKind = "chart"
	ResourceKindBGM                ResourceKind = "bgm"
	ResourceKindCover              ResourceKind = "cover"
	ResourceKindPreview            ResourceKind = "preview"
	ResourceKindData               ResourceKind = "data"
	ResourceKindBackgroundV1       ResourceKind = "background_v1"
	ResourceKindBackgroundV3       ResourceKind = "background_v3"
	ResourceKindBackgroundTabletV1 ResourceKind = "background_tablet_v1"
	ResourceKindBackgroundTabletV3 ResourceKind = "background_tablet_v3"
)

// ResourceKinds returns all slot names in a stable order.
func ResourceKinds() []ResourceKind {
	return []ResourceKind{
		ResourceKindChart,
		ResourceKindBGM,
		ResourceKindCover,
		ResourceKindPreview,
		ResourceKindData,
		ResourceKindBackgroundV1,
		ResourceKindBackgroundV3,
		ResourceKindBackgroundTabletV1,
		ResourceKindBackgroundTabletV3,
	}
}

// Chart represents a playable level shared on the platform.
//
// A chart may reference a parent chart through VariantID, forming a
// two-level tree: charts with a nil VariantID are "root" charts and are the
// only ones listed for discovery. The reverse edge (children) is derived by
// the repository, never stored on the entity.
type Chart struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Title       string     `json:"title"`
	Composer    string     `json:"composer"`
	Artist      string     `json:"artist,omitempty"`
	Description string     `json:"description,omitempty"`
	Rating      int        `json:"rating"`
	Genre       Genre      `json:"genre"`
	ChartType   ChartType  `json:"chart_type"`
	AuthorID    uuid.UUID  `json:"author_id"`
	AuthorName  string     `json:"author_name,omitempty"`
	Visibility  Visibility `json:"visibility"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	VariantID   *uuid.UUID `json:"variant_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsRoot reports whether the chart has no parent.
func (c *Chart) IsRoot() bool { return c.VariantID == nil }

// User is the minimal author identity this core needs. Account management
// lives elsewhere; only display data is consumed here.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Handle    string    `json:"handle"`
	CreatedAt time.Time `json:"created_at"`
}

// FileResource is an asset attached to exactly one chart, filling one of the
// nine slots. The storage layer resolves Hash and URL before the resource
// reaches this core; absence of a slot is an expected state, not an error.
type FileResource struct {
	ID        uuid.UUID    `json:"id"`
	ChartID   uuid.UUID    `json:"chart_id"`
	Kind      ResourceKind `json:"kind"`
	Hash      string       `json:"hash"`
	URL       string       `json:"url"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// SRL returns the asset reference in wire form.
func (r *FileResource) SRL() SRL { return SRL{Hash: r.Hash, URL: r.URL} }

// Like records that a user liked a chart.
type Like struct {
	ChartID   uuid.UUID `json:"chart_id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ChartIDFilter narrows identifier listing and counting queries.
type ChartIDFilter struct {
	Genre      *Genre
	Visibility *Visibility
	RootOnly   bool
}
