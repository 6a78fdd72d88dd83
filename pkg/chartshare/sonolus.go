package chartshare

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
)

// Wire protocol constants. The name prefixes keep this content family from
// colliding with other families in the shared Sonolus namespace.
const (
	levelNamePrefix      = "chcy-"
	backgroundNamePrefix = "chcy-bg-"

	levelItemVersion      = 1
	backgroundItemVersion = 2

	engineAssetName = "pjsekai-extended"

	backgroundDataAssetPath          = "backgrounds/data.json.gz"
	backgroundConfigurationAssetPath = "backgrounds/configuration.json.gz"

	generateAssetEndpoint = "/sonolus/generate-asset"
)

// BackgroundVersion selects which versioned background slot the wire
// serializer renders. Tablet slots exist in the data model but are not
// reachable through this parameter.
type BackgroundVersion string

// Background version constants (typed).
const (
	BackgroundV1 BackgroundVersion = "v1"
	BackgroundV3 BackgroundVersion = "v3"
)

func (v BackgroundVersion) resourceKind() ResourceKind {
	return ResourceKind("background_" + string(v))
}

func (v BackgroundVersion) valid() bool {
	return v == BackgroundV1 || v == BackgroundV3
}

// SonolusOptions control the wire serialization.
type SonolusOptions struct {
	// BackgroundVersion defaults to v3 when unset.
	BackgroundVersion BackgroundVersion
}

// SRL is a Sonolus resource locator: a content hash plus retrieval URL.
// The zero value is the neutral placeholder for missing optional assets.
type SRL struct {
	Hash string `json:"hash"`
	URL  string `json:"url"`
}

// SonolusTag is a badge rendered under the level title.
type SonolusTag struct {
	Title string `json:"title"`
	Icon  string `json:"icon,omitempty"`
}

// SonolusUseDefault marks a capability the engine should supply itself.
type SonolusUseDefault struct {
	UseDefault bool `json:"useDefault"`
}

// SonolusUseBackground carries the always-custom background item.
type SonolusUseBackground struct {
	UseDefault bool               `json:"useDefault"`
	Item       *SonolusBackground `json:"item"`
}

// SonolusLevel is the external game-engine level envelope.
type SonolusLevel struct {
	Name          string               `json:"name"`
	Title         string               `json:"title"`
	Artists       string               `json:"artists"`
	Author        string               `json:"author"`
	Source        string               `json:"source"`
	Tags          []SonolusTag         `json:"tags"`
	Cover         SRL                  `json:"cover"`
	BGM           SRL                  `json:"bgm"`
	Preview       SRL                  `json:"preview"`
	Data          SRL                  `json:"data"`
	Rating        int                  `json:"rating"`
	Version       int                  `json:"version"`
	UseSkin       SonolusUseDefault    `json:"useSkin"`
	UseBackground SonolusUseBackground `json:"useBackground"`
	UseEffect     SonolusUseDefault    `json:"useEffect"`
	UseParticle   SonolusUseDefault    `json:"useParticle"`
	Engine        json.RawMessage      `json:"engine"`
}

// SonolusBackground is the derived background sub-object.
type SonolusBackground struct {
	Name          string       `json:"name"`
	Version       int          `json:"version"`
	Tags          []SonolusTag `json:"tags"`
	Source        string       `json:"source"`
	Title         string       `json:"title"`
	Subtitle      string       `json:"subtitle"`
	Author        string       `json:"author"`
	Thumbnail     SRL          `json:"thumbnail"`
	Data          SRL          `json:"data"`
	Image         SRL          `json:"image"`
	Configuration SRL          `json:"configuration"`
}

// SonolusLevel builds the wire envelope for a chart.
//
// Missing optional assets render as placeholders: cover/bgm/preview fall back
// to the zero SRL, data and the background image fall back to the
// generate-on-demand endpoint parameterized by chart name and asset type.
func (s *service) SonolusLevel(ctx context.Context, chart *Chart, opts SonolusOptions) (*SonolusLevel, error) {
	version := opts.BackgroundVersion
	if version == "" {
		version = BackgroundV3
	}
	if !version.valid() {
		return nil, &ChartError{ChartID: chart.ID, Op: "sonolus", Err: ErrInvalidBackgroundVersion}
	}

	author, err := s.author(ctx, chart)
	if err != nil {
		return nil, err
	}

	resources, err := s.Resources(ctx, chart)
	if err != nil {
		return nil, err
	}

	likes, err := s.repository.CountLikes(ctx, chart.ID)
	if err != nil {
		return nil, &ChartError{ChartID: chart.ID, Op: "sonolus", Err: err}
	}

	tags, err := s.repository.ListTags(ctx, chart.ID)
	if err != nil {
		return nil, &ChartError{ChartID: chart.ID, Op: "sonolus", Err: err}
	}

	engine, err := s.assets.Asset(ctx, "engine", engineAssetName)
	if err != nil {
		return nil, &ChartError{ChartID: chart.ID, Op: "sonolus", Err: err}
	}

	background, err := s.sonolusBackground(ctx, chart, author, resources, version)
	if err != nil {
		return nil, err
	}

	badges := make([]SonolusTag, 0, len(tags)+3)
	badges = append(badges, SonolusTag{Title: strconv.FormatInt(likes, 10), Icon: "heart"})
	badges = append(badges, s.visibilityTag(chart))
	if chart.Genre != GenreOthers {
		badges = append(badges, SonolusTag{
			Title: s.localizer.Localize("sonolus.levels.genres."+string(chart.Genre), nil),
		})
	}
	for _, tag := range tags {
		badges = append(badges, SonolusTag{Title: tag})
	}

	return &SonolusLevel{
		Name:    levelNamePrefix + chart.Name,
		Title:   chart.Title,
		Artists: fmt.Sprintf("%s / %s", chart.Composer, artistOrDash(chart.Artist)),
		Author:  authorDisplay(chart, author),
		Source:  s.host,
		Tags:    badges,
		Cover:   srlOrPlaceholder(resources.Get(ResourceKindCover)),
		BGM:     srlOrPlaceholder(resources.Get(ResourceKindBGM)),
		Preview: srlOrPlaceholder(resources.Get(ResourceKindPreview)),
		Data:    srlOrGenerated(resources.Get(ResourceKindData), chart.Name, "data"),
		Rating:  chart.Rating,
		Version: levelItemVersion,
		UseSkin: SonolusUseDefault{UseDefault: true},
		UseBackground: SonolusUseBackground{
			UseDefault: false,
			Item:       background,
		},
		UseEffect:   SonolusUseDefault{UseDefault: true},
		UseParticle: SonolusUseDefault{UseDefault: true},
		Engine:      engine,
	}, nil
}

// sonolusBackground builds the background sub-object from already-resolved
// resources so the level builder resolves the collection only once.
func (s *service) sonolusBackground(ctx context.Context, chart *Chart, author *User, resources ResolvedResources, version BackgroundVersion) (*SonolusBackground, error) {
	data, err := s.assets.Static(ctx, backgroundDataAssetPath)
	if err != nil {
		return nil, &ChartError{ChartID: chart.ID, Op: "sonolus_background", Err: err}
	}
	configuration, err := s.assets.Static(ctx, backgroundConfigurationAssetPath)
	if err != nil {
		return nil, &ChartError{ChartID: chart.ID, Op: "sonolus_background", Err: err}
	}

	subtitle := chart.Composer
	if chart.Artist != "" {
		subtitle += " / " + chart.Artist
	}

	kind := version.resourceKind()

	return &SonolusBackground{
		Name:    backgroundNamePrefix + chart.Name + "-" + string(version),
		Version: backgroundItemVersion,
		Tags:    []SonolusTag{},
		Source:  s.host,
		Title: s.localizer.Localize("sonolus.backgrounds.title", map[string]string{
			"name":    chart.Title,
			"version": s.localizer.Localize("sonolus.backgrounds.versions."+string(version), nil),
		}),
		Subtitle:      subtitle,
		Author:        authorDisplay(chart, author),
		Thumbnail:     srlOrPlaceholder(resources.Get(ResourceKindCover)),
		Data:          data,
		Image:         srlOrGenerated(resources.Get(kind), chart.Name, string(kind)),
		Configuration: configuration,
	}, nil
}

// visibilityTag renders exactly one badge describing the chart's state.
func (s *service) visibilityTag(chart *Chart) SonolusTag {
	switch chart.Visibility {
	case VisibilityPublic:
		ago := ""
		if chart.PublishedAt != nil {
			ago = humanize.Time(*chart.PublishedAt)
		}
		return SonolusTag{
			Title: s.localizer.Localize("sonolus.levels.published_at", map[string]string{"time": ago}),
		}
	case VisibilityScheduled:
		return SonolusTag{Title: s.localizer.Localize("sonolus.levels.visibility.scheduled", nil)}
	default:
		return SonolusTag{Title: s.localizer.Localize("sonolus.levels.visibility.private", nil)}
	}
}

// authorDisplay formats the display name with the handle discriminator,
// identically for levels and backgrounds.
func authorDisplay(chart *Chart, author *User) string {
	name := chart.AuthorName
	if name == "" {
		name = author.Name
	}
	return name + "#" + author.Handle
}

func artistOrDash(artist string) string {
	if artist == "" {
		return "-"
	}
	return artist
}

func srlOrPlaceholder(resource *FileResource) SRL {
	if resource == nil {
		return SRL{}
	}
	return resource.SRL()
}

// srlOrGenerated falls back to the generate-on-demand endpoint so missing
// canonical assets can be materialized lazily instead of failing.
func srlOrGenerated(resource *FileResource, chartName, assetType string) SRL {
	if resource == nil {
		return SRL{
			Hash: "",
			URL:  fmt.Sprintf("%s?chart=%s&type=%s", generateAssetEndpoint, chartName, assetType),
		}
	}
	return resource.SRL()
}
