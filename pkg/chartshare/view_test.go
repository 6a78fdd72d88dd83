package chartshare_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yumetaro/chart-share/pkg/chartshare"
)

func TestChartViewVisibilityGating(t *testing.T) {
	svc, repo := setupTestService(t)
	ctx := context.Background()
	author := createTestUser(t, repo, "Ann", "1234")

	tests := []struct {
		name        string
		visibility  chartshare.Visibility
		expectChart bool
	}{
		{"public exposes chart asset", chartshare.VisibilityPublic, true},
		{"private withholds chart asset", chartshare.VisibilityPrivate, false},
		{"scheduled withholds chart asset", chartshare.VisibilityScheduled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chart := createTestChart(t, repo, author, func(c *chartshare.Chart) {
				c.Visibility = tt.visibility
			})
			addResource(t, repo, chart, chartshare.ResourceKindChart, "notation", "https://cdn.example.com/notation")

			view, err := svc.ChartView(ctx, chart, nil, chartshare.ViewOptions{WithResources: true})
			require.NoError(t, err)

			if tt.expectChart {
				require.NotNil(t, view.Chart)
				assert.Equal(t, "notation", view.Chart.Hash)
			} else {
				assert.Nil(t, view.Chart)
			}
		})
	}
}

func TestChartViewTimestamps(t *testing.T) {
	svc, repo := setupTestService(t)
	ctx := context.Background()
	author := createTestUser(t, repo, "Ann", "1234")

	t.Run("public chart has publishedAt, no scheduledAt", func(t *testing.T) {
		chart := createTestChart(t, repo, author, nil)

		view, err := svc.ChartView(ctx, chart, nil, chartshare.ViewOptions{})
		require.NoError(t, err)
		assert.NotNil(t, view.PublishedAt)
		assert.Nil(t, view.ScheduledAt)
		assert.NotEmpty(t, view.UpdatedAt)
	})

	t.Run("scheduled chart has scheduledAt, no publishedAt", func(t *testing.T) {
		chart := createTestChart(t, repo, author, func(c *chartshare.Chart) {
			c.Visibility = chartshare.VisibilityScheduled
			c.ScheduledAt = c.PublishedAt
		})

		view, err := svc.ChartView(ctx, chart, nil, chartshare.ViewOptions{})
		require.NoError(t, err)
		assert.Nil(t, view.PublishedAt)
		assert.NotNil(t, view.ScheduledAt)
	})

	t.Run("private chart has neither", func(t *testing.T) {
		chart := createTestChart(t, repo, author, func(c *chartshare.Chart) {
			c.Visibility = chartshare.VisibilityPrivate
		})

		view, err := svc.ChartView(ctx, chart, nil, chartshare.ViewOptions{})
		require.NoError(t, err)
		assert.Nil(t, view.PublishedAt)
		assert.Nil(t, view.ScheduledAt)
	})
}

func TestChartViewLiked(t *testing.T) {
	svc, repo := setupTestService(t)
	ctx := context.Background()
	author := createTestUser(t, repo, "Ann", "1234")
	fan := createTestUser(t, repo, "Fan", "5678")
	chart := createTestChart(t, repo, author, nil)
	require.NoError(t, repo.AddLike(ctx, chart.ID, fan.ID))

	t.Run("anonymous viewer is never liked", func(t *testing.T) {
		view, err := svc.ChartView(ctx, chart, nil, chartshare.ViewOptions{})
		require.NoError(t, err)
		assert.False(t, view.Liked)
		assert.Equal(t, int64(1), view.Likes)
	})

	t.Run("viewer with a like record", func(t *testing.T) {
		view, err := svc.ChartView(ctx, chart, &fan.ID, chartshare.ViewOptions{})
		require.NoError(t, err)
		assert.True(t, view.Liked)
	})

	t.Run("viewer without a like record", func(t *testing.T) {
		view, err := svc.ChartView(ctx, chart, &author.ID, chartshare.ViewOptions{})
		require.NoError(t, err)
		assert.False(t, view.Liked)
	})
}

func TestChartViewVariantEmbedding(t *testing.T) {
	svc, repo := setupTestService(t)
	ctx := context.Background()
	author := createTestUser(t, repo, "Ann", "1234")

	parent := createTestChart(t, repo, author, nil)
	variant := createTestChart(t, repo, author, func(c *chartshare.Chart) {
		c.VariantID = &parent.ID
	})
	createTestChart(t, repo, author, func(c *chartshare.Chart) {
		c.VariantID = &parent.ID
		c.Visibility = chartshare.VisibilityPrivate
	})

	t.Run("depth zero embeds nothing", func(t *testing.T) {
		view, err := svc.ChartView(ctx, parent, nil, chartshare.ViewOptions{})
		require.NoError(t, err)
		assert.Empty(t, view.Variants)
		assert.Nil(t, view.VariantOf)
	})

	t.Run("depth one embeds a single level", func(t *testing.T) {
		view, err := svc.ChartView(ctx, parent, nil, chartshare.ViewOptions{VariantDepth: 1})
		require.NoError(t, err)

		// Only the public variant is embedded, and the embedded views
		// carry no further embedding.
		require.Len(t, view.Variants, 1)
		assert.Equal(t, variant.Name, view.Variants[0].Name)
		assert.Empty(t, view.Variants[0].Variants)
		assert.Nil(t, view.Variants[0].VariantOf)
	})

	t.Run("variant embeds its parent at depth one", func(t *testing.T) {
		view, err := svc.ChartView(ctx, variant, nil, chartshare.ViewOptions{VariantDepth: 1})
		require.NoError(t, err)

		require.NotNil(t, view.VariantOf)
		assert.Equal(t, parent.Name, view.VariantOf.Name)
		assert.Empty(t, view.VariantOf.Variants)
		assert.Nil(t, view.VariantOf.VariantOf)
	})

	t.Run("depth is clamped to one level", func(t *testing.T) {
		view, err := svc.ChartView(ctx, parent, nil, chartshare.ViewOptions{VariantDepth: 5})
		require.NoError(t, err)
		require.Len(t, view.Variants, 1)
		assert.Empty(t, view.Variants[0].Variants)
	})
}

func TestChartViewCollections(t *testing.T) {
	svc, repo := setupTestService(t)
	ctx := context.Background()
	author := createTestUser(t, repo, "Ann", "1234")
	co := createTestUser(t, repo, "Co", "9999")
	chart := createTestChart(t, repo, author, func(c *chartshare.Chart) {
		c.AuthorName = "Annie"
	})
	require.NoError(t, repo.AddCoAuthor(ctx, chart.ID, co.ID))
	require.NoError(t, repo.AddTag(ctx, chart.ID, "fast"))
	addResource(t, repo, chart, chartshare.ResourceKindCover, "cov", "https://cdn.example.com/cov")

	view, err := svc.ChartView(ctx, chart, nil, chartshare.ViewOptions{WithResources: true})
	require.NoError(t, err)

	assert.Equal(t, chartshare.UserView{Name: "Ann", Handle: "1234"}, view.Author)
	assert.Equal(t, "Annie", view.AuthorName)
	require.Len(t, view.CoAuthors, 1)
	assert.Equal(t, "Co", view.CoAuthors[0].Name)
	assert.Equal(t, []string{"fast"}, view.Tags)
	require.NotNil(t, view.Cover)
	assert.Equal(t, "cov", view.Cover.Hash)
	assert.Nil(t, view.BGM)
	assert.Nil(t, view.Data)
}

func TestChartViewWithoutResources(t *testing.T) {
	svc, repo := setupTestService(t)
	ctx := context.Background()
	author := createTestUser(t, repo, "Ann", "1234")
	chart := createTestChart(t, repo, author, nil)
	addResource(t, repo, chart, chartshare.ResourceKindCover, "cov", "https://cdn.example.com/cov")

	view, err := svc.ChartView(ctx, chart, nil, chartshare.ViewOptions{WithResources: false})
	require.NoError(t, err)
	assert.Nil(t, view.Cover)
	assert.Nil(t, view.Chart)
}
