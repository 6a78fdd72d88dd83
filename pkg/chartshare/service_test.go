package chartshare_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yumetaro/chart-share/pkg/chartshare"
	memorycache "github.com/yumetaro/chart-share/pkg/chartshare/cache/memory"
	"github.com/yumetaro/chart-share/pkg/chartshare/repo/memory"
)

func TestServiceCreation(t *testing.T) {
	tests := []struct {
		name        string
		options     []chartshare.Option
		expectError bool
	}{
		{
			name:        "no options should fail",
			options:     []chartshare.Option{},
			expectError: true,
		},
		{
			name: "repository only should fail",
			options: []chartshare.Option{
				chartshare.WithRepository(memory.New()),
			},
			expectError: true,
		},
		{
			name: "with repository and cache should succeed",
			options: []chartshare.Option{
				chartshare.WithRepository(memory.New()),
				chartshare.WithCache(memorycache.New()),
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := chartshare.New(tt.options...)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, svc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func setupTestService(t *testing.T) (chartshare.Service, chartshare.Repository) {
	t.Helper()

	repo := memory.New()
	svc, err := chartshare.New(
		chartshare.WithRepository(repo),
		chartshare.WithCache(memorycache.New()),
		chartshare.WithSourceHost("https://charts.example.com"),
	)
	require.NoError(t, err)
	require.NotNil(t, svc)

	return svc, repo
}

func createTestUser(t *testing.T, repo chartshare.Repository, name, handle string) *chartshare.User {
	t.Helper()

	user := &chartshare.User{
		ID:        uuid.New(),
		Name:      name,
		Handle:    handle,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

func createTestChart(t *testing.T, repo chartshare.Repository, author *chartshare.User, mutate func(*chartshare.Chart)) *chartshare.Chart {
	t.Helper()

	now := time.Now().UTC()
	published := now.Add(-72 * time.Hour)
	chart := &chartshare.Chart{
		ID:          uuid.New(),
		Name:        "chart-" + uuid.NewString()[:8],
		Title:       "Test Song",
		Composer:    "Composer",
		Artist:      "Artist",
		Rating:      27,
		Genre:       chartshare.GenrePops,
		ChartType:   chartshare.ChartTypeSUS,
		AuthorID:    author.ID,
		Visibility:  chartshare.VisibilityPublic,
		PublishedAt: &published,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if mutate != nil {
		mutate(chart)
	}
	require.NoError(t, repo.CreateChart(context.Background(), chart))
	return chart
}

func addResource(t *testing.T, repo chartshare.Repository, chart *chartshare.Chart, kind chartshare.ResourceKind, hash, url string) {
	t.Helper()

	now := time.Now().UTC()
	require.NoError(t, repo.AddFileResource(context.Background(), &chartshare.FileResource{
		ID:        uuid.New(),
		ChartID:   chart.ID,
		Kind:      kind,
		Hash:      hash,
		URL:       url,
		CreatedAt: now,
		UpdatedAt: now,
	}))
}

func TestGetChartByName(t *testing.T) {
	svc, repo := setupTestService(t)
	ctx := context.Background()

	author := createTestUser(t, repo, "Ann", "1234")
	chart := createTestChart(t, repo, author, nil)

	found, err := svc.GetChartByName(ctx, chart.Name)
	require.NoError(t, err)
	assert.Equal(t, chart.ID, found.ID)

	_, err = svc.GetChartByName(ctx, "no-such-chart")
	assert.ErrorIs(t, err, chartshare.ErrChartNotFound)
}

func TestVariants(t *testing.T) {
	svc, repo := setupTestService(t)
	ctx := context.Background()

	author := createTestUser(t, repo, "Ann", "1234")
	parent := createTestChart(t, repo, author, nil)
	public := createTestChart(t, repo, author, func(c *chartshare.Chart) {
		c.VariantID = &parent.ID
	})
	private := createTestChart(t, repo, author, func(c *chartshare.Chart) {
		c.VariantID = &parent.ID
		c.Visibility = chartshare.VisibilityPrivate
		c.PublishedAt = nil
	})

	t.Run("default withholds private children", func(t *testing.T) {
		variants, err := svc.Variants(ctx, parent, false)
		require.NoError(t, err)
		require.Len(t, variants, 1)
		assert.Equal(t, public.ID, variants[0].ID)
	})

	t.Run("includePrivate returns all children", func(t *testing.T) {
		variants, err := svc.Variants(ctx, parent, true)
		require.NoError(t, err)
		assert.Len(t, variants, 2)
	})

	t.Run("parent resolves variant_of", func(t *testing.T) {
		got, err := svc.Parent(ctx, private)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, parent.ID, got.ID)
	})

	t.Run("parent of root chart is nil", func(t *testing.T) {
		got, err := svc.Parent(ctx, parent)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestChartViewMissingAuthor(t *testing.T) {
	svc, repo := setupTestService(t)
	ctx := context.Background()

	// Author never created in the store: surfaced, not defaulted.
	orphan := &chartshare.Chart{
		ID:         uuid.New(),
		Name:       "orphan",
		Title:      "Orphan",
		Composer:   "Composer",
		Genre:      chartshare.GenreOthers,
		AuthorID:   uuid.New(),
		Visibility: chartshare.VisibilityPrivate,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	require.NoError(t, repo.CreateChart(ctx, orphan))

	_, err := svc.ChartView(ctx, orphan, nil, chartshare.ViewOptions{})
	assert.ErrorIs(t, err, chartshare.ErrUserNotFound)

	orphan.AuthorID = uuid.Nil
	_, err = svc.ChartView(ctx, orphan, nil, chartshare.ViewOptions{})
	assert.ErrorIs(t, err, chartshare.ErrAuthorMissing)
}
