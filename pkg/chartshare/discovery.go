package chartshare

import (
	"context"
	"encoding/json"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Discovery cache parameters. Pools are a freshness-relaxed view of the
// eligibility predicate (public, root, per genre), not authoritative data:
// staleness within the TTL and duplicate refreshes on expiry are accepted.
const (
	// RandomChartsCacheCount caps the per-genre identifier pool.
	RandomChartsCacheCount = 100

	randomChartsCacheTTL = time.Hour
	chartCountCacheTTL   = 5 * time.Minute
)

func randomChartsCacheKey(genre Genre) string {
	return "sonolus:random_charts:" + string(genre)
}

func chartCountCacheKey(genre Genre) string {
	return "sonolus:num_charts:" + string(genre)
}

// RandomChartIDs returns up to count identifiers drawn uniformly without
// replacement across the cached per-genre pools. No genres means all genres.
// The result is intentionally nondeterministic.
func (s *service) RandomChartIDs(ctx context.Context, count int, genres ...Genre) ([]uuid.UUID, error) {
	if len(genres) == 0 {
		genres = Genres()
	}

	var pool []uuid.UUID
	for _, genre := range genres {
		ids, err := s.genrePool(ctx, genre)
		if err != nil {
			return nil, err
		}
		pool = append(pool, ids...)
	}

	return sampleIDs(pool, count), nil
}

// CountCharts returns the summed cached count of eligible charts per genre.
func (s *service) CountCharts(ctx context.Context, genres ...Genre) (int64, error) {
	if len(genres) == 0 {
		genres = Genres()
	}

	var total int64
	for _, genre := range genres {
		n, err := s.genreCount(ctx, genre)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// genrePool fetches the cached identifier pool for a genre, refreshing it
// from the store on miss or expiry.
func (s *service) genrePool(ctx context.Context, genre Genre) ([]uuid.UUID, error) {
	key := randomChartsCacheKey(genre)

	data, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, &DiscoveryError{Genre: genre, Op: "pool_get", Err: err}
	}
	if hit {
		var ids []uuid.UUID
		if err := json.Unmarshal(data, &ids); err == nil {
			return ids, nil
		}
		// Undecodable entry: treat as a miss and recompute.
	}

	visibility := VisibilityPublic
	eligible, err := s.repository.ListChartIDs(ctx, ChartIDFilter{
		Genre:      &genre,
		Visibility: &visibility,
		RootOnly:   true,
	})
	if err != nil {
		return nil, &DiscoveryError{Genre: genre, Op: "pool_refresh", Err: err}
	}

	ids := sampleIDs(eligible, RandomChartsCacheCount)

	payload, err := json.Marshal(ids)
	if err != nil {
		return nil, &DiscoveryError{Genre: genre, Op: "pool_encode", Err: err}
	}
	if err := s.cache.Set(ctx, key, payload, randomChartsCacheTTL); err != nil {
		return nil, &DiscoveryError{Genre: genre, Op: "pool_set", Err: err}
	}

	return ids, nil
}

// genreCount fetches the cached eligible-chart count for a genre.
func (s *service) genreCount(ctx context.Context, genre Genre) (int64, error) {
	key := chartCountCacheKey(genre)

	data, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		return 0, &DiscoveryError{Genre: genre, Op: "count_get", Err: err}
	}
	if hit {
		if n, err := strconv.ParseInt(string(data), 10, 64); err == nil {
			return n, nil
		}
	}

	visibility := VisibilityPublic
	n, err := s.repository.CountCharts(ctx, ChartIDFilter{
		Genre:      &genre,
		Visibility: &visibility,
		RootOnly:   true,
	})
	if err != nil {
		return 0, &DiscoveryError{Genre: genre, Op: "count_refresh", Err: err}
	}

	if err := s.cache.Set(ctx, key, []byte(strconv.FormatInt(n, 10)), chartCountCacheTTL); err != nil {
		return 0, &DiscoveryError{Genre: genre, Op: "count_set", Err: err}
	}

	return n, nil
}

// sampleIDs draws up to count identifiers uniformly without replacement. When
// count meets or exceeds the input size the whole set is returned shuffled.
func sampleIDs(ids []uuid.UUID, count int) []uuid.UUID {
	if count < 0 {
		count = 0
	}
	shuffled := make([]uuid.UUID, len(ids))
	copy(shuffled, ids)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if count < len(shuffled) {
		shuffled = shuffled[:count]
	}
	return shuffled
}
