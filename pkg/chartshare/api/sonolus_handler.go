package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/yumetaro/chart-share/pkg/chartshare"
)

const defaultRandomCount = 20

// SonolusHandler serves the game-engine facing endpoints: level envelopes by
// name and randomized discovery batches.
type SonolusHandler struct {
	service chartshare.Service
}

// NewSonolusHandler creates a new Sonolus handler
func NewSonolusHandler(service chartshare.Service) *SonolusHandler {
	return &SonolusHandler{service: service}
}

// Routes returns the routes for the Sonolus surface
func (h *SonolusHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/levels/{name}", h.GetLevel)
	r.Get("/levels", h.RandomLevels)

	return r
}

// LevelResponse wraps a level item the way list endpoints expect.
type LevelResponse struct {
	Item *chartshare.SonolusLevel `json:"item"`
}

// LevelListResponse is the randomized discovery batch.
type LevelListResponse struct {
	Items []*chartshare.SonolusLevel `json:"items"`
	Total int64                      `json:"total"`
}

// GetLevel serves a single level envelope by its prefixed wire name.
func (h *SonolusHandler) GetLevel(w http.ResponseWriter, r *http.Request) {
	wireName := chi.URLParam(r, "name")
	name, ok := strings.CutPrefix(wireName, "chcy-")
	if !ok {
		http.Error(w, "Unknown level name", http.StatusNotFound)
		return
	}

	chart, err := h.service.GetChartByName(r.Context(), name)
	if err != nil {
		slog.Error("Failed to get chart", "name", name, "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	opts := chartshare.SonolusOptions{}
	if v := r.URL.Query().Get("background"); v != "" {
		opts.BackgroundVersion = chartshare.BackgroundVersion(v)
	}

	level, err := h.service.SonolusLevel(r.Context(), chart, opts)
	if err != nil {
		slog.Error("Failed to serialize level", "name", name, "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	render.JSON(w, r, LevelResponse{Item: level})
}

// RandomLevels serves a randomized batch of eligible levels.
func (h *SonolusHandler) RandomLevels(w http.ResponseWriter, r *http.Request) {
	count := defaultRandomCount
	if v := r.URL.Query().Get("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "Invalid count", http.StatusBadRequest)
			return
		}
		count = n
	}

	genres, ok := parseGenres(r.URL.Query()["genre"])
	if !ok {
		http.Error(w, "Invalid genre", http.StatusBadRequest)
		return
	}

	ids, err := h.service.RandomChartIDs(r.Context(), count, genres...)
	if err != nil {
		slog.Error("Failed to pick random charts", "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	total, err := h.service.CountCharts(r.Context(), genres...)
	if err != nil {
		slog.Error("Failed to count charts", "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	items := make([]*chartshare.SonolusLevel, 0, len(ids))
	for _, id := range ids {
		chart, err := h.service.GetChart(r.Context(), id)
		if err != nil {
			// Pool entries are freshness-relaxed; a chart deleted or
			// hidden since the pool was sampled is skipped, not an error.
			slog.Warn("Skipping stale pool entry", "chart_id", id, "error", err)
			continue
		}
		if chart.Visibility != chartshare.VisibilityPublic {
			continue
		}
		level, err := h.service.SonolusLevel(r.Context(), chart, chartshare.SonolusOptions{})
		if err != nil {
			slog.Error("Failed to serialize level", "chart_id", id, "error", err)
			http.Error(w, err.Error(), statusForError(err))
			return
		}
		items = append(items, level)
	}

	render.JSON(w, r, LevelListResponse{Items: items, Total: total})
}

func parseGenres(values []string) ([]chartshare.Genre, bool) {
	known := chartshare.Genres()
	var genres []chartshare.Genre
	for _, v := range values {
		genre := chartshare.Genre(v)
		found := false
		for _, k := range known {
			if genre == k {
				found = true
				break
			}
		}
		if !found {
			return nil, false
		}
		genres = append(genres, genre)
	}
	return genres, true
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, chartshare.ErrChartNotFound), errors.Is(err, chartshare.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, chartshare.ErrInvalidBackgroundVersion):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func parseViewer(r *http.Request) *uuid.UUID {
	v := r.URL.Query().Get("viewer")
	if v == "" {
		return nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil
	}
	return &id
}
