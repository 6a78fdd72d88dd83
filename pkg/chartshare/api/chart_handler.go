package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/yumetaro/chart-share/pkg/chartshare"
)

// ChartHandler serves the internal (front-end facing) chart views.
//
// The viewer identity arrives as a query parameter; authenticating it is the
// caller's concern, outside this core.
type ChartHandler struct {
	service chartshare.Service
}

// NewChartHandler creates a new chart handler
func NewChartHandler(service chartshare.Service) *ChartHandler {
	return &ChartHandler{service: service}
}

// Routes returns the routes for charts
func (h *ChartHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/count", h.CountCharts)
	r.Get("/{name}", h.GetChart)

	return r
}

// CountResponse is the response body for the chart count
type CountResponse struct {
	Count int64 `json:"count"`
}

// GetChart serves the view serialization of a chart by its slug.
func (h *ChartHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	chart, err := h.service.GetChartByName(r.Context(), name)
	if err != nil {
		slog.Error("Failed to get chart", "name", name, "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	view, err := h.service.ChartView(r.Context(), chart, parseViewer(r), chartshare.ViewOptions{
		WithResources: true,
		VariantDepth:  chartshare.MaxVariantDepth,
	})
	if err != nil {
		slog.Error("Failed to serialize chart view", "name", name, "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	render.JSON(w, r, view)
}

// CountCharts serves the cached eligible-chart count.
func (h *ChartHandler) CountCharts(w http.ResponseWriter, r *http.Request) {
	genres, ok := parseGenres(r.URL.Query()["genre"])
	if !ok {
		http.Error(w, "Invalid genre", http.StatusBadRequest)
		return
	}

	count, err := h.service.CountCharts(r.Context(), genres...)
	if err != nil {
		slog.Error("Failed to count charts", "error", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	render.JSON(w, r, CountResponse{Count: count})
}
