package api

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"heritage/internal/events"
	"heritage/internal/metrics"
	"heritage/internal/models"
	"heritage/internal/sites"
	"heritage/pkg/overpass"
)

// DefaultRadiusMeters is used when the request omits the radius parameter.
const DefaultRadiusMeters = 5000

// SitesResponse is the body of a successful nearby-site search.
type SitesResponse struct {
	Count int           `json:"count"`
	Sites []models.Site `json:"sites"`
}

// GetSites handles GET /api/sites?lat=..&lon=..&radius=..: it queries the
// geodata upstream around the given point, normalizes the elements and
// returns them sorted by ascending distance from the point.
func (h *Handler) GetSites(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	l := h.logger.With(slog.String("handler", "GetSites"))

	q := r.URL.Query()
	lat, _ := strconv.ParseFloat(q.Get("lat"), 64)
	lon, _ := strconv.ParseFloat(q.Get("lon"), 64)
	ref := models.Coordinate{Lat: lat, Lon: lon}

	// A coordinate that is missing, unparsable, non-finite or exactly zero is
	// rejected alike; ParseFloat accepts "NaN" and "Inf" without error, so the
	// zero check alone would let those through to the upstream. The zero case
	// is a long-standing quirk of this endpoint that callers rely on; see
	// TestGetSites_ZeroCoordinateQuirk.
	if lat == 0 || lon == 0 || !ref.Valid() {
		WriteError(w, http.StatusBadRequest, "lat & lon are required")
		return
	}

	radius := float64(DefaultRadiusMeters)
	if v := q.Get("radius"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) || parsed <= 0 {
			WriteError(w, http.StatusBadRequest, "radius must be a positive number")
			return
		}
		radius = parsed
	}

	metrics.SearchesTotal.Inc()
	query := overpass.BuildQuery(lat, lon, radius)
	resp, err := h.fetcher.Fetch(r.Context(), query)
	if err != nil {
		if errors.Is(err, overpass.ErrAllEndpointsUnavailable) {
			metrics.UpstreamFailuresTotal.Inc()
		}
		l.Error("overpass fetch failed", slog.Any("error", err))
		WriteError(w, http.StatusInternalServerError, "Failed to fetch heritage sites")
		return
	}

	found := sites.Normalize(resp.Elements)
	metrics.ElementsDroppedTotal.Add(float64(len(resp.Elements) - len(found)))

	ranked := sites.RankByDistance(&ref, found)

	// Archive and analytics run off the request path; their failures are
	// logged and never surfaced to the caller.
	if h.publisher != nil || h.archiver != nil {
		go h.recordSearch(ref, radius, len(ranked), resp)
	}

	metrics.SearchDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	WriteJSON(w, http.StatusOK, SitesResponse{Count: len(ranked), Sites: ranked})
}

func (h *Handler) recordSearch(ref models.Coordinate, radius float64, count int, raw *overpass.Response) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := h.publisher.PublishSearch(ctx, events.SearchEvent{
		Lat:       ref.Lat,
		Lon:       ref.Lon,
		Radius:    radius,
		Count:     count,
		Timestamp: time.Now().UTC(),
	}); err != nil {
		h.logger.Warn("publishing search event failed", slog.Any("error", err))
	}

	if err := h.archiver.StoreSearch(ctx, raw); err != nil {
		h.logger.Warn("archiving search payload failed", slog.Any("error", err))
	}
}
