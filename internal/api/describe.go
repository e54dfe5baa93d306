package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"heritage/internal/describe"
	"heritage/pkg/gemini"
)

type describeRequest struct {
	SiteID string `json:"siteId"`
	Name   string `json:"name"`
	State  string `json:"state"`
}

type describeResponse struct {
	Text string `json:"text"`
}

// Describe handles POST /api/describe. With a siteId and a session header
// the description is cached per session, so repeated requests for the same
// site issue exactly one upstream call. Without a siteId the request is a
// plain pass-through to the text generator.
func (h *Handler) Describe(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "Describe"))

	var req describeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		WriteError(w, http.StatusBadRequest, "name is required")
		return
	}

	var text string
	var err error
	if req.SiteID != "" {
		text, err = h.enricher.Describe(r.Context(), h.sessionCache(r), req.SiteID, req.Name, req.State)
	} else {
		text, err = h.generator.GenerateText(r.Context(), describe.Prompt(req.Name, req.State))
	}
	if err != nil {
		if errors.Is(err, gemini.ErrNoAPIKey) {
			WriteError(w, http.StatusBadRequest, "GEMINI_API_KEY missing")
			return
		}
		l.Error("description fetch failed", slog.String("site", req.SiteID), slog.Any("error", err))
		WriteError(w, http.StatusInternalServerError, "Failed to generate description")
		return
	}

	WriteJSON(w, http.StatusOK, describeResponse{Text: text})
}
