package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// chatApology is returned when the AI backend is unreachable; the chat UI
// shows it as a normal assistant message rather than an error state.
const chatApology = "Sorry, something went wrong with the AI."

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Text string `json:"text"`
}

// Chat handles POST /api/chat: a direct pass-through of the user's message
// to the text generator. Generation failures degrade to an apology string
// with a 200, never an error response.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "Chat"))

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		WriteError(w, http.StatusBadRequest, "message is required")
		return
	}

	text, err := h.generator.GenerateText(r.Context(), req.Message)
	if err != nil {
		l.Warn("chat generation failed", slog.Any("error", err))
		text = chatApology
	}
	WriteJSON(w, http.StatusOK, chatResponse{Text: text})
}
