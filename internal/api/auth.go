package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"heritage/internal/auth"
	"heritage/internal/users"
)

type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	State    string `json:"state"`
	Bio      string `json:"bio"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// authResponse mirrors the shape the web client has always consumed:
// the HTTP status is repeated in the body next to a message and a token.
type authResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Token   string `json:"token"`
}

func writeAuth(w http.ResponseWriter, status int, message, token string) {
	WriteJSON(w, status, authResponse{Status: status, Message: message, Token: token})
}

// Register handles POST /api/register: creates an account and issues a
// 7-day credential.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "Register"))

	if h.users == nil {
		writeAuth(w, http.StatusInternalServerError, "Server error", "")
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuth(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeAuth(w, http.StatusBadRequest, "username, email and password are required", "")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		l.Error("hashing password failed", slog.Any("error", err))
		writeAuth(w, http.StatusInternalServerError, "Server error", "")
		return
	}

	id, err := h.users.Create(r.Context(), users.User{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: hash,
		State:    req.State,
		Bio:      req.Bio,
	})
	if err != nil {
		if errors.Is(err, users.ErrDuplicate) {
			writeAuth(w, http.StatusBadRequest, "Email or Username already exists", "")
			return
		}
		l.Error("creating user failed", slog.Any("error", err))
		writeAuth(w, http.StatusInternalServerError, "Server error", "")
		return
	}

	token, err := h.tokens.Issue(id)
	if err != nil {
		l.Error("issuing token failed", slog.Any("error", err))
		writeAuth(w, http.StatusInternalServerError, "Server error", "")
		return
	}
	writeAuth(w, http.StatusOK, "Registration successful", token)
}

// Login handles POST /api/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "Login"))

	if h.users == nil {
		writeAuth(w, http.StatusInternalServerError, "Server error", "")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuth(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	user, err := h.users.ByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			writeAuth(w, http.StatusNotFound, "User not found", "")
			return
		}
		l.Error("fetching user failed", slog.Any("error", err))
		writeAuth(w, http.StatusInternalServerError, "Server error", "")
		return
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		writeAuth(w, http.StatusUnauthorized, "Invalid credentials", "")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		l.Error("issuing token failed", slog.Any("error", err))
		writeAuth(w, http.StatusInternalServerError, "Server error", "")
		return
	}
	writeAuth(w, http.StatusOK, "Login successful", token)
}
