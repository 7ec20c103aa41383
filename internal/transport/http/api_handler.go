package http

import (
	"encoding/json"
	"net/http"

	"mathblast/internal/app"
	"mathblast/internal/auth"
	"mathblast/internal/domain"
)

// APIHandler serves the token-gated REST endpoints. Store failures come
// back as 500 with the underlying message; the middleware has already
// rejected unauthenticated callers by the time these run.
type APIHandler struct {
	scoreboard *app.ScoreboardService
}

func NewAPIHandler(scoreboard *app.ScoreboardService) *APIHandler {
	return &APIHandler{scoreboard: scoreboard}
}

// Users handles GET /users: a full scan of the user collection.
func (h *APIHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.scoreboard.ListUsers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if users == nil {
		users = []domain.UserRecord{}
	}
	writeJSON(w, http.StatusOK, users)
}

// CreateUser handles POST /users: the JSON body is stored verbatim.
func (h *APIHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var doc map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	id, err := h.scoreboard.CreateUser(r.Context(), doc)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

// Leaderboard handles GET /leaderboard: top ten scores, best first.
func (h *APIHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := h.scoreboard.Leaderboard(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if board == nil {
		board = []domain.ScoreRecord{}
	}
	writeJSON(w, http.StatusOK, board)
}

// MyHistory handles GET /scores/me: the caller's last ten games.
func (h *APIHandler) MyHistory(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}
	history, err := h.scoreboard.History(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if history == nil {
		history = []domain.ScoreRecord{}
	}
	writeJSON(w, http.StatusOK, history)
}
