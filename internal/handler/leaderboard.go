package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/GoArmGo/EntertainLit/internal/usecase"
	"github.com/go-chi/chi/v5"
)

// LeaderboardHandler отдаёт таблицу лидеров.
type LeaderboardHandler struct {
	leaderboardUseCase usecase.LeaderboardUseCase
	logger             *slog.Logger
}

func NewLeaderboardHandler(uc usecase.LeaderboardUseCase, logger *slog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardUseCase: uc, logger: logger}
}

func (h *LeaderboardHandler) Register(r chi.Router) {
	r.Get("/api/leaderboard", h.Top)
}

// Top обрабатывает GET /api/leaderboard?category=&limit=.
func (h *LeaderboardHandler) Top(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	limit := usecase.DefaultLeaderboardLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > usecase.MaxLeaderboardLimit {
			h.logger.Warn("invalid leaderboard limit", "limit", raw)
			respondWithError(w, http.StatusBadRequest, "limit must be an integer between 1 and 100", h.logger)
			return
		}
		limit = n
	}

	entries, err := h.leaderboardUseCase.Top(r.Context(), category, limit)
	if err != nil {
		respondWithDomainError(w, r, err, "Failed to fetch leaderboard", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, entries, h.logger)
}
