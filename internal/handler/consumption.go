package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/GoArmGo/EntertainLit/internal/domain"
	"github.com/GoArmGo/EntertainLit/internal/usecase"
	"github.com/GoArmGo/EntertainLit/internal/validation"
	"github.com/go-chi/chi/v5"
)

// ConsumptionHandler — обработчик HTTP-запросов учёта потребления.
type ConsumptionHandler struct {
	consumptionUseCase usecase.ConsumptionUseCase
	logger             *slog.Logger
}

// NewConsumptionHandler создаёт новый экземпляр ConsumptionHandler.
func NewConsumptionHandler(uc usecase.ConsumptionUseCase, logger *slog.Logger) *ConsumptionHandler {
	return &ConsumptionHandler{
		consumptionUseCase: uc,
		logger:             logger,
	}
}

// Register вешает маршруты на роутер.
func (h *ConsumptionHandler) Register(r chi.Router) {
	r.Get("/api/users/{userId}", h.GetUser)
	r.Get("/api/users/{userId}/consumption", h.ListLogs)
	r.Get("/api/users/{userId}/consumption/stats", h.Stats)
	r.Get("/api/users/{userId}/recommendations", h.Recommendations)
	r.Post("/api/consumption", h.CreateLog)
	r.Get("/api/consumption/feed", h.ActivityFeed)
}

// createConsumptionRequest — принимаемые поля новой записи.
// pointsEarned и userId намеренно отсутствуют: их задаёт сервер.
type createConsumptionRequest struct {
	Title      string     `json:"title" validate:"notblank"`
	Category   string     `json:"category" validate:"notblank"`
	Type       string     `json:"type" validate:"notblank"`
	Rating     *int       `json:"rating" validate:"omitempty,min=1,max=5"`
	Review     *string    `json:"review"`
	ConsumedAt *time.Time `json:"consumedAt"`
}

// GetUser обрабатывает GET /api/users/{userId}.
func (h *ConsumptionHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	user, err := h.consumptionUseCase.GetUser(r.Context(), userID)
	if err != nil {
		respondWithDomainError(w, r, err, "Failed to fetch user", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, user, h.logger)
}

// ListLogs обрабатывает GET /api/users/{userId}/consumption.
func (h *ConsumptionHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	logs, err := h.consumptionUseCase.ListLogs(r.Context(), userID)
	if err != nil {
		respondWithDomainError(w, r, err, "Failed to fetch consumption logs", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, logs, h.logger)
}

// CreateLog обрабатывает POST /api/consumption от имени вызывающего.
func (h *ConsumptionHandler) CreateLog(w http.ResponseWriter, r *http.Request) {
	callerID := CallerID(r.Context())
	if callerID == "" {
		respondWithDomainError(w, r, domain.ErrUnauthenticated, "Failed to create consumption log", h.logger)
		return
	}

	var req createConsumptionRequest
	if verr := decodeJSONBody(w, r, &req); verr != nil {
		h.logger.Warn("invalid consumption log payload", "user_id", callerID, "error", verr)
		respondWithValidationError(w, "Invalid consumption log data", verr, h.logger)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		h.logger.Warn("invalid consumption log payload", "user_id", callerID, "error", verr)
		respondWithValidationError(w, "Invalid consumption log data", verr, h.logger)
		return
	}

	log, err := h.consumptionUseCase.CreateLog(r.Context(), callerID, domain.NewConsumptionLog{
		Title:      req.Title,
		Category:   req.Category,
		Type:       req.Type,
		Rating:     req.Rating,
		Review:     req.Review,
		ConsumedAt: req.ConsumedAt,
	})
	if err != nil {
		respondWithDomainError(w, r, err, "Failed to create consumption log", h.logger)
		return
	}

	respondWithJSON(w, http.StatusCreated, log, h.logger)
}

// Stats обрабатывает GET /api/users/{userId}/consumption/stats.
func (h *ConsumptionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	stats, err := h.consumptionUseCase.Stats(r.Context(), userID)
	if err != nil {
		respondWithDomainError(w, r, err, "Failed to fetch consumption stats", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, stats, h.logger)
}

// ActivityFeed обрабатывает GET /api/consumption/feed.
func (h *ConsumptionHandler) ActivityFeed(w http.ResponseWriter, r *http.Request) {
	feed, err := h.consumptionUseCase.ActivityFeed(r.Context())
	if err != nil {
		respondWithDomainError(w, r, err, "Failed to fetch activity feed", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, feed, h.logger)
}

// Recommendations обрабатывает GET /api/users/{userId}/recommendations.
func (h *ConsumptionHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	recs, err := h.consumptionUseCase.Recommendations(r.Context(), userID)
	if err != nil {
		respondWithDomainError(w, r, err, "Failed to generate recommendations", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, recs, h.logger)
}
