package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/GoArmGo/EntertainLit/internal/domain"
	"github.com/GoArmGo/EntertainLit/internal/usecase"
	"github.com/GoArmGo/EntertainLit/internal/validation"
	"github.com/go-chi/chi/v5"
)

// MediaHandler проксирует поиск, трекинг, уведомления и соцленту во внешние функции.
type MediaHandler struct {
	mediaUseCase usecase.MediaUseCase
	logger       *slog.Logger
}

func NewMediaHandler(uc usecase.MediaUseCase, logger *slog.Logger) *MediaHandler {
	return &MediaHandler{mediaUseCase: uc, logger: logger}
}

func (h *MediaHandler) Register(r chi.Router) {
	r.Get("/api/search", h.Search)
	r.Post("/api/search/conversational", h.ConversationalSearch)
	r.Post("/api/track", h.Track)
	r.Get("/api/notifications", h.Notifications)
	r.Get("/api/social-feed", h.SocialFeed)
}

type searchResponse struct {
	Results []domain.MediaResult `json:"results"`
}

type conversationalRequest struct {
	Query string `json:"query" validate:"notblank"`
}

type trackMediaRequest struct {
	Media struct {
		Title          string `json:"title" validate:"notblank"`
		MediaType      string `json:"mediaType" validate:"notblank"`
		Creator        string `json:"creator"`
		ImageURL       string `json:"imageUrl"`
		ExternalID     string `json:"externalId"`
		ExternalSource string `json:"externalSource"`
		Description    string `json:"description"`
	} `json:"media"`
	Rating *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Review *string `json:"review"`
	ListID *string `json:"listId"`
}

func markDegraded(w http.ResponseWriter, degraded bool) {
	if degraded {
		w.Header().Set(HeaderDegraded, "true")
	}
}

// Search обрабатывает GET /api/search?q=&type=.
func (h *MediaHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respondWithError(w, http.StatusBadRequest, "q is required", h.logger)
		return
	}

	results, degraded := h.mediaUseCase.Search(r.Context(), query, r.URL.Query().Get("type"))
	markDegraded(w, degraded)
	respondWithJSON(w, http.StatusOK, searchResponse{Results: results}, h.logger)
}

// ConversationalSearch обрабатывает POST /api/search/conversational.
func (h *MediaHandler) ConversationalSearch(w http.ResponseWriter, r *http.Request) {
	var req conversationalRequest
	if verr := decodeJSONBody(w, r, &req); verr != nil {
		respondWithValidationError(w, "Invalid search request", verr, h.logger)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondWithValidationError(w, "Invalid search request", verr, h.logger)
		return
	}

	result := h.mediaUseCase.ConversationalSearch(r.Context(), bearerToken(r), req.Query)
	markDegraded(w, result.Type == "error")
	respondWithJSON(w, http.StatusOK, result, h.logger)
}

// Track обрабатывает POST /api/track, добавляет медиа в список вызывающего.
func (h *MediaHandler) Track(w http.ResponseWriter, r *http.Request) {
	callerID := CallerID(r.Context())
	if callerID == "" {
		respondWithDomainError(w, r, domain.ErrUnauthenticated, "Failed to track media", h.logger)
		return
	}

	var req trackMediaRequest
	if verr := decodeJSONBody(w, r, &req); verr != nil {
		respondWithValidationError(w, "Invalid track media data", verr, h.logger)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondWithValidationError(w, "Invalid track media data", verr, h.logger)
		return
	}

	resp, err := h.mediaUseCase.Track(r.Context(), bearerToken(r), domain.TrackMediaRequest{
		Media: domain.TrackedMedia{
			Title:          req.Media.Title,
			MediaType:      req.Media.MediaType,
			Creator:        req.Media.Creator,
			ImageURL:       req.Media.ImageURL,
			ExternalID:     req.Media.ExternalID,
			ExternalSource: req.Media.ExternalSource,
			Description:    req.Media.Description,
		},
		Rating: req.Rating,
		Review: req.Review,
		ListID: req.ListID,
	})
	if err != nil {
		h.logger.Error("failed to track media", "user_id", callerID, "title", req.Media.Title, "error", err)
		respondWithError(w, http.StatusBadGateway, "Failed to track media", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, resp, h.logger)
}

// Notifications обрабатывает GET /api/notifications для вызывающего.
func (h *MediaHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	callerID := CallerID(r.Context())
	if callerID == "" {
		respondWithDomainError(w, r, domain.ErrUnauthenticated, "Failed to fetch notifications", h.logger)
		return
	}

	items, degraded := h.mediaUseCase.Notifications(r.Context(), bearerToken(r), callerID)
	markDegraded(w, degraded)
	respondWithJSON(w, http.StatusOK, items, h.logger)
}

// SocialFeed обрабатывает GET /api/social-feed.
func (h *MediaHandler) SocialFeed(w http.ResponseWriter, r *http.Request) {
	posts, degraded := h.mediaUseCase.SocialFeed(r.Context(), bearerToken(r))
	markDegraded(w, degraded)
	respondWithJSON(w, http.StatusOK, posts, h.logger)
}
