package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/GoArmGo/EntertainLit/internal/core/ports"
	"github.com/GoArmGo/EntertainLit/internal/domain"
	"github.com/GoArmGo/EntertainLit/internal/metrics"
)

// SearchUnavailableMessage — ответ conversational-search при недоступности функции.
const SearchUnavailableMessage = "Search is currently unavailable. Please try again later."

const (
	fallbackTTL        = 24 * time.Hour
	fallbackMaxEntries = 1024
)

type mediaUseCase struct {
	functions ports.MediaFunctions // nil, если внешние функции не настроены

	searchCache        *fallbackCache[[]domain.MediaResult]
	notificationsCache *fallbackCache[[]domain.Notification]
	socialCache        *fallbackCache[[]domain.SocialPost]

	logger *slog.Logger
}

func NewMediaUseCase(functions ports.MediaFunctions, logger *slog.Logger) MediaUseCase {
	return &mediaUseCase{
		functions:          functions,
		searchCache:        newFallbackCache[[]domain.MediaResult](fallbackTTL, fallbackMaxEntries),
		notificationsCache: newFallbackCache[[]domain.Notification](fallbackTTL, fallbackMaxEntries),
		socialCache:        newFallbackCache[[]domain.SocialPost](fallbackTTL, fallbackMaxEntries),
		logger:             logger,
	}
}

// ErrFunctionsDisabled — внешние функции не настроены.
var ErrFunctionsDisabled = errors.New("hosted functions are not configured")

func (uc *mediaUseCase) Search(ctx context.Context, query, mediaType string) ([]domain.MediaResult, bool) {
	key := strings.ToLower(strings.TrimSpace(query)) + "|" + mediaType

	var (
		results []domain.MediaResult
		err     = ErrFunctionsDisabled
	)
	if uc.functions != nil {
		results, err = uc.functions.SearchMedia(ctx, query, mediaType)
	}
	if err == nil {
		if results == nil {
			results = []domain.MediaResult{}
		}
		uc.searchCache.Set(key, results)
		return results, false
	}

	uc.logger.Warn("media search degraded", "query", query, "type", mediaType, "error", err)
	return fallback(uc.searchCache, key, "media-search"), true
}

func (uc *mediaUseCase) ConversationalSearch(ctx context.Context, token, query string) *domain.ConversationalResult {
	if uc.functions == nil {
		return unavailableResult()
	}
	result, err := uc.functions.ConversationalSearch(ctx, token, query)
	if err != nil || result == nil {
		uc.logger.Warn("conversational search degraded", "error", err)
		metrics.RecordDegraded("conversational-search", "empty")
		return unavailableResult()
	}
	return result
}

func (uc *mediaUseCase) Track(ctx context.Context, token string, req domain.TrackMediaRequest) (map[string]any, error) {
	if uc.functions == nil {
		return nil, ErrFunctionsDisabled
	}
	resp, err := uc.functions.TrackMedia(ctx, token, req)
	if err != nil {
		return nil, fmt.Errorf("usecase: track media %q: %w", req.Media.Title, err)
	}
	return resp, nil
}

func (uc *mediaUseCase) Notifications(ctx context.Context, token, userID string) ([]domain.Notification, bool) {
	var (
		items []domain.Notification
		err   = ErrFunctionsDisabled
	)
	if uc.functions != nil {
		items, err = uc.functions.ListNotifications(ctx, token, userID)
	}
	if err == nil {
		if items == nil {
			items = []domain.Notification{}
		}
		uc.notificationsCache.Set(userID, items)
		return items, false
	}

	uc.logger.Warn("notifications degraded", "user_id", userID, "error", err)
	return fallback(uc.notificationsCache, userID, "notifications"), true
}

func (uc *mediaUseCase) SocialFeed(ctx context.Context, token string) ([]domain.SocialPost, bool) {
	const key = "social-feed"

	var (
		posts []domain.SocialPost
		err   = ErrFunctionsDisabled
	)
	if uc.functions != nil {
		posts, err = uc.functions.SocialFeed(ctx, token)
	}
	if err == nil {
		if posts == nil {
			posts = []domain.SocialPost{}
		}
		uc.socialCache.Set(key, posts)
		return posts, false
	}

	uc.logger.Warn("social feed degraded", "error", err)
	return fallback(uc.socialCache, key, "social-feed"), true
}

func fallback[T any](c *fallbackCache[[]T], key, function string) []T {
	if cached, ok := c.Get(key); ok {
		metrics.RecordDegraded(function, "cache")
		return cached
	}
	metrics.RecordDegraded(function, "empty")
	return []T{}
}

func unavailableResult() *domain.ConversationalResult {
	return &domain.ConversationalResult{Type: "error", Message: SearchUnavailableMessage}
}
