package ports

import (
	"context"

	"github.com/GoArmGo/EntertainLit/internal/domain"
)

// MediaFunctions — внешние хостинговые функции (поиск, трекинг, уведомления, соцлента).
// Реализация обязана ограничивать каждый вызов таймаутом; token — bearer-токен вызывающего.
type MediaFunctions interface {
	SearchMedia(ctx context.Context, query, mediaType string) ([]domain.MediaResult, error)
	ConversationalSearch(ctx context.Context, token, query string) (*domain.ConversationalResult, error)
	TrackMedia(ctx context.Context, token string, req domain.TrackMediaRequest) (map[string]any, error)
	ListNotifications(ctx context.Context, token, userID string) ([]domain.Notification, error)
	SocialFeed(ctx context.Context, token string) ([]domain.SocialPost, error)
}
