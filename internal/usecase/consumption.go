package usecase

import (
	"context"

	"github.com/GoArmGo/EntertainLit/internal/domain"
	"github.com/GoArmGo/EntertainLit/internal/messaging/payloads"
)

// ConsumptionUseCase определяет бизнес-логику учёта потребления контента.
type ConsumptionUseCase interface {
	// GetUser возвращает domain.ErrUserNotFound, если пользователя нет.
	GetUser(ctx context.Context, id string) (*domain.User, error)

	// ListLogs возвращает записи пользователя, новые первыми. Неизвестный пользователь даёт пустой список.
	ListLogs(ctx context.Context, userID string) ([]domain.ConsumptionLog, error)

	// CreateLog создаёт запись от имени callerID. Пустой callerID даёт domain.ErrUnauthenticated,
	// неизвестный — domain.ErrUserNotFound. UserID и очки во входных данных игнорируются.
	CreateLog(ctx context.Context, callerID string, input domain.NewConsumptionLog) (*domain.ConsumptionLog, error)

	Stats(ctx context.Context, userID string) (domain.ConsumptionStats, error)
	ActivityFeed(ctx context.Context) ([]domain.ConsumptionLog, error)
	Recommendations(ctx context.Context, userID string) ([]domain.Recommendation, error)
}

// LeaderboardUseCase отдаёт таблицу лидеров.
type LeaderboardUseCase interface {
	// Top возвращает до limit записей категории; limit вне 1..MaxLeaderboardLimit приводится к границам.
	Top(ctx context.Context, category string, limit int) ([]domain.LeaderboardEntry, error)
}

// MediaUseCase проксирует внешние функции с деградацией.
// Флаг degraded означает, что ответ взят из кэша или пуст из-за сбоя.
type MediaUseCase interface {
	Search(ctx context.Context, query, mediaType string) (results []domain.MediaResult, degraded bool)
	ConversationalSearch(ctx context.Context, token, query string) *domain.ConversationalResult
	Track(ctx context.Context, token string, req domain.TrackMediaRequest) (map[string]any, error)
	Notifications(ctx context.Context, token, userID string) (notifications []domain.Notification, degraded bool)
	SocialFeed(ctx context.Context, token string) (posts []domain.SocialPost, degraded bool)
}

// ActivityHandler обрабатывает событие о новой записи.
type ActivityHandler interface {
	HandleConsumptionLogged(ctx context.Context, payload payloads.ConsumptionLoggedPayload) error
}
