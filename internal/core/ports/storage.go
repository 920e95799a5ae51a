package ports

import (
	"context"

	"github.com/GoArmGo/EntertainLit/internal/domain"
)

// ConsumptionStore — единственный источник истины о пользователях, записях и очках.
// Отсутствие сущности возвращается как (nil, nil), а не как ошибка.
type ConsumptionStore interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	// CreateUser возвращает domain.ErrConflict, если username или email заняты.
	CreateUser(ctx context.Context, input domain.NewUser) (*domain.User, error)
	// UpdateUserPoints перезаписывает баланс целиком, это не инкремент.
	UpdateUserPoints(ctx context.Context, id string, points int) (*domain.User, error)

	// CreateConsumptionLog считает очки, сохраняет запись и начисляет очки владельцу
	// одной неделимой операцией. Для неизвестного владельца возвращает domain.ErrUserNotFound
	// и ничего не сохраняет.
	CreateConsumptionLog(ctx context.Context, input domain.NewConsumptionLog) (*domain.ConsumptionLog, error)
	GetConsumptionLogs(ctx context.Context, userID string) ([]domain.ConsumptionLog, error)
	GetUserConsumptionStats(ctx context.Context, userID string) (domain.ConsumptionStats, error)
	GetActivityFeed(ctx context.Context) ([]domain.ConsumptionLog, error)
}

// ArchiveStorage — объектное хранилище для архивных копий записей (MinIO / S3).
type ArchiveStorage interface {
	UploadFile(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// Leaderboard — рейтинг пользователей по заработанным очкам.
type Leaderboard interface {
	// AddPoints начисляет очки сразу в общий зачёт и в зачёт категории.
	// Очки одной записи logID начисляются не более одного раза: повтор возвращает false.
	AddPoints(ctx context.Context, logID, userID, category string, points int) (bool, error)
	// Top с категорией domain.LeaderboardAllTime читает общий зачёт.
	Top(ctx context.Context, category string, limit int) ([]domain.LeaderboardEntry, error)
}
