package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/EntertainLit/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Store реализует ports.ConsumptionStore поверх PostgreSQL с помощью GORM.
type Store struct {
	db     *gorm.DB
	now    func() time.Time
	newID  func() string
	logger *slog.Logger
}

// Option настраивает Store.
type Option func(*Store)

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator подменяет генератор идентификаторов.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// Open создаёт GORM-сессию поверх уже открытого пула sqlx.
func Open(db *sqlx.DB) (*gorm.DB, error) {
	gdb, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации GORM: %w", err)
	}
	return gdb, nil
}

func NewStore(db *gorm.DB, logger *slog.Logger, opts ...Option) *Store {
	s := &Store{
		db:     db,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("failed to get user", "user_id", id, "error", err)
		return nil, fmt.Errorf("ошибка при получении пользователя %s: %w", id, err)
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка при получении пользователя по email: %w", err)
	}
	return &user, nil
}

func (s *Store) CreateUser(ctx context.Context, input domain.NewUser) (*domain.User, error) {
	user := domain.User{
		ID:        s.newID(),
		Username:  input.Username,
		Email:     input.Email,
		CreatedAt: s.now(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&domain.User{}).
			Where("username = ? OR email = ?", input.Username, input.Email).
			Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return domain.ErrConflict
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) || errors.Is(err, gorm.ErrDuplicatedKey) {
			s.logger.Warn("user already exists", "username", input.Username, "email", input.Email)
			return nil, fmt.Errorf("create user %q: %w", input.Username, domain.ErrConflict)
		}
		s.logger.Error("failed to create user", "username", input.Username, "error", err)
		return nil, fmt.Errorf("ошибка при создании пользователя: %w", err)
	}

	s.logger.Info("user created", "user_id", user.ID, "username", user.Username)
	return &user, nil
}

func (s *Store) UpdateUserPoints(ctx context.Context, id string, points int) (*domain.User, error) {
	res := s.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("points", points)
	if res.Error != nil {
		s.logger.Error("failed to update user points", "user_id", id, "error", res.Error)
		return nil, fmt.Errorf("ошибка при обновлении очков пользователя %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return s.GetUser(ctx, id)
}

// CreateConsumptionLog вставляет запись и начисляет очки одной транзакцией.
// Начисление выполняется как points = points + ?, без чтения баланса.
func (s *Store) CreateConsumptionLog(ctx context.Context, input domain.NewConsumptionLog) (*domain.ConsumptionLog, error) {
	start := time.Now()
	points := domain.CalculatePoints(input.Rating, input.Review)

	now := s.now()
	consumedAt := now
	if input.ConsumedAt != nil && !input.ConsumedAt.IsZero() {
		consumedAt = *input.ConsumedAt
	}

	l := domain.ConsumptionLog{
		ID:           s.newID(),
		UserID:       input.UserID,
		Title:        input.Title,
		Category:     input.Category,
		Type:         input.Type,
		Rating:       input.Rating,
		Review:       input.Review,
		PointsEarned: points,
		ConsumedAt:   consumedAt,
		CreatedAt:    now,
	}.Clone()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owner domain.User
		if err := tx.Select("id").First(&owner, "id = ?", input.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}

		if err := tx.Create(&l).Error; err != nil {
			return err
		}

		res := tx.Model(&domain.User{}).
			Where("id = ?", input.UserID).
			UpdateColumn("points", gorm.Expr("points + ?", points))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("create consumption log for %q: %w", input.UserID, domain.ErrUserNotFound)
		}
		s.logger.Error("failed to create consumption log", "user_id", input.UserID, "error", err)
		return nil, fmt.Errorf("ошибка при сохранении записи: %w", err)
	}

	s.logger.Info("consumption log created",
		"log_id", l.ID,
		"user_id", l.UserID,
		"category", l.Category,
		"points_earned", points,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &l, nil
}

func (s *Store) GetConsumptionLogs(ctx context.Context, userID string) ([]domain.ConsumptionLog, error) {
	logs := make([]domain.ConsumptionLog, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&logs).Error
	if err != nil {
		s.logger.Error("failed to list consumption logs", "user_id", userID, "error", err)
		return nil, fmt.Errorf("ошибка при получении записей пользователя %s: %w", userID, err)
	}
	return logs, nil
}

type categoryTotals struct {
	Category string
	Logged   int
	Points   int
}

// GetUserConsumptionStats агрегирует записи на стороне БД.
func (s *Store) GetUserConsumptionStats(ctx context.Context, userID string) (domain.ConsumptionStats, error) {
	var rows []categoryTotals
	err := s.db.WithContext(ctx).
		Model(&domain.ConsumptionLog{}).
		Select("category, COUNT(*) AS logged, COALESCE(SUM(points_earned), 0) AS points").
		Where("user_id = ?", userID).
		Group("category").
		Scan(&rows).Error
	if err != nil {
		s.logger.Error("failed to aggregate consumption stats", "user_id", userID, "error", err)
		return domain.ConsumptionStats{}, fmt.Errorf("ошибка при подсчёте статистики %s: %w", userID, err)
	}

	stats := domain.ConsumptionStats{CategoriesCount: make(map[string]int, len(rows))}
	for _, r := range rows {
		stats.TotalLogged += r.Logged
		stats.PointsEarned += r.Points
		stats.CategoriesCount[r.Category] = r.Logged
	}
	return stats, nil
}

func (s *Store) GetActivityFeed(ctx context.Context) ([]domain.ConsumptionLog, error) {
	logs := make([]domain.ConsumptionLog, 0, domain.FeedLimit)
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(domain.FeedLimit).
		Find(&logs).Error
	if err != nil {
		s.logger.Error("failed to load activity feed", "error", err)
		return nil, fmt.Errorf("ошибка при получении ленты активности: %w", err)
	}
	return logs, nil
}

// SeedDemoData создаёт демо-пользователя и его записи, если таблица пользователей пуста.
func (s *Store) SeedDemoData(ctx context.Context) error {
	user, logs := domain.DemoData(s.now())
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.User{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
		if err := tx.Create(&logs).Error; err != nil {
			return fmt.Errorf("seed logs: %w", err)
		}
		s.logger.Info("demo data seeded", "user_id", user.ID, "logs", len(logs))
		return nil
	})
}
