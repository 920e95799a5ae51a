package memory

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/GoArmGo/EntertainLit/internal/domain"
	"github.com/google/uuid"
)

// Store — хранилище пользователей и записей в памяти процесса.
// Всё состояние принадлежит одному объекту и защищено одним RWMutex:
// чтение-изменение-запись баланса в CreateConsumptionLog выполняется под эксклюзивной блокировкой.
// Перезапуск процесса теряет все данные.
type Store struct {
	mu     sync.RWMutex
	users  map[string]*domain.User
	logs   []domain.ConsumptionLog // в порядке вставки
	byUser map[string][]int        // userID -> индексы в logs

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

// NewStore создаёт пустое хранилище.
func NewStore(logger *slog.Logger, opts ...Option) *Store {
	s := &Store{
		users:  make(map[string]*domain.User),
		byUser: make(map[string][]int),
		now:    time.Now,
		newID:  uuid.NewString,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) GetUser(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) CreateUser(_ context.Context, input domain.NewUser) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == input.Username || u.Email == input.Email {
			s.logger.Warn("user already exists", "username", input.Username, "email", input.Email)
			return nil, fmt.Errorf("create user %q: %w", input.Username, domain.ErrConflict)
		}
	}

	u := &domain.User{
		ID:        s.newID(),
		Username:  input.Username,
		Email:     input.Email,
		CreatedAt: s.now(),
	}
	s.users[u.ID] = u

	s.logger.Info("user created", "user_id", u.ID, "username", u.Username)
	cp := *u
	return &cp, nil
}

func (s *Store) UpdateUserPoints(_ context.Context, id string, points int) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	u.Points = points
	cp := *u
	return &cp, nil
}

func (s *Store) CreateConsumptionLog(_ context.Context, input domain.NewConsumptionLog) (*domain.ConsumptionLog, error) {
	points := domain.CalculatePoints(input.Rating, input.Review)

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[input.UserID]
	if !ok {
		return nil, fmt.Errorf("create consumption log for %q: %w", input.UserID, domain.ErrUserNotFound)
	}

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
	s.insertLocked(l.Clone())
	u.Points += points

	s.logger.Info("consumption log created",
		"log_id", l.ID,
		"user_id", l.UserID,
		"category", l.Category,
		"points_earned", points,
		"balance", u.Points,
	)
	return &l, nil
}

func (s *Store) GetConsumptionLogs(_ context.Context, userID string) ([]domain.ConsumptionLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.byUser[userID]
	logs := make([]domain.ConsumptionLog, 0, len(idx))
	for i := len(idx) - 1; i >= 0; i-- {
		logs = append(logs, s.logs[idx[i]].Clone())
	}
	sortNewestFirst(logs)
	return logs, nil
}

func (s *Store) GetUserConsumptionStats(ctx context.Context, userID string) (domain.ConsumptionStats, error) {
	logs, err := s.GetConsumptionLogs(ctx, userID)
	if err != nil {
		return domain.ConsumptionStats{}, err
	}
	return domain.NewConsumptionStats(logs), nil
}

func (s *Store) GetActivityFeed(_ context.Context) ([]domain.ConsumptionLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	logs := make([]domain.ConsumptionLog, 0, len(s.logs))
	for i := len(s.logs) - 1; i >= 0; i-- {
		logs = append(logs, s.logs[i].Clone())
	}
	sortNewestFirst(logs)
	if len(logs) > domain.FeedLimit {
		logs = logs[:domain.FeedLimit]
	}
	return logs, nil
}

func (s *Store) insertLocked(l domain.ConsumptionLog) {
	s.logs = append(s.logs, l)
	s.byUser[l.UserID] = append(s.byUser[l.UserID], len(s.logs)-1)
}

// sortNewestFirst сортирует по убыванию createdAt; при равном времени
// сохраняется исходный порядок (вызывающие передают записи от новых к старым).
func sortNewestFirst(logs []domain.ConsumptionLog) {
	slices.SortStableFunc(logs, func(a, b domain.ConsumptionLog) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}
