package memory

import (
	"context"

	"github.com/GoArmGo/EntertainLit/internal/domain"
)

// SeedDemoData заполняет пустое хранилище демо-пользователем и двумя записями.
func (s *Store) SeedDemoData(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.users) > 0 || len(s.logs) > 0 {
		return nil
	}

	user, logs := domain.DemoData(s.now())
	s.users[user.ID] = &user
	for _, l := range logs {
		s.insertLocked(l)
	}

	s.logger.Info("demo data seeded", "user_id", user.ID, "logs", len(logs))
	return nil
}
