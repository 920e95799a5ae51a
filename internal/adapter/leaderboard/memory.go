package leaderboard

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/GoArmGo/EntertainLit/internal/domain"
)

// MemoryLeaderboard — таблица лидеров в памяти для запуска без Redis.
type MemoryLeaderboard struct {
	mu      sync.RWMutex
	boards  map[string]map[string]int // ключ доски -> userID -> очки
	applied map[string]struct{}       // logID уже начисленных записей
}

func NewMemoryLeaderboard() *MemoryLeaderboard {
	return &MemoryLeaderboard{
		boards:  make(map[string]map[string]int),
		applied: make(map[string]struct{}),
	}
}

func (l *MemoryLeaderboard) AddPoints(_ context.Context, logID, userID, category string, points int) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.applied[logID]; ok {
		return false, nil
	}
	l.applied[logID] = struct{}{}

	keys := []string{Key(domain.LeaderboardAllTime)}
	if category != domain.LeaderboardAllTime {
		keys = append(keys, Key(category))
	}
	for _, key := range keys {
		board, ok := l.boards[key]
		if !ok {
			board = make(map[string]int)
			l.boards[key] = board
		}
		board[userID] += points
	}
	return true, nil
}

// Top упорядочивает по убыванию очков, при равенстве — как Redis ZREVRANGE, по убыванию userID.
func (l *MemoryLeaderboard) Top(_ context.Context, category string, limit int) ([]domain.LeaderboardEntry, error) {
	l.mu.RLock()
	board := l.boards[Key(category)]
	entries := make([]domain.LeaderboardEntry, 0, len(board))
	for userID, score := range board {
		entries = append(entries, domain.LeaderboardEntry{UserID: userID, Score: score})
	}
	l.mu.RUnlock()

	slices.SortFunc(entries, func(a, b domain.LeaderboardEntry) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(b.UserID, a.UserID)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}
