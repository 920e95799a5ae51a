package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/GoArmGo/EntertainLit/internal/core/ports"
	"github.com/GoArmGo/EntertainLit/internal/domain"
)

const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)

type leaderboardUseCase struct {
	board ports.Leaderboard
}

func NewLeaderboardUseCase(board ports.Leaderboard) LeaderboardUseCase {
	return &leaderboardUseCase{board: board}
}

func (uc *leaderboardUseCase) Top(ctx context.Context, category string, limit int) ([]domain.LeaderboardEntry, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		category = domain.LeaderboardAllTime
	}
	switch {
	case limit <= 0:
		limit = DefaultLeaderboardLimit
	case limit > MaxLeaderboardLimit:
		limit = MaxLeaderboardLimit
	}

	entries, err := uc.board.Top(ctx, category, limit)
	if err != nil {
		return nil, fmt.Errorf("usecase: leaderboard %q: %w", category, err)
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	return entries, nil
}
