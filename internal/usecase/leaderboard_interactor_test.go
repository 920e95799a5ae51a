package usecase

import (
	"context"
	"testing"

	"github.com/GoArmGo/EntertainLit/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaderboard_TopNormalizesArguments(t *testing.T) {
	tests := []struct {
		name         string
		category     string
		limit        int
		wantCategory string
		wantLimit    int
	}{
		{name: "defaults", category: "", limit: 0, wantCategory: domain.LeaderboardAllTime, wantLimit: DefaultLeaderboardLimit},
		{name: "negative limit", category: "books", limit: -3, wantCategory: "books", wantLimit: DefaultLeaderboardLimit},
		{name: "too large", category: " tv ", limit: 1000, wantCategory: "tv", wantLimit: MaxLeaderboardLimit},
		{name: "in range", category: "movies", limit: 25, wantCategory: "movies", wantLimit: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := &fakeLeaderboard{}
			entries, err := NewLeaderboardUseCase(board).Top(context.Background(), tt.category, tt.limit)
			require.NoError(t, err)
			assert.NotNil(t, entries)
			assert.Equal(t, tt.wantCategory, board.lastCategory)
			assert.Equal(t, tt.wantLimit, board.lastLimit)
		})
	}
}

func TestLeaderboard_TopError(t *testing.T) {
	_, err := NewLeaderboardUseCase(&fakeLeaderboard{err: errBoom}).Top(context.Background(), "", 5)
	assert.ErrorIs(t, err, errBoom)
}
