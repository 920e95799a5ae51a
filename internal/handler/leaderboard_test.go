package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/GoArmGo/EntertainLit/internal/domain"
	"github.com/GoArmGo/EntertainLit/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBoard struct {
	category string
	limit    int
}

func (b *stubBoard) AddPoints(context.Context, string, string, string, int) (bool, error) {
	return true, nil
}

func (b *stubBoard) Top(_ context.Context, category string, limit int) ([]domain.LeaderboardEntry, error) {
	b.category, b.limit = category, limit
	return []domain.LeaderboardEntry{{Rank: 1, UserID: "user-1", Score: 42}}, nil
}

func TestLeaderboard(t *testing.T) {
	board := &stubBoard{}
	r := chi.NewRouter()
	NewLeaderboardHandler(usecase.NewLeaderboardUseCase(board), discardLogger()).Register(r)

	rec := serve(r, http.MethodGet, "/api/leaderboard", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"rank":1,"userId":"user-1","score":42}]`, rec.Body.String())
	assert.Equal(t, domain.LeaderboardAllTime, board.category)
	assert.Equal(t, usecase.DefaultLeaderboardLimit, board.limit)

	rec = serve(r, http.MethodGet, "/api/leaderboard?category=books&limit=3", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "books", board.category)
	assert.Equal(t, 3, board.limit)

	for _, bad := range []string{"0", "101", "ten"} {
		rec = serve(r, http.MethodGet, "/api/leaderboard?limit="+bad, "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}
}
