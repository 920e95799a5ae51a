package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/GoArmGo/EntertainLit/internal/core/ports"
	"github.com/GoArmGo/EntertainLit/internal/database/memory"
	"github.com/GoArmGo/EntertainLit/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConsumptionFixture(t *testing.T, publisher ports.ActivityPublisher) (ConsumptionUseCase, *memory.Store, *domain.User) {
	t.Helper()
	store := memory.NewStore(discardLogger())
	user, err := store.CreateUser(context.Background(), domain.NewUser{Username: "reader", Email: "reader@example.com"})
	require.NoError(t, err)

	return NewConsumptionUseCase(store, publisher, NewCuratedRecommender(), discardLogger()), store, user
}

func TestConsumption_GetUser(t *testing.T) {
	uc, _, user := newConsumptionFixture(t, nil)

	got, err := uc.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = uc.GetUser(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestConsumption_CreateLog_UsesCallerIdentity(t *testing.T) {
	pub := &fakePublisher{}
	uc, store, user := newConsumptionFixture(t, pub)
	ctx := context.Background()

	rating := 5
	review := strings.Repeat("r", 51)
	log, err := uc.CreateLog(ctx, user.ID, domain.NewConsumptionLog{
		UserID:   "someone-else",
		Title:    "Dune",
		Category: "books",
		Type:     "book",
		Rating:   &rating,
		Review:   &review,
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, log.UserID)
	assert.Equal(t, 18, log.PointsEarned)

	got, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 18, got.Points)

	require.Len(t, pub.published, 1)
	assert.Equal(t, log.ID, pub.published[0].LogID)
	assert.Equal(t, "books", pub.published[0].Category)
	assert.Equal(t, 18, pub.published[0].PointsEarned)
}

func TestConsumption_CreateLog_Errors(t *testing.T) {
	uc, _, _ := newConsumptionFixture(t, nil)
	input := domain.NewConsumptionLog{Title: "Heat", Category: "movies", Type: "movie"}

	_, err := uc.CreateLog(context.Background(), "", input)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = uc.CreateLog(context.Background(), "ghost", input)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestConsumption_CreateLog_PublishFailureIsNotFatal(t *testing.T) {
	pub := &fakePublisher{err: errBoom}
	uc, store, user := newConsumptionFixture(t, pub)
	ctx := context.Background()

	log, err := uc.CreateLog(ctx, user.ID, domain.NewConsumptionLog{Title: "Heat", Category: "movies", Type: "movie"})
	require.NoError(t, err)
	assert.Equal(t, 10, log.PointsEarned)

	logs, err := store.GetConsumptionLogs(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestConsumption_StatsAndFeed(t *testing.T) {
	uc, _, user := newConsumptionFixture(t, nil)
	ctx := context.Background()

	for _, c := range []string{"movies", "movies", "tv"} {
		_, err := uc.CreateLog(ctx, user.ID, domain.NewConsumptionLog{Title: "T", Category: c, Type: "x"})
		require.NoError(t, err)
	}

	stats, err := uc.Stats(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalLogged)
	assert.Equal(t, 30, stats.PointsEarned)
	assert.Equal(t, map[string]int{"movies": 2, "tv": 1}, stats.CategoriesCount)

	feed, err := uc.ActivityFeed(ctx)
	require.NoError(t, err)
	assert.Len(t, feed, 3)

	logs, err := uc.ListLogs(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 3)
}

func TestConsumption_Recommendations(t *testing.T) {
	uc, _, user := newConsumptionFixture(t, nil)
	ctx := context.Background()

	recs, err := uc.Recommendations(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"rec-1", "rec-2", "rec-3"}, []string{recs[0].ID, recs[1].ID, recs[2].ID})

	_, err = uc.CreateLog(ctx, user.ID, domain.NewConsumptionLog{Title: "T", Category: "tv", Type: "show"})
	require.NoError(t, err)

	recs, err = uc.Recommendations(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "rec-4", recs[0].ID)
	assert.Equal(t, "House of the Dragon", recs[0].Title)
}

func TestCuratedRecommender_ReturnsCopies(t *testing.T) {
	r := NewCuratedRecommender()
	first := r.Recommend(nil)
	first[0].Title = "changed"

	second := r.Recommend(nil)
	assert.Equal(t, "The Bear", second[0].Title)
}
