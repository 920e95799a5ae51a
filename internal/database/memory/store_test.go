package memory

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/GoArmGo/EntertainLit/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tickClock возвращает время, которое сдвигается на 1ms при каждом вызове.
func tickClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	cur := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		cur = cur.Add(time.Millisecond)
		return cur
	}
}

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	return NewStore(slog.New(slog.DiscardHandler), opts...)
}

func createUser(t *testing.T, s *Store, name string) *domain.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), domain.NewUser{Username: name, Email: name + "@example.com"})
	require.NoError(t, err)
	return u
}

func TestStore_CreateUser(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u, err := s.CreateUser(ctx, domain.NewUser{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, 0, u.Points)
	assert.Equal(t, 0, u.TotalWinnings)
	assert.False(t, u.CreatedAt.IsZero())

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, got)

	byEmail, err := s.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, u.ID, byEmail.ID)
}

func TestStore_CreateUser_Conflict(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	createUser(t, s, "alice")

	_, err := s.CreateUser(ctx, domain.NewUser{Username: "alice", Email: "other@example.com"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = s.CreateUser(ctx, domain.NewUser{Username: "bob", Email: "alice@example.com"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestStore_Absence(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u, err := s.GetUser(ctx, "missing")
	assert.NoError(t, err)
	assert.Nil(t, u)

	u, err = s.GetUserByEmail(ctx, "missing@example.com")
	assert.NoError(t, err)
	assert.Nil(t, u)

	u, err = s.UpdateUserPoints(ctx, "missing", 10)
	assert.NoError(t, err)
	assert.Nil(t, u)
}

func TestStore_UpdateUserPoints_Overwrites(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := createUser(t, s, "alice")

	updated, err := s.UpdateUserPoints(ctx, u.ID, 500)
	require.NoError(t, err)
	assert.Equal(t, 500, updated.Points)

	updated, err = s.UpdateUserPoints(ctx, u.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Points)
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := createUser(t, s, "alice")

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	got.Points = 9999

	again, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Points)

	rating := 4
	review := "great"
	_, err = s.CreateConsumptionLog(ctx, domain.NewConsumptionLog{
		UserID: u.ID, Title: "Dune", Category: "books", Type: "book", Rating: &rating, Review: &review,
	})
	require.NoError(t, err)
	rating, review = 1, "changed by caller"

	logs, err := s.GetConsumptionLogs(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	*logs[0].Rating = 2
	*logs[0].Review = "changed by reader"

	feed, err := s.GetActivityFeed(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, 4, *feed[0].Rating)
	assert.Equal(t, "great", *feed[0].Review)
}

func TestStore_CreateConsumptionLog_DuneScenario(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := createUser(t, s, "reader")

	rating := 5
	review := strings.Repeat("x", 60)
	l, err := s.CreateConsumptionLog(ctx, domain.NewConsumptionLog{
		UserID:   u.ID,
		Title:    "Dune",
		Category: "books",
		Type:     "book",
		Rating:   &rating,
		Review:   &review,
	})
	require.NoError(t, err)
	assert.Equal(t, 18, l.PointsEarned)
	assert.Equal(t, u.ID, l.UserID)

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 18, got.Points)

	stats, err := s.GetUserConsumptionStats(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalLogged)
	assert.Equal(t, 18, stats.PointsEarned)
	assert.Equal(t, map[string]int{"books": 1}, stats.CategoriesCount)
}

func TestStore_CreateConsumptionLog_ShortReviewNoRating(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := createUser(t, s, "viewer")

	review := "0123456789"
	l, err := s.CreateConsumptionLog(ctx, domain.NewConsumptionLog{
		UserID: u.ID, Title: "Heat", Category: "movies", Type: "movie", Review: &review,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, l.PointsEarned)
}

func TestStore_CreateConsumptionLog_DefaultConsumedAt(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := createUser(t, s, "viewer")

	l, err := s.CreateConsumptionLog(ctx, domain.NewConsumptionLog{
		UserID: u.ID, Title: "Heat", Category: "movies", Type: "movie",
	})
	require.NoError(t, err)
	assert.Equal(t, l.CreatedAt, l.ConsumedAt)

	past := time.Date(2020, 1, 1, 20, 0, 0, 0, time.UTC)
	l, err = s.CreateConsumptionLog(ctx, domain.NewConsumptionLog{
		UserID: u.ID, Title: "Heat", Category: "movies", Type: "movie", ConsumedAt: &past,
	})
	require.NoError(t, err)
	assert.Equal(t, past, l.ConsumedAt)
	assert.NotEqual(t, past, l.CreatedAt)
}

func TestStore_CreateConsumptionLog_UnknownUser(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.CreateConsumptionLog(ctx, domain.NewConsumptionLog{
		UserID: "ghost", Title: "Heat", Category: "movies", Type: "movie",
	})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	feed, err := s.GetActivityFeed(ctx)
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestStore_BalanceConservation_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := createUser(t, s, "busy")
	other := createUser(t, s, "other")

	const n = 50
	long := strings.Repeat("y", 80)
	var wg sync.WaitGroup
	expected := make([]int, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			input := domain.NewConsumptionLog{UserID: u.ID, Title: "Ep", Category: "tv", Type: "episode"}
			if i%2 == 0 {
				r := 3
				input.Rating = &r
			}
			if i%3 == 0 {
				input.Review = &long
			}
			l, err := s.CreateConsumptionLog(ctx, input)
			if err != nil {
				t.Errorf("create log: %v", err)
				return
			}
			expected[i] = l.PointsEarned
		}(i)

		// параллельная нагрузка на другого пользователя
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.CreateConsumptionLog(ctx, domain.NewConsumptionLog{UserID: other.ID, Title: "X", Category: "music", Type: "album"})
		}()
	}
	wg.Wait()

	sum := 0
	for _, p := range expected {
		sum += p
	}

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, sum, got.Points)

	stats, err := s.GetUserConsumptionStats(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, n, stats.TotalLogged)
	assert.Equal(t, sum, stats.PointsEarned)

	otherUser, err := s.GetUser(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, n*domain.BasePoints, otherUser.Points)
}

func TestStore_StatsConsistency(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, WithClock(tickClock(time.Now())))
	users := []*domain.User{createUser(t, s, "a"), createUser(t, s, "b"), createUser(t, s, "c")}
	categories := []string{"movies", "tv", "books", "custom-new-category"}

	for i := 0; i < 30; i++ {
		u := users[i%len(users)]
		input := domain.NewConsumptionLog{UserID: u.ID, Title: "T", Category: categories[i%len(categories)], Type: "t"}
		if i%4 == 0 {
			r := 1
			input.Rating = &r
		}
		_, err := s.CreateConsumptionLog(ctx, input)
		require.NoError(t, err)
	}

	for _, u := range users {
		logs, err := s.GetConsumptionLogs(ctx, u.ID)
		require.NoError(t, err)
		stats, err := s.GetUserConsumptionStats(ctx, u.ID)
		require.NoError(t, err)

		assert.Equal(t, len(logs), stats.TotalLogged)
		sum := 0
		count := 0
		for _, l := range logs {
			assert.Equal(t, u.ID, l.UserID)
			sum += l.PointsEarned
		}
		for _, c := range stats.CategoriesCount {
			count += c
		}
		assert.Equal(t, sum, stats.PointsEarned)
		assert.Equal(t, stats.TotalLogged, count)
	}

	empty, err := s.GetUserConsumptionStats(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.TotalLogged)
	assert.Empty(t, empty.CategoriesCount)
}

func TestStore_GetConsumptionLogs_NewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, WithClock(tickClock(time.Now())))
	u := createUser(t, s, "viewer")

	for _, title := range []string{"first", "second", "third"} {
		_, err := s.CreateConsumptionLog(ctx, domain.NewConsumptionLog{UserID: u.ID, Title: title, Category: "movies", Type: "movie"})
		require.NoError(t, err)
	}

	logs, err := s.GetConsumptionLogs(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, "third", logs[0].Title)
	assert.Equal(t, "second", logs[1].Title)
	assert.Equal(t, "first", logs[2].Title)

	none, err := s.GetConsumptionLogs(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestStore_GetConsumptionLogs_SameTimestampKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := newTestStore(t, WithClock(func() time.Time { return fixed }))
	u := createUser(t, s, "viewer")

	for _, title := range []string{"a", "b", "c"} {
		_, err := s.CreateConsumptionLog(ctx, domain.NewConsumptionLog{UserID: u.ID, Title: title, Category: "movies", Type: "movie"})
		require.NoError(t, err)
	}

	logs, err := s.GetConsumptionLogs(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, []string{logs[0].Title, logs[1].Title, logs[2].Title})
}

func TestStore_GetActivityFeed_OrderAndCap(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, WithClock(tickClock(time.Now())))
	a := createUser(t, s, "a")
	b := createUser(t, s, "b")

	for i := 0; i < 75; i++ {
		u := a
		if i%2 == 1 {
			u = b
		}
		_, err := s.CreateConsumptionLog(ctx, domain.NewConsumptionLog{UserID: u.ID, Title: "T", Category: "games", Type: "game"})
		require.NoError(t, err)
	}

	feed, err := s.GetActivityFeed(ctx)
	require.NoError(t, err)
	assert.Len(t, feed, domain.FeedLimit)
	for i := 1; i < len(feed); i++ {
		assert.False(t, feed[i].CreatedAt.After(feed[i-1].CreatedAt), "feed must be newest first")
	}
}

func TestStore_SeedDemoData(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.SeedDemoData(ctx))
	require.NoError(t, s.SeedDemoData(ctx)) // повторный вызов ничего не добавляет

	u, err := s.GetUser(ctx, domain.DemoUserID)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, 1250, u.Points)

	logs, err := s.GetConsumptionLogs(ctx, domain.DemoUserID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "SmartLess", logs[0].Title)
	assert.Equal(t, 10, logs[0].PointsEarned)
	assert.Equal(t, 15, logs[1].PointsEarned)

	stats, err := s.GetUserConsumptionStats(ctx, domain.DemoUserID)
	require.NoError(t, err)
	assert.Equal(t, 25, stats.PointsEarned)
}
