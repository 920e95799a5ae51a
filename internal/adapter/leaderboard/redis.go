// Package leaderboard хранит таблицу лидеров в Redis или в памяти процесса.
package leaderboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/EntertainLit/internal/domain"
	"github.com/go-redis/redis/v8"
)

const (
	keyPrefix = "leaderboard:"
	// appliedTTL покрывает окно повторной доставки события.
	appliedTTL = 7 * 24 * time.Hour
)

// addPointsScript ставит маркер записи и начисляет очки атомарно.
// Повтор с тем же маркером ничего не меняет и возвращает 0.
var addPointsScript = redis.NewScript(`
if not redis.call('SET', KEYS[1], '1', 'NX', 'EX', ARGV[3]) then
	return 0
end
redis.call('ZINCRBY', KEYS[2], ARGV[1], ARGV[2])
if KEYS[3] then
	redis.call('ZINCRBY', KEYS[3], ARGV[1], ARGV[2])
end
return 1
`)

// Key возвращает ключ sorted set для категории.
func Key(category string) string {
	if category == domain.LeaderboardAllTime {
		return keyPrefix + domain.LeaderboardAllTime
	}
	return keyPrefix + "category:" + category
}

// AppliedKey — маркер того, что очки записи logID уже начислены.
func AppliedKey(logID string) string {
	return keyPrefix + "applied:" + logID
}

// RedisLeaderboard хранит очки в sorted set'ах: общий зачёт и по одному на категорию.
type RedisLeaderboard struct {
	client redis.Cmdable
	logger *slog.Logger
}

func NewRedisLeaderboard(client redis.Cmdable, logger *slog.Logger) *RedisLeaderboard {
	return &RedisLeaderboard{client: client, logger: logger}
}

func (l *RedisLeaderboard) AddPoints(ctx context.Context, logID, userID, category string, points int) (bool, error) {
	keys := []string{AppliedKey(logID), Key(domain.LeaderboardAllTime)}
	if category != domain.LeaderboardAllTime {
		keys = append(keys, Key(category))
	}

	applied, err := addPointsScript.Run(ctx, l.client, keys, points, userID, int(appliedTTL.Seconds())).Int()
	if err != nil {
		return false, fmt.Errorf("leaderboard: add %d points of log %s to %s: %w", points, logID, userID, err)
	}
	return applied == 1, nil
}

func (l *RedisLeaderboard) Top(ctx context.Context, category string, limit int) ([]domain.LeaderboardEntry, error) {
	zs, err := l.client.ZRevRangeWithScores(ctx, Key(category), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("leaderboard: top of %s: %w", category, err)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(zs))
	for i, z := range zs {
		member, ok := z.Member.(string)
		if !ok {
			l.logger.Warn("unexpected leaderboard member", "category", category, "member", z.Member)
			continue
		}
		entries = append(entries, domain.LeaderboardEntry{
			Rank:   i + 1,
			UserID: member,
			Score:  int(z.Score),
		})
	}
	return entries, nil
}
