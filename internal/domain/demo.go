package domain

import "time"

// DemoUserID задан явно, чтобы демо-страницы работали без регистрации.
const DemoUserID = "user-1"

// DemoData возвращает демо-пользователя и две его записи относительно now.
// Баланс (1250) включает очки, заработанные до истории записей,
// поэтому он не совпадает с суммой pointsEarned в статистике.
// pointsEarned демо-записей заданы явно и не пересчитываются по CalculatePoints.
func DemoData(now time.Time) (User, []ConsumptionLog) {
	user := User{
		ID:        DemoUserID,
		Username:  "JohnDoe",
		Email:     "john@example.com",
		Points:    1250,
		CreatedAt: now,
	}

	five, four := 5, 4
	short := "gotta listen."
	long := "Amazing character development and tension throughout the season."
	dayAgo := now.Add(-24 * time.Hour)

	logs := []ConsumptionLog{
		{
			ID:           "log-1",
			UserID:       DemoUserID,
			Title:        "SmartLess",
			Type:         "episode",
			Category:     "podcasts",
			Rating:       &five,
			Review:       &short,
			PointsEarned: 10,
			ConsumedAt:   now,
			CreatedAt:    now,
		},
		{
			ID:           "log-2",
			UserID:       DemoUserID,
			Title:        "The Bear",
			Type:         "season",
			Category:     "tv",
			Rating:       &four,
			Review:       &long,
			PointsEarned: 15,
			ConsumedAt:   dayAgo,
			CreatedAt:    dayAgo,
		},
	}
	return user, logs
}
