package domain

// Recommendation — подобранный вручную совет, что посмотреть/прочитать дальше.
type Recommendation struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Reason      string `json:"reason"`
}

// LeaderboardEntry — строка таблицы лидеров.
type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	UserID string `json:"userId"`
	Score  int    `json:"score"`
}

// LeaderboardAllTime — категория общего зачёта.
const LeaderboardAllTime = "all_time"
