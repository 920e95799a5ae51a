package domain

import (
	"time"
	"unicode/utf16"
)

const (
	// BasePoints начисляются за любую запись.
	BasePoints = 10
	// ReviewBonus начисляется за отзыв длиннее ReviewBonusMinLength.
	ReviewBonus          = 5
	ReviewBonusMinLength = 50
	// RatingBonus начисляется за любую оценку.
	RatingBonus = 3

	// FeedLimit — максимальный размер глобальной ленты активности.
	FeedLimit = 50
)

// ConsumptionLog представляет запись о просмотренном/прочитанном/прослушанном контенте,
// соответствует таблице consumption_logs в бд
type ConsumptionLog struct {
	ID           string    `json:"id" gorm:"column:id;primaryKey"`
	UserID       string    `json:"userId" gorm:"column:user_id;not null;index"`
	Title        string    `json:"title" gorm:"column:title;not null"`
	Category     string    `json:"category" gorm:"column:category;not null"`
	Type         string    `json:"type" gorm:"column:type;not null"`
	Rating       *int      `json:"rating,omitempty" gorm:"column:rating"`
	Review       *string   `json:"review,omitempty" gorm:"column:review"`
	PointsEarned int       `json:"pointsEarned" gorm:"column:points_earned;not null"`
	ConsumedAt   time.Time `json:"consumedAt" gorm:"column:consumed_at;not null"`
	CreatedAt    time.Time `json:"createdAt" gorm:"column:created_at;not null;index"`
}

func (ConsumptionLog) TableName() string {
	return "consumption_logs"
}

// Clone возвращает копию записи с собственными Rating и Review.
func (l ConsumptionLog) Clone() ConsumptionLog {
	l.Rating = clonePtr(l.Rating)
	l.Review = clonePtr(l.Review)
	return l
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// NewConsumptionLog — входные данные для создания записи.
// Очки сюда не входят: они всегда считаются на сервере.
type NewConsumptionLog struct {
	UserID     string
	Title      string
	Category   string
	Type       string
	Rating     *int
	Review     *string
	ConsumedAt *time.Time
}

// ConsumptionStats — агрегированная статистика пользователя.
type ConsumptionStats struct {
	TotalLogged     int            `json:"totalLogged"`
	PointsEarned    int            `json:"pointsEarned"`
	CategoriesCount map[string]int `json:"categoriesCount"`
}

// CalculatePoints считает очки за запись: 10 базовых, +5 за отзыв длиннее 50 символов, +3 за оценку.
// Длина отзыва считается в UTF-16 единицах, как её видит веб-клиент.
func CalculatePoints(rating *int, review *string) int {
	points := BasePoints
	if review != nil && len(utf16.Encode([]rune(*review))) > ReviewBonusMinLength {
		points += ReviewBonus
	}
	if rating != nil {
		points += RatingBonus
	}
	return points
}

// NewConsumptionStats собирает статистику по уже отфильтрованным записям пользователя.
func NewConsumptionStats(logs []ConsumptionLog) ConsumptionStats {
	stats := ConsumptionStats{CategoriesCount: make(map[string]int)}
	for _, l := range logs {
		stats.TotalLogged++
		stats.PointsEarned += l.PointsEarned
		stats.CategoriesCount[l.Category]++
	}
	return stats
}
