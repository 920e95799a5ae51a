package domain

import (
	"time"
)

// User представляет пользователя платформы.
// Соответствует таблице 'users' в базе данных.
type User struct {
	ID            string    `json:"id" gorm:"column:id;primaryKey"`
	Username      string    `json:"username" gorm:"column:username;uniqueIndex;not null"`
	Email         string    `json:"email" gorm:"column:email;uniqueIndex;not null"`
	Points        int       `json:"points" gorm:"column:points;not null;default:0"`
	TotalWinnings int       `json:"totalWinnings" gorm:"column:total_winnings;not null;default:0"`
	CreatedAt     time.Time `json:"createdAt" gorm:"column:created_at;not null"`
}

func (User) TableName() string {
	return "users"
}

// NewUser — входные данные для регистрации пользователя.
type NewUser struct {
	Username string
	Email    string
}
