package auth

import "time"

type Session struct {
	SessionID string    `gorm:"primaryKey"`
	UserID    string    `gorm:"not null;unique"`
	ExpiresAt time.Time `gorm:"not null"`
}

type User struct {
	UserID         string `gorm:"primaryKey"`
	Username       string `gorm:"uniqueIndex;not null"`
	Email          string `gorm:"uniqueIndex;not null"`
	Password       string `gorm:"-"`
	HashedPassword string
	CreatedAt      time.Time
}

func (Session) TableName() string { return "app_auth.sessions" }
func (User) TableName() string    { return "app_auth.users" }
