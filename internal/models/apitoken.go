package models

import "time"

type APIToken struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	Token     string    `gorm:"uniqueIndex;not null;size:512" json:"-"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
}
