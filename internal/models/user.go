package models

import "time"

type User struct {
	ID           uint          `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time     `json:"created_at"`
	Username     string        `gorm:"uniqueIndex;not null;size:64" json:"username"`
	PasswordHash string        `gorm:"not null" json:"-"`
	Transactions []Transaction `gorm:"foreignKey:UserID" json:"-"`
	APITokens    []APIToken    `gorm:"foreignKey:UserID" json:"-"`
}
