package models

import "time"

// Chat is a conversation owned by a single user. UserID is set on creation
// and never changes afterwards.
type Chat struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index"`
	Title     string    `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Messages  []Message `gorm:"constraint:OnDelete:CASCADE"`
}
