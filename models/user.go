package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleRegular       Role = "regular"
	RoleAdministrator Role = "administrator"
)

func (r Role) Valid() bool {
	return r == RoleRegular || r == RoleAdministrator
}

type User struct {
	ID           uint      `gorm:"primaryKey"`
	Name         string    `gorm:"size:255;not null"`
	Email        string    `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	ImageURL     *string   `gorm:"size:2048"`
	Role         Role      `gorm:"size:20;not null;default:regular;index"`
	CreatedAt    time.Time `gorm:"index"`
	UpdatedAt    time.Time
	Chats        []Chat `gorm:"constraint:OnDelete:CASCADE"`
}

func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}
