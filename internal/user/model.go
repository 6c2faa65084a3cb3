package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:150" binding:"required,max=150"`
	Email        string    `json:"email" gorm:"index" binding:"omitempty,email"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (u *User) PrimaryKey() string      { return u.ID }
func (u *User) SetPrimaryKey(id string) { u.ID = id }
