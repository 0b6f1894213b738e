package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoginCode is a pending email OTP. One active code per email; sending a
// new code replaces the previous one. Only the bcrypt hash is stored.
type LoginCode struct {
	ID        string    `json:"id" gorm:"column:id;type:uuid;primaryKey"`
	Email     string    `json:"email" gorm:"column:email;uniqueIndex;not null"`
	CodeHash  string    `json:"-" gorm:"column:code_hash;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"column:expires_at;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (lc *LoginCode) BeforeCreate(tx *gorm.DB) error {
	if lc.ID == "" {
		lc.ID = uuid.New().String()
	}
	return nil
}
