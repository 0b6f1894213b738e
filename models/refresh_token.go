package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RefreshToken struct {
	ID             string    `json:"id" gorm:"column:id;type:uuid;primaryKey"`
	UserID         string    `json:"user_id" gorm:"column:user_id;type:uuid;not null;index"`
	Token          string    `json:"token" gorm:"column:token;not null;index"`
	ExpirationDate time.Time `json:"expiry" gorm:"column:expiration_date;not null"`
	CreatedAt      time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`

	User Profile `json:"-" gorm:"foreignKey:UserID"`
}

func (rt *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if rt.ID == "" {
		rt.ID = uuid.New().String()
	}
	return nil
}
