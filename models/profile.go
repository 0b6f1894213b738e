package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Profile struct {
	ID       string `json:"id" gorm:"column:id;type:uuid;primaryKey"`
	Email    string `json:"email" gorm:"column:email;uniqueIndex;not null"`
	Username string `json:"username" gorm:"column:username;uniqueIndex;not null"`
	// AliasFinalized distinguishes the auto-generated user_<id> name
	// handed out at sign-up from a name the user actually chose.
	// Posting and commenting require a finalized alias.
	AliasFinalized bool      `json:"alias_finalized" gorm:"column:alias_finalized;default:false"`
	Provider       string    `json:"provider" gorm:"column:provider;not null;default:'email'"` // email, google
	GoogleID       *string   `json:"-" gorm:"column:google_id;uniqueIndex"`
	CreatedAt      time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
