package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostLike holds at most one row per (post, viewer) pair. The composite
// unique index is the correctness mechanism for concurrent like toggles,
// not the application-level existence check.
type PostLike struct {
	ID        string    `json:"id" gorm:"column:id;type:uuid;primaryKey"`
	PostID    string    `json:"post_id" gorm:"column:post_id;type:uuid;not null;uniqueIndex:idx_post_likes_post_user"`
	UserID    string    `json:"user_id" gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_post_likes_post_user"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`

	Post Post `json:"-" gorm:"foreignKey:PostID"`
}

func (pl *PostLike) BeforeCreate(tx *gorm.DB) error {
	if pl.ID == "" {
		pl.ID = uuid.New().String()
	}
	return nil
}
