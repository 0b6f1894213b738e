package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentLike mirrors PostLike: one row per (comment, viewer) pair,
// enforced by the composite unique index.
type CommentLike struct {
	ID        string    `json:"id" gorm:"column:id;type:uuid;primaryKey"`
	CommentID string    `json:"comment_id" gorm:"column:comment_id;type:uuid;not null;uniqueIndex:idx_comment_likes_comment_user"`
	UserID    string    `json:"user_id" gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_comment_likes_comment_user"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`

	Comment Comment `json:"-" gorm:"foreignKey:CommentID"`
}

func (cl *CommentLike) BeforeCreate(tx *gorm.DB) error {
	if cl.ID == "" {
		cl.ID = uuid.New().String()
	}
	return nil
}
