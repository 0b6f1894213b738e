package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Comment struct {
	ID     string `json:"id" gorm:"column:id;type:uuid;primaryKey"`
	PostID string `json:"post_id" gorm:"column:post_id;type:uuid;not null;index"`
	UserID string `json:"user_id" gorm:"column:user_id;type:uuid;not null"`
	// Username is the author's alias snapshot at comment time, same
	// rule as Post.Alias.
	Username  string    `json:"username" gorm:"column:username;not null"`
	Content   string    `json:"content" gorm:"column:content;type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`

	Post  Post          `json:"-" gorm:"foreignKey:PostID"`
	Likes []CommentLike `json:"likes,omitempty" gorm:"foreignKey:CommentID"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
