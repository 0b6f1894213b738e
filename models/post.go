package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Post struct {
	ID     string `json:"id" gorm:"column:id;type:uuid;primaryKey"`
	FeedID string `json:"feed_id" gorm:"column:feed_id;type:uuid;not null;index"`
	// Alias is a snapshot of the author's display name taken at posting
	// time. It is never updated, even if the author later renames.
	Alias     string    `json:"alias" gorm:"column:alias;not null"`
	Message   string    `json:"message" gorm:"column:message;type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`

	Feed     Feed       `json:"-" gorm:"foreignKey:FeedID"`
	Comments []Comment  `json:"comments,omitempty" gorm:"foreignKey:PostID"`
	Likes    []PostLike `json:"likes,omitempty" gorm:"foreignKey:PostID"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
