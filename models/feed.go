package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Feed struct {
	ID        string    `json:"id" gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"column:name;not null"`
	EventCode string    `json:"event_code" gorm:"column:event_code;uniqueIndex;not null"`
	IsPrivate bool      `json:"is_private" gorm:"column:is_private;default:false"`
	StartsAt  time.Time `json:"starts_at" gorm:"column:starts_at;not null"`
	Timezone  string    `json:"timezone" gorm:"column:timezone"`
	Location  string    `json:"location" gorm:"column:location"`
	UserID    string    `json:"user_id" gorm:"column:user_id;type:uuid;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`

	Posts []Post `json:"posts,omitempty" gorm:"foreignKey:FeedID"`
}

func (f *Feed) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}
