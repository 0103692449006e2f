package models

import (
	"time"

	"gorm.io/gorm"
)

type Event struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"` // owner
	Title       string         `gorm:"size:255;not null" json:"title"`
	EventType   string         `gorm:"size:20;not null;index" json:"event_type"` // BIRTHDAY | WEDDING | ANNIVERSARY | GRADUATION | OTHER
	Date        time.Time      `gorm:"not null;index" json:"date"`
	Description string         `gorm:"type:text" json:"description"`
	ImageURL    string         `gorm:"size:512" json:"image_url"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Fundraiser *Fundraiser `gorm:"foreignKey:EventID" json:"fundraiser,omitempty"`
}

func (Event) TableName() string {
	return "events"
}
