package models

import (
	"time"

	"github.com/google/uuid"
)

// Course carries the authoritative price used to validate payment intents.
type Course struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Title       string    `gorm:"column:title;not null"`
	Slug        string    `gorm:"column:slug;not null;uniqueIndex"`
	Description *string   `gorm:"column:description"`
	Price       int64     `gorm:"column:price;not null"`
	IsFree      bool      `gorm:"column:is_free;not null;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
