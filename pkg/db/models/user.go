package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the profile record consulted when building gateway customer details.
type User struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Email     string    `gorm:"type:text;not null;uniqueIndex"`
	FullName  *string   `gorm:"column:full_name"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
