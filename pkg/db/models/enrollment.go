package models

import (
	"time"

	"github.com/google/uuid"
)

// Enrollment is created at most once per (user, course); the composite
// primary key is what makes the settlement side effect idempotent.
type Enrollment struct {
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	CourseID  uuid.UUID `gorm:"column:course_id;type:uuid;primaryKey"`
	Progress  int       `gorm:"column:progress;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
