package models

import (
	"time"

	"github.com/google/uuid"
)

// Certificate is issued once a course is completed; Number is the public
// handle used by the verification endpoint.
type Certificate struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:certificates_user_course_key"`
	CourseID  uuid.UUID `gorm:"column:course_id;type:uuid;not null;uniqueIndex:certificates_user_course_key"`
	Number    string    `gorm:"column:number;not null;uniqueIndex:certificates_number_key"`
	IssuedAt  time.Time `gorm:"column:issued_at;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
