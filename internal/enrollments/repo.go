package enrollments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rakapradana/kursusku-backend/pkg/db/models"
)

// Repository persists enrollments. The composite (user_id, course_id) primary
// key backs the insert-if-absent contract.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an enrollments repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts an enrollment row; a duplicate pair surfaces the store's
// unique violation untouched so callers can classify it.
func (r *Repository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

// Find loads the enrollment for the given pair.
func (r *Repository) Find(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// UpdateProgress overwrites the completion percentage for the pair.
func (r *Repository) UpdateProgress(ctx context.Context, userID, courseID uuid.UUID, progress int) error {
	return r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		UpdateColumn("progress", progress).Error
}
