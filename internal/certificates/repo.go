package certificates

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rakapradana/kursusku-backend/pkg/db/models"
)

// Repository persists issued certificates.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a certificates repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a certificate; duplicate (user, course) pairs surface the
// store's unique violation untouched.
func (r *Repository) Create(ctx context.Context, certificate *models.Certificate) error {
	return r.db.WithContext(ctx).Create(certificate).Error
}

// FindByNumber loads a certificate by its public number.
func (r *Repository) FindByNumber(ctx context.Context, number string) (*models.Certificate, error) {
	var certificate models.Certificate
	if err := r.db.WithContext(ctx).Where("number = ?", number).First(&certificate).Error; err != nil {
		return nil, err
	}
	return &certificate, nil
}

// FindByUserCourse loads the certificate issued for the pair, if any.
func (r *Repository) FindByUserCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.Certificate, error) {
	var certificate models.Certificate
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&certificate).Error
	if err != nil {
		return nil, err
	}
	return &certificate, nil
}
