package courses

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rakapradana/kursusku-backend/pkg/db/models"
)

// Repository exposes read access to the course catalog. Course price is the
// authority payment intents are validated against.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a courses repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a course record.
func (r *Repository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

// FindByID loads a course by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// List returns the catalog ordered by creation time.
func (r *Repository) List(ctx context.Context) ([]models.Course, error) {
	var out []models.Course
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
