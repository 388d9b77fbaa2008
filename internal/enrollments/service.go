package enrollments

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/rakapradana/kursusku-backend/pkg/db"
	"github.com/rakapradana/kursusku-backend/pkg/db/models"
	"github.com/rakapradana/kursusku-backend/pkg/logger"
)

// repository is the persistence surface the service needs.
type repository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Find(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error)
}

// ServiceParams groups dependencies for the enrollments service.
type ServiceParams struct {
	Repo   repository
	Logger *logger.Logger
}

// Service grants enrollments as the settlement side effect.
type Service struct {
	repo   repository
	logger *logger.Logger
}

// NewService builds an enrollments service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	return &Service{repo: params.Repo, logger: params.Logger}, nil
}

// EnsureEnrolled inserts the (user, course) enrollment if absent. A duplicate
// key violation means the postcondition already holds and is treated as
// success; the boolean reports whether a new row was created.
func (s *Service) EnsureEnrolled(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	enrollment := &models.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Progress: 0,
	}
	err := s.repo.Create(ctx, enrollment)
	if err == nil {
		return true, nil
	}
	if db.IsUniqueViolation(err, "") {
		if s.logger != nil {
			ctx = s.logger.WithFields(ctx, map[string]any{
				"user_id":   userID.String(),
				"course_id": courseID.String(),
			})
			s.logger.Info(ctx, "enrollment already exists, duplicate ignored")
		}
		return false, nil
	}
	return false, err
}

// Find exposes the stored enrollment for the pair.
func (s *Service) Find(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error) {
	return s.repo.Find(ctx, userID, courseID)
}
