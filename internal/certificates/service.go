package certificates

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rakapradana/kursusku-backend/pkg/config"
	"github.com/rakapradana/kursusku-backend/pkg/db"
	"github.com/rakapradana/kursusku-backend/pkg/db/models"
	pkgerrors "github.com/rakapradana/kursusku-backend/pkg/errors"
	"github.com/rakapradana/kursusku-backend/pkg/logger"
)

const completedProgress = 100

// repository is the persistence surface the service needs.
type repository interface {
	Create(ctx context.Context, certificate *models.Certificate) error
	FindByNumber(ctx context.Context, number string) (*models.Certificate, error)
	FindByUserCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.Certificate, error)
}

// enrollmentFinder checks course completion before issuance.
type enrollmentFinder interface {
	Find(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error)
}

// ServiceParams groups dependencies for the certificates service.
type ServiceParams struct {
	Repo        repository
	Enrollments enrollmentFinder
	Config      config.CertificatesConfig
	Logger      *logger.Logger
	Now         func() time.Time
}

// Service issues and verifies course-completion certificates.
type Service struct {
	repo        repository
	enrollments enrollmentFinder
	cfg         config.CertificatesConfig
	logger      *logger.Logger
	now         func() time.Time
}

// NewService builds a certificates service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	if params.Enrollments == nil {
		return nil, errors.New("enrollments finder is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:        params.Repo,
		enrollments: params.Enrollments,
		cfg:         params.Config,
		logger:      params.Logger,
		now:         now,
	}, nil
}

// Certificate is the public projection returned by issue and verify calls.
type Certificate struct {
	Number    string    `json:"number"`
	UserID    uuid.UUID `json:"user_id"`
	CourseID  uuid.UUID `json:"course_id"`
	IssuedAt  time.Time `json:"issued_at"`
	VerifyURL string    `json:"verify_url"`
	QRCodeURL string    `json:"qr_code_url"`
}

// VerificationResult answers a public lookup. An unknown number is a
// valid=false answer, not an error.
type VerificationResult struct {
	Valid       bool         `json:"valid"`
	Certificate *Certificate `json:"certificate,omitempty"`
}

// Issue creates the certificate for a completed enrollment. Issuing twice
// for the same pair returns the already stored certificate.
func (s *Service) Issue(ctx context.Context, userID, courseID uuid.UUID) (*Certificate, error) {
	enrollment, err := s.enrollments.Find(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "enrollment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load enrollment")
	}
	if enrollment.Progress < completedProgress {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "course is not completed yet")
	}

	certificate := &models.Certificate{
		ID:       uuid.New(),
		UserID:   userID,
		CourseID: courseID,
		Number:   s.newNumber(),
		IssuedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, certificate); err != nil {
		if db.IsUniqueViolation(err, "") {
			existing, findErr := s.repo.FindByUserCourse(ctx, userID, courseID)
			if findErr != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, findErr, "load existing certificate")
			}
			return s.project(existing), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist certificate")
	}

	if s.logger != nil {
		ctx = s.logger.WithFields(ctx, map[string]any{
			"certificate_number": certificate.Number,
			"course_id":          courseID.String(),
		})
		s.logger.Info(ctx, "certificate issued")
	}
	return s.project(certificate), nil
}

// VerifyByNumber resolves the public certificate lookup.
func (s *Service) VerifyByNumber(ctx context.Context, number string) (*VerificationResult, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "certificate number is required")
	}
	certificate, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &VerificationResult{Valid: false}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load certificate")
	}
	return &VerificationResult{Valid: true, Certificate: s.project(certificate)}, nil
}

func (s *Service) newNumber() string {
	fragment := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("CERT/%d/%s", s.now().Year(), fragment)
}

func (s *Service) project(certificate *models.Certificate) *Certificate {
	verifyURL := s.verifyURL(certificate.Number)
	return &Certificate{
		Number:    certificate.Number,
		UserID:    certificate.UserID,
		CourseID:  certificate.CourseID,
		IssuedAt:  certificate.IssuedAt,
		VerifyURL: verifyURL,
		QRCodeURL: s.qrCodeURL(verifyURL),
	}
}

// verifyURL appends the number as-is; numbers only contain uppercase
// alphanumerics and slashes, and the lookup route matches the full suffix.
func (s *Service) verifyURL(number string) string {
	base := strings.TrimRight(s.cfg.VerificationBaseURL, "/")
	if base == "" {
		return ""
	}
	return base + "/" + number
}

func (s *Service) qrCodeURL(verifyURL string) string {
	if s.cfg.QRRendererBaseURL == "" || verifyURL == "" {
		return ""
	}
	query := url.Values{}
	query.Set("size", "300x300")
	query.Set("data", verifyURL)
	return s.cfg.QRRendererBaseURL + "?" + query.Encode()
}
