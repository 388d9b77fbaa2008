package certificates

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rakapradana/kursusku-backend/internal/enrollments"
	"github.com/rakapradana/kursusku-backend/pkg/config"
	"github.com/rakapradana/kursusku-backend/pkg/db/models"
	pkgerrors "github.com/rakapradana/kursusku-backend/pkg/errors"
)

type harness struct {
	svc     *Service
	enrolls *enrollments.Repository
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Certificate{}, &models.Enrollment{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	enrollRepo := enrollments.NewRepository(conn)
	svc, err := NewService(ServiceParams{
		Repo:        NewRepository(conn),
		Enrollments: enrollRepo,
		Config: config.CertificatesConfig{
			VerificationBaseURL: "https://kursusku.id/certificates",
			QRRendererBaseURL:   "https://api.qrserver.com/v1/create-qr-code/",
		},
		Now: func() time.Time { return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return &harness{svc: svc, enrolls: enrollRepo}
}

func (h *harness) seedEnrollment(t *testing.T, progress int) (uuid.UUID, uuid.UUID) {
	t.Helper()
	userID, courseID := uuid.New(), uuid.New()
	err := h.enrolls.Create(context.Background(), &models.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Progress: progress,
	})
	if err != nil {
		t.Fatalf("seed enrollment: %v", err)
	}
	return userID, courseID
}

func TestIssueCertificate(t *testing.T) {
	h := newHarness(t)
	userID, courseID := h.seedEnrollment(t, 100)

	certificate, err := h.svc.Issue(context.Background(), userID, courseID)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !strings.HasPrefix(certificate.Number, "CERT/2026/") {
		t.Fatalf("unexpected number %q", certificate.Number)
	}
	if len(certificate.Number) != len("CERT/2026/")+8 {
		t.Fatalf("unexpected number length %q", certificate.Number)
	}
	if !strings.HasPrefix(certificate.VerifyURL, "https://kursusku.id/certificates/") {
		t.Fatalf("unexpected verify url %q", certificate.VerifyURL)
	}
	if !strings.Contains(certificate.QRCodeURL, "api.qrserver.com") {
		t.Fatalf("unexpected qr url %q", certificate.QRCodeURL)
	}
}

func TestIssueIsIdempotentPerPair(t *testing.T) {
	h := newHarness(t)
	userID, courseID := h.seedEnrollment(t, 100)

	first, err := h.svc.Issue(context.Background(), userID, courseID)
	if err != nil {
		t.Fatalf("first Issue: %v", err)
	}
	second, err := h.svc.Issue(context.Background(), userID, courseID)
	if err != nil {
		t.Fatalf("second Issue: %v", err)
	}
	if first.Number != second.Number {
		t.Fatalf("expected the stored certificate back, got %q then %q", first.Number, second.Number)
	}
}

func TestIssueRequiresCompletion(t *testing.T) {
	h := newHarness(t)
	userID, courseID := h.seedEnrollment(t, 40)

	_, err := h.svc.Issue(context.Background(), userID, courseID)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected STATE_CONFLICT, got %v", err)
	}
}

func TestIssueRequiresEnrollment(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.Issue(context.Background(), uuid.New(), uuid.New())
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestVerifyByNumber(t *testing.T) {
	h := newHarness(t)
	userID, courseID := h.seedEnrollment(t, 100)
	issued, err := h.svc.Issue(context.Background(), userID, courseID)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	result, err := h.svc.VerifyByNumber(context.Background(), issued.Number)
	if err != nil {
		t.Fatalf("VerifyByNumber: %v", err)
	}
	if !result.Valid || result.Certificate == nil {
		t.Fatalf("expected valid result, got %+v", result)
	}
	if result.Certificate.UserID != userID {
		t.Fatalf("unexpected holder %s", result.Certificate.UserID)
	}
}

func TestVerifyUnknownNumberIsNotAnError(t *testing.T) {
	h := newHarness(t)

	result, err := h.svc.VerifyByNumber(context.Background(), "CERT/2026/FFFFFFFF")
	if err != nil {
		t.Fatalf("VerifyByNumber: %v", err)
	}
	if result.Valid || result.Certificate != nil {
		t.Fatalf("unknown number must be valid=false, got %+v", result)
	}
}

func TestVerifyEmptyNumberRejected(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.VerifyByNumber(context.Background(), "  ")
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}
