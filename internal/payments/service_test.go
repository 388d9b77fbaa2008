package payments

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rakapradana/kursusku-backend/pkg/db/models"
	"github.com/rakapradana/kursusku-backend/pkg/enums"
	pkgerrors "github.com/rakapradana/kursusku-backend/pkg/errors"
	"github.com/rakapradana/kursusku-backend/pkg/midtrans"
)

type stubIntentRepo struct {
	created     *models.PaymentIntent
	createErr   error
	enriched    bool
	enrichErr   error
	enrichedTxn string
}

func (s *stubIntentRepo) Create(_ context.Context, intent *models.PaymentIntent) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = intent
	return nil
}

func (s *stubIntentRepo) UpdateGatewayDetails(_ context.Context, _ uuid.UUID, transactionID, _ string) error {
	if s.enrichErr != nil {
		return s.enrichErr
	}
	s.enriched = true
	s.enrichedTxn = transactionID
	return nil
}

type stubUserFinder struct {
	user *models.User
	err  error
}

func (s *stubUserFinder) FindByID(context.Context, uuid.UUID) (*models.User, error) {
	return s.user, s.err
}

type stubCourseFinder struct {
	course *models.Course
	err    error
}

func (s *stubCourseFinder) FindByID(context.Context, uuid.UUID) (*models.Course, error) {
	return s.course, s.err
}

type stubGateway struct {
	result *midtrans.ChargeResult
	err    error
	params midtrans.ChargeParams
	calls  int
}

func (s *stubGateway) Charge(_ context.Context, params midtrans.ChargeParams) (*midtrans.ChargeResult, error) {
	s.calls++
	s.params = params
	return s.result, s.err
}

func fixtureUser() *models.User {
	name := "Siti Rahma"
	return &models.User{ID: uuid.New(), Email: "siti@example.com", FullName: &name, IsActive: true}
}

func fixtureCourse(price int64) *models.Course {
	return &models.Course{ID: uuid.New(), Title: "Belajar Go", Slug: "belajar-go", Price: price}
}

func newTestService(t *testing.T, repo *stubIntentRepo, users *stubUserFinder, courses *stubCourseFinder, gw *stubGateway) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:    repo,
		Users:   users,
		Courses: courses,
		Gateway: gw,
		Now:     func() time.Time { return time.Unix(1700000000, 0) },
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestCreateIntentSuccess(t *testing.T) {
	repo := &stubIntentRepo{}
	user := fixtureUser()
	course := fixtureCourse(250000)
	gw := &stubGateway{result: &midtrans.ChargeResult{
		TransactionID: "txn-123",
		PaymentType:   "gopay",
		PaymentURL:    "https://api.sandbox.midtrans.com/v2/gopay/txn-123/qr-code",
	}}

	svc := newTestService(t, repo, &stubUserFinder{user: user}, &stubCourseFinder{course: course}, gw)

	result, err := svc.CreateIntent(context.Background(), CreateIntentParams{
		UserID:   user.ID,
		CourseID: course.ID,
		Amount:   250000,
	})
	if err != nil {
		t.Fatalf("CreateIntent: %v", err)
	}
	if result.TransactionID != "txn-123" {
		t.Fatalf("unexpected transaction id %q", result.TransactionID)
	}
	if !strings.HasPrefix(result.OrderID, "ORDER-") {
		t.Fatalf("unexpected order id %q", result.OrderID)
	}
	if repo.created == nil {
		t.Fatal("expected intent persisted")
	}
	if repo.created.Status != enums.PaymentStatusPending {
		t.Fatalf("expected pending status, got %s", repo.created.Status)
	}
	if repo.created.OrderID != result.OrderID {
		t.Fatalf("persisted order id %q != returned %q", repo.created.OrderID, result.OrderID)
	}
	if !repo.enriched || repo.enrichedTxn != "txn-123" {
		t.Fatal("expected gateway details recorded")
	}
	if gw.params.Customer.FirstName != "Siti Rahma" {
		t.Fatalf("unexpected customer name %q", gw.params.Customer.FirstName)
	}
}

func TestCreateIntentUnknownUser(t *testing.T) {
	svc := newTestService(t, &stubIntentRepo{}, &stubUserFinder{err: gorm.ErrRecordNotFound},
		&stubCourseFinder{course: fixtureCourse(100)}, &stubGateway{})

	_, err := svc.CreateIntent(context.Background(), CreateIntentParams{UserID: uuid.New(), CourseID: uuid.New(), Amount: 100})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
}

func TestCreateIntentCourseNotFound(t *testing.T) {
	svc := newTestService(t, &stubIntentRepo{}, &stubUserFinder{user: fixtureUser()},
		&stubCourseFinder{err: gorm.ErrRecordNotFound}, &stubGateway{})

	_, err := svc.CreateIntent(context.Background(), CreateIntentParams{UserID: uuid.New(), CourseID: uuid.New(), Amount: 100})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestCreateIntentPriceMismatch(t *testing.T) {
	gw := &stubGateway{}
	repo := &stubIntentRepo{}
	svc := newTestService(t, repo, &stubUserFinder{user: fixtureUser()},
		&stubCourseFinder{course: fixtureCourse(250000)}, gw)

	_, err := svc.CreateIntent(context.Background(), CreateIntentParams{UserID: uuid.New(), CourseID: uuid.New(), Amount: 249999})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodePriceMismatch {
		t.Fatalf("expected PRICE_MISMATCH, got %v", err)
	}
	if repo.created != nil || gw.calls != 0 {
		t.Fatal("mismatched amount must not reach the store or the gateway")
	}
}

func TestCreateIntentFreeCourseSkipsPriceCheck(t *testing.T) {
	course := fixtureCourse(0)
	course.IsFree = true
	gw := &stubGateway{result: &midtrans.ChargeResult{TransactionID: "txn-free", PaymentURL: "https://example.com/pay"}}
	svc := newTestService(t, &stubIntentRepo{}, &stubUserFinder{user: fixtureUser()},
		&stubCourseFinder{course: course}, gw)

	if _, err := svc.CreateIntent(context.Background(), CreateIntentParams{UserID: uuid.New(), CourseID: course.ID, Amount: 5000}); err != nil {
		t.Fatalf("CreateIntent: %v", err)
	}
	if gw.params.Amount != 5000 {
		t.Fatalf("unexpected charge amount %d", gw.params.Amount)
	}
}

func TestCreateIntentNonPositiveAmountRejected(t *testing.T) {
	for _, amount := range []int64{0, -100} {
		repo := &stubIntentRepo{}
		gw := &stubGateway{}
		svc := newTestService(t, repo, &stubUserFinder{user: fixtureUser()},
			&stubCourseFinder{course: fixtureCourse(250000)}, gw)

		_, err := svc.CreateIntent(context.Background(), CreateIntentParams{UserID: uuid.New(), CourseID: uuid.New(), Amount: amount})
		if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
			t.Fatalf("amount %d: expected VALIDATION_ERROR, got %v", amount, err)
		}
		if repo.created != nil {
			t.Fatalf("amount %d: no intent row may be written", amount)
		}
		if gw.calls != 0 {
			t.Fatalf("amount %d: gateway must not be called", amount)
		}
	}
}

func TestCreateIntentStoreFailure(t *testing.T) {
	repo := &stubIntentRepo{createErr: errors.New("connection refused")}
	gw := &stubGateway{}
	svc := newTestService(t, repo, &stubUserFinder{user: fixtureUser()},
		&stubCourseFinder{course: fixtureCourse(100)}, gw)

	_, err := svc.CreateIntent(context.Background(), CreateIntentParams{UserID: uuid.New(), CourseID: uuid.New(), Amount: 100})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected DEPENDENCY_ERROR, got %v", err)
	}
	if strings.Contains(appErr.Message(), "connection refused") {
		t.Fatal("storage internals must not leak into the public message")
	}
	if gw.calls != 0 {
		t.Fatal("gateway must not be called when persistence fails")
	}
}

func TestCreateIntentGatewayFailure(t *testing.T) {
	gw := &stubGateway{err: pkgerrors.New(pkgerrors.CodeDependency, "payment gateway rejected the charge")}
	svc := newTestService(t, &stubIntentRepo{}, &stubUserFinder{user: fixtureUser()},
		&stubCourseFinder{course: fixtureCourse(100)}, gw)

	_, err := svc.CreateIntent(context.Background(), CreateIntentParams{UserID: uuid.New(), CourseID: uuid.New(), Amount: 100})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected DEPENDENCY_ERROR, got %v", err)
	}
}

func TestCreateIntentEnrichmentFailureNotSurfaced(t *testing.T) {
	repo := &stubIntentRepo{enrichErr: errors.New("write timeout")}
	gw := &stubGateway{result: &midtrans.ChargeResult{TransactionID: "txn-9", PaymentURL: "https://example.com/pay"}}
	svc := newTestService(t, repo, &stubUserFinder{user: fixtureUser()},
		&stubCourseFinder{course: fixtureCourse(100)}, gw)

	result, err := svc.CreateIntent(context.Background(), CreateIntentParams{UserID: uuid.New(), CourseID: uuid.New(), Amount: 100})
	if err != nil {
		t.Fatalf("enrichment failure must not fail the request: %v", err)
	}
	if result.TransactionID != "txn-9" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestCreateIntentFallbackCustomerName(t *testing.T) {
	user := fixtureUser()
	user.FullName = nil
	gw := &stubGateway{result: &midtrans.ChargeResult{TransactionID: "txn-1", PaymentURL: "https://example.com/pay"}}
	svc := newTestService(t, &stubIntentRepo{}, &stubUserFinder{user: user},
		&stubCourseFinder{course: fixtureCourse(100)}, gw)

	if _, err := svc.CreateIntent(context.Background(), CreateIntentParams{UserID: user.ID, CourseID: uuid.New(), Amount: 100}); err != nil {
		t.Fatalf("CreateIntent: %v", err)
	}
	if gw.params.Customer.FirstName != fallbackCustomerName {
		t.Fatalf("expected placeholder customer name, got %q", gw.params.Customer.FirstName)
	}
}
