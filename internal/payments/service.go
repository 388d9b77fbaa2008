package payments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rakapradana/kursusku-backend/pkg/db/models"
	"github.com/rakapradana/kursusku-backend/pkg/enums"
	pkgerrors "github.com/rakapradana/kursusku-backend/pkg/errors"
	"github.com/rakapradana/kursusku-backend/pkg/logger"
	"github.com/rakapradana/kursusku-backend/pkg/metrics"
	"github.com/rakapradana/kursusku-backend/pkg/midtrans"
)

const fallbackCustomerName = "KursusKu Student"

// intentRepository is the persistence surface the service needs.
type intentRepository interface {
	Create(ctx context.Context, intent *models.PaymentIntent) error
	UpdateGatewayDetails(ctx context.Context, id uuid.UUID, transactionID, paymentType string) error
}

// userFinder resolves the caller identity to a stored profile.
type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// courseFinder resolves the course whose price is authoritative.
type courseFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

// gateway creates the external transaction the buyer pays against.
type gateway interface {
	Charge(ctx context.Context, params midtrans.ChargeParams) (*midtrans.ChargeResult, error)
}

// ServiceParams groups dependencies for the payments service.
type ServiceParams struct {
	Repo    intentRepository
	Users   userFinder
	Courses courseFinder
	Gateway gateway
	Logger  *logger.Logger
	Metrics *metrics.PaymentMetrics
	Now     func() time.Time
}

// Service orchestrates payment intent creation against the external gateway.
type Service struct {
	repo    intentRepository
	users   userFinder
	courses courseFinder
	gateway gateway
	logger  *logger.Logger
	metrics *metrics.PaymentMetrics
	now     func() time.Time
}

// NewService builds a payments service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	if params.Users == nil {
		return nil, errors.New("users finder is required")
	}
	if params.Courses == nil {
		return nil, errors.New("courses finder is required")
	}
	if params.Gateway == nil {
		return nil, errors.New("gateway is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:    params.Repo,
		users:   params.Users,
		courses: params.Courses,
		gateway: params.Gateway,
		logger:  params.Logger,
		metrics: params.Metrics,
		now:     now,
	}, nil
}

// CreateIntent validates the purchase, persists a pending intent, and hands
// the order to the gateway. The intent row is written before the gateway call
// so a crash between the two leaves a pending record the webhook can resolve.
func (s *Service) CreateIntent(ctx context.Context, params CreateIntentParams) (*CreateIntentResult, error) {
	if params.Amount <= 0 {
		s.countIntent("rejected")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	user, err := s.users.FindByID(ctx, params.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.countIntent("rejected")
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown user")
		}
		s.countIntent("error")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	course, err := s.courses.FindByID(ctx, params.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.countIntent("rejected")
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "course not found")
		}
		s.countIntent("error")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load course")
	}

	if !course.IsFree && params.Amount != course.Price {
		s.countIntent("rejected")
		return nil, pkgerrors.New(pkgerrors.CodePriceMismatch, "amount does not match the course price")
	}

	orderID := NewOrderID(s.now(), user.ID)
	ctx = s.logCtx(ctx, orderID, course.ID)

	intent := &models.PaymentIntent{
		ID:       uuid.New(),
		UserID:   user.ID,
		CourseID: course.ID,
		OrderID:  orderID,
		Amount:   params.Amount,
		Status:   enums.PaymentStatusPending,
	}
	if err := s.repo.Create(ctx, intent); err != nil {
		s.countIntent("error")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist payment intent")
	}

	charge, err := s.gateway.Charge(ctx, midtrans.ChargeParams{
		OrderID:  orderID,
		Amount:   params.Amount,
		Customer: customerFor(user),
	})
	if err != nil {
		s.countIntent("gateway_error")
		if s.logger != nil {
			s.logger.Error(ctx, "gateway charge failed", err)
		}
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create gateway transaction")
	}

	// Enrichment is best effort; the webhook carries the transaction id again.
	if err := s.repo.UpdateGatewayDetails(ctx, intent.ID, charge.TransactionID, charge.PaymentType); err != nil {
		if s.logger != nil {
			s.logger.Error(ctx, "persist gateway details failed", err)
		}
	}

	s.countIntent("created")
	if s.logger != nil {
		s.logger.Info(ctx, "payment intent created")
	}
	return &CreateIntentResult{
		OrderID:       orderID,
		TransactionID: charge.TransactionID,
		PaymentURL:    charge.PaymentURL,
	}, nil
}

func customerFor(user *models.User) midtrans.Customer {
	name := fallbackCustomerName
	if user.FullName != nil && *user.FullName != "" {
		name = *user.FullName
	}
	return midtrans.Customer{FirstName: name, Email: user.Email}
}

func (s *Service) logCtx(ctx context.Context, orderID string, courseID uuid.UUID) context.Context {
	if s.logger == nil {
		return ctx
	}
	ctx = s.logger.WithOrderID(ctx, orderID)
	return s.logger.WithCourseID(ctx, courseID.String())
}

func (s *Service) countIntent(outcome string) {
	s.metrics.IncIntentCreated(outcome)
}
