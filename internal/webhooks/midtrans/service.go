package midtranswebhook

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rakapradana/kursusku-backend/pkg/db/models"
	"github.com/rakapradana/kursusku-backend/pkg/enums"
	pkgerrors "github.com/rakapradana/kursusku-backend/pkg/errors"
	"github.com/rakapradana/kursusku-backend/pkg/logger"
	"github.com/rakapradana/kursusku-backend/pkg/metrics"
	"github.com/rakapradana/kursusku-backend/pkg/midtrans"
)

// intentRepository is the persistence surface the webhook needs.
type intentRepository interface {
	FindByOrderID(ctx context.Context, orderID string) (*models.PaymentIntent, error)
	UpdateStatusByOrderID(ctx context.Context, orderID string, status enums.PaymentStatus) error
}

// enroller grants course access once a payment settles.
type enroller interface {
	EnsureEnrolled(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
}

// ServiceParams groups dependencies for the Midtrans webhook service.
type ServiceParams struct {
	Repo        intentRepository
	Enrollments enroller
	ServerKey   string
	Logger      *logger.Logger
	Metrics     *metrics.PaymentMetrics
}

// Service applies gateway notifications to stored payment intents.
type Service struct {
	repo        intentRepository
	enrollments enroller
	serverKey   string
	logger      *logger.Logger
	metrics     *metrics.PaymentMetrics
}

// NewService builds a webhook service. An empty server key is tolerated here
// and rejected per notification so the failure is visible in request logs.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	if params.Enrollments == nil {
		return nil, errors.New("enrollments service is required")
	}
	return &Service{
		repo:        params.Repo,
		enrollments: params.Enrollments,
		serverKey:   params.ServerKey,
		logger:      params.Logger,
		metrics:     params.Metrics,
	}, nil
}

// Notification is the gateway payload echoed back after a payment attempt.
type Notification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	TransactionID     string `json:"transaction_id"`
	PaymentType       string `json:"payment_type"`
}

// HandleNotification verifies and applies a single gateway notification.
// Replayed notifications for settled or failed intents are acknowledged
// without a second write; a settlement replay re-checks the enrollment so a
// crash between the status update and the grant heals on redelivery.
func (s *Service) HandleNotification(ctx context.Context, notification *Notification) error {
	if notification == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification payload required")
	}
	if notification.OrderID == "" {
		s.countWebhook("invalid")
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	ctx = s.logCtx(ctx, notification.OrderID)

	if notification.SignatureKey == "" {
		s.countWebhook("unauthorized")
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing signature")
	}
	if s.serverKey == "" {
		// Verification is never skipped; a misconfigured key is our fault.
		s.countWebhook("misconfigured")
		return pkgerrors.New(pkgerrors.CodeInternal, "webhook verification unavailable")
	}
	if !midtrans.VerifySignature(notification.OrderID, notification.StatusCode, notification.GrossAmount, s.serverKey, notification.SignatureKey) {
		s.countWebhook("unauthorized")
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid signature")
	}

	target, changed := enums.Resolve(
		enums.TransactionStatus(notification.TransactionStatus),
		enums.FraudStatus(notification.FraudStatus),
	)

	intent, err := s.repo.FindByOrderID(ctx, notification.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.countWebhook("unknown_order")
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		s.countWebhook("error")
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment intent")
	}

	if intent.Status.IsTerminal() {
		// Already resolved; a settlement replay still repairs a missing grant.
		if intent.Status == enums.PaymentStatusSettlement && changed && target == enums.PaymentStatusSettlement {
			if err := s.grantEnrollment(ctx, intent); err != nil {
				return err
			}
		}
		s.countWebhook("replay")
		if s.logger != nil {
			s.logger.Info(ctx, "notification replay for terminal intent ignored")
		}
		return nil
	}

	if !changed {
		s.countWebhook("noop")
		if s.logger != nil {
			s.logger.Info(ctx, "notification carries no state change")
		}
		return nil
	}

	if err := s.repo.UpdateStatusByOrderID(ctx, notification.OrderID, target); err != nil {
		s.countWebhook("error")
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment status")
	}

	if target == enums.PaymentStatusSettlement {
		if err := s.grantEnrollment(ctx, intent); err != nil {
			// Surfacing the error makes the gateway retry; the terminal-status
			// branch above finishes the grant on redelivery.
			return err
		}
	}

	s.countWebhook(target.String())
	if s.logger != nil {
		s.logger.Info(ctx, "payment status updated to "+target.String())
	}
	return nil
}

func (s *Service) grantEnrollment(ctx context.Context, intent *models.PaymentIntent) error {
	created, err := s.enrollments.EnsureEnrolled(ctx, intent.UserID, intent.CourseID)
	if err != nil {
		s.countWebhook("error")
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "grant enrollment")
	}
	if created {
		s.metrics.IncEnrollment()
	}
	return nil
}

func (s *Service) logCtx(ctx context.Context, orderID string) context.Context {
	if s.logger == nil {
		return ctx
	}
	return s.logger.WithOrderID(ctx, orderID)
}

func (s *Service) countWebhook(result string) {
	s.metrics.IncWebhook(result)
}
