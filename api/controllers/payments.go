package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rakapradana/kursusku-backend/api/middleware"
	"github.com/rakapradana/kursusku-backend/api/responses"
	"github.com/rakapradana/kursusku-backend/api/validators"
	"github.com/rakapradana/kursusku-backend/internal/payments"
	pkgerrors "github.com/rakapradana/kursusku-backend/pkg/errors"
	"github.com/rakapradana/kursusku-backend/pkg/logger"
)

// PaymentService is the surface the payments controller needs.
type PaymentService interface {
	CreateIntent(ctx context.Context, params payments.CreateIntentParams) (*payments.CreateIntentResult, error)
}

type createPaymentRequest struct {
	CourseID string          `json:"course_id" validate:"required,uuid"`
	Amount   decimal.Decimal `json:"amount"`
}

type createPaymentResponse struct {
	OrderID       string `json:"order_id"`
	TransactionID string `json:"transaction_id"`
	PaymentURL    string `json:"payment_url"`
}

// CreatePayment starts the purchase flow for the authenticated user.
func CreatePayment(svc PaymentService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		userID, err := uuid.Parse(middleware.UserIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var req createPaymentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		courseID, err := uuid.Parse(req.CourseID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "course_id must be a uuid"))
			return
		}

		amount, err := amountToMinorUnits(req.Amount)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.CreateIntent(ctx, payments.CreateIntentParams{
			UserID:   userID,
			CourseID: courseID,
			Amount:   amount,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, createPaymentResponse{
			OrderID:       result.OrderID,
			TransactionID: result.TransactionID,
			PaymentURL:    result.PaymentURL,
		})
	}
}

// amountToMinorUnits accepts the JSON amount as a decimal so clients sending
// "250000" or 250000.00 are treated the same; non-positive and fractional
// rupiah are rejected before the intent is created.
func amountToMinorUnits(amount decimal.Decimal) (int64, error) {
	if !amount.IsPositive() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if !amount.IsInteger() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "amount must be a whole number")
	}
	if !amount.BigInt().IsInt64() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "amount is out of range")
	}
	return amount.IntPart(), nil
}
