package payments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rakapradana/kursusku-backend/pkg/db/models"
	"github.com/rakapradana/kursusku-backend/pkg/enums"
)

// Repository persists payment intents. Status changes go through single-row
// updates keyed by order id so concurrent webhook deliveries stay atomic at
// the store layer.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a payments repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new payment intent.
func (r *Repository) Create(ctx context.Context, intent *models.PaymentIntent) error {
	return r.db.WithContext(ctx).Create(intent).Error
}

// FindByOrderID loads the intent carrying the externally visible order id.
func (r *Repository) FindByOrderID(ctx context.Context, orderID string) (*models.PaymentIntent, error) {
	var intent models.PaymentIntent
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&intent).Error; err != nil {
		return nil, err
	}
	return &intent, nil
}

// UpdateStatusByOrderID applies a status transition as a single-row update.
func (r *Repository) UpdateStatusByOrderID(ctx context.Context, orderID string, status enums.PaymentStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.PaymentIntent{}).
		Where("order_id = ?", orderID).
		UpdateColumn("status", status).Error
}

// UpdateGatewayDetails records the gateway transaction id and payment type
// once the charge call succeeds.
func (r *Repository) UpdateGatewayDetails(ctx context.Context, id uuid.UUID, transactionID, paymentType string) error {
	return r.db.WithContext(ctx).
		Model(&models.PaymentIntent{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"gateway_transaction_id": transactionID,
			"gateway_payment_type":   paymentType,
		}).Error
}
