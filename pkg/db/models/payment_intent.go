package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rakapradana/kursusku-backend/pkg/enums"
)

// PaymentIntent tracks a pending course purchase awaiting gateway confirmation.
// OrderID is the externally visible identifier the gateway echoes back in
// webhook notifications; it never changes once issued.
type PaymentIntent struct {
	ID                   uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	UserID               uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	CourseID             uuid.UUID           `gorm:"column:course_id;type:uuid;not null;index"`
	OrderID              string              `gorm:"column:order_id;not null;uniqueIndex:payments_order_id_key"`
	Amount               int64               `gorm:"column:amount;not null"`
	Status               enums.PaymentStatus `gorm:"column:status;not null;default:'pending'"`
	GatewayTransactionID *string             `gorm:"column:gateway_transaction_id"`
	GatewayPaymentType   *string             `gorm:"column:gateway_payment_type"`
	CreatedAt            time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the historical table name.
func (PaymentIntent) TableName() string {
	return "payments"
}
