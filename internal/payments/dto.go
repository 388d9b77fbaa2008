package payments

import "github.com/google/uuid"

// CreateIntentParams carries the validated inputs for a new payment intent.
// Amount is the price the caller saw, in the smallest currency unit; it must
// match the catalog price for paid courses.
type CreateIntentParams struct {
	UserID   uuid.UUID
	CourseID uuid.UUID
	Amount   int64
}

// CreateIntentResult is returned to the caller so they can complete the
// payment on the gateway side.
type CreateIntentResult struct {
	OrderID       string
	TransactionID string
	PaymentURL    string
}
