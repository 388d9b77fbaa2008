package enums

// TransactionStatus is the payment gateway's own status vocabulary. It is
// translated into the internal PaymentStatus exactly once, at the webhook
// boundary.
type TransactionStatus string

const (
	TransactionStatusCapture    TransactionStatus = "capture"
	TransactionStatusSettlement TransactionStatus = "settlement"
	TransactionStatusPending    TransactionStatus = "pending"
	TransactionStatusCancel     TransactionStatus = "cancel"
	TransactionStatusDeny       TransactionStatus = "deny"
	TransactionStatusExpire     TransactionStatus = "expire"
)

// FraudStatus accompanies capture notifications.
type FraudStatus string

const (
	FraudStatusAccept    FraudStatus = "accept"
	FraudStatusChallenge FraudStatus = "challenge"
	FraudStatusDeny      FraudStatus = "deny"
)

// Resolve maps a gateway transaction/fraud status pair onto the internal
// payment status. The second return value is false when the notification
// carries no state change (for example a capture still under fraud review).
func Resolve(transaction TransactionStatus, fraud FraudStatus) (PaymentStatus, bool) {
	switch transaction {
	case TransactionStatusCapture:
		if fraud == FraudStatusAccept {
			return PaymentStatusSettlement, true
		}
		return PaymentStatusPending, false
	case TransactionStatusSettlement:
		return PaymentStatusSettlement, true
	case TransactionStatusCancel, TransactionStatusDeny, TransactionStatusExpire:
		return PaymentStatusFailed, true
	default:
		return PaymentStatusPending, false
	}
}
