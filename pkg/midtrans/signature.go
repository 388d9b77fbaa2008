package midtrans

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
)

// Signature computes the digest Midtrans attaches to webhook notifications:
// SHA-512 over order_id + status_code + gross_amount + server_key, byte
// concatenated with no separators, rendered as lowercase hex.
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

// VerifySignature reports whether the provided signature matches the expected
// digest. The comparison is constant time; this check is the sole
// authentication mechanism for inbound notifications.
func VerifySignature(orderID, statusCode, grossAmount, serverKey, provided string) bool {
	if serverKey == "" || provided == "" {
		return false
	}
	expected := Signature(orderID, statusCode, grossAmount, serverKey)
	return hmac.Equal([]byte(expected), []byte(provided))
}
