package payments

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const orderIDPrefix = "ORDER"

// NewOrderID builds the externally visible order identifier. The timestamp
// keeps ids unique across calls and the user fragment keeps them
// non-enumerable without leaking the full user id.
func NewOrderID(now time.Time, userID uuid.UUID) string {
	fragment := strings.ReplaceAll(userID.String(), "-", "")[:8]
	return fmt.Sprintf("%s-%d-%s", orderIDPrefix, now.UnixNano(), fragment)
}
