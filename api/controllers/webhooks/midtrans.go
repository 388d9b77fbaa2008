package webhooks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/rakapradana/kursusku-backend/api/responses"
	midtranswebhook "github.com/rakapradana/kursusku-backend/internal/webhooks/midtrans"
	pkgerrors "github.com/rakapradana/kursusku-backend/pkg/errors"
	"github.com/rakapradana/kursusku-backend/pkg/logger"
)

// MidtransWebhookService is the surface the webhook controller needs.
type MidtransWebhookService interface {
	HandleNotification(ctx context.Context, notification *midtranswebhook.Notification) error
}

type midtransWebhookGuard interface {
	Seen(ctx context.Context, notificationID string) (bool, error)
	Mark(ctx context.Context, notificationID string) error
}

// MidtransWebhook receives payment notifications from the gateway. The guard
// is optional; without it every delivery goes through the service, whose
// status table keeps replays harmless.
func MidtransWebhook(svc MidtransWebhookService, guard midtransWebhookGuard, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook service unavailable"))
			return
		}

		payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		// Gateway payloads carry fields beyond the ones we consume, so the
		// strict body decoder is not used here.
		var notification midtranswebhook.Notification
		if err := json.Unmarshal(payload, &notification); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid notification payload"))
			return
		}

		notificationID := strings.TrimSpace(notification.TransactionID)
		if notificationID == "" {
			notificationID = notification.OrderID + ":" + notification.TransactionStatus
		}

		if guard != nil {
			seen, err := guard.Seen(ctx, notificationID)
			if err != nil {
				// Redis being down must not drop a payment notification.
				if logg != nil {
					logg.Error(ctx, "webhook idempotency check failed", err)
				}
			} else if seen {
				responses.WriteSuccess(w, map[string]string{"status": "ok"})
				return
			}
		}

		if err := svc.HandleNotification(ctx, &notification); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		// The mark lands only after the status change did; a crash or
		// failure before this point leaves the gateway retry to process
		// the notification for real.
		if guard != nil {
			if err := guard.Mark(ctx, notificationID); err != nil && logg != nil {
				logg.Error(ctx, "webhook idempotency mark failed", err)
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}
