package midtranswebhook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rakapradana/kursusku-backend/pkg/redis"
)

// IdempotencyGuard short-circuits replayed gateway notifications before they
// reach the database. A notification is marked only after it was fully
// processed, so a failed attempt leaves no mark and the gateway retry runs
// the real processing again. The status table remains the source of truth;
// this is a cheap first line against duplicate delivery bursts.
type IdempotencyGuard struct {
	store redis.IdempotencyStore
	ttl   time.Duration
	scope string
}

func NewIdempotencyGuard(store redis.IdempotencyStore, ttl time.Duration, scope string) (*IdempotencyGuard, error) {
	if store == nil {
		return nil, errors.New("idempotency store is required")
	}
	if ttl < 0 {
		return nil, errors.New("ttl must be non-negative")
	}
	if scope == "" {
		return nil, errors.New("scope is required")
	}
	return &IdempotencyGuard{
		store: store,
		ttl:   ttl,
		scope: scope,
	}, nil
}

// Seen reports whether the notification was already fully processed.
func (g *IdempotencyGuard) Seen(ctx context.Context, notificationID string) (bool, error) {
	if notificationID == "" {
		return false, errors.New("notification id is required")
	}
	key := g.store.IdempotencyKey(g.scope, notificationID)
	value, err := g.store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("get idempotency key: %w", err)
	}
	return value != "", nil
}

// Mark records the notification as processed for the dedup window.
func (g *IdempotencyGuard) Mark(ctx context.Context, notificationID string) error {
	if notificationID == "" {
		return errors.New("notification id is required")
	}
	key := g.store.IdempotencyKey(g.scope, notificationID)
	if _, err := g.store.SetNX(ctx, key, "1", g.ttl); err != nil {
		return fmt.Errorf("set idempotency key: %w", err)
	}
	return nil
}
