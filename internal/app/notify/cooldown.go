/*
Package notify implements Haven's asynchronous notification paths: the immediate
direct message pipeline (live push, cooldown-gated email) and the periodic
activity digest.
*/
package notify

import (
	"context"
	"fmt"
	"time"
)

// CooldownStore persists the per-pair DM email throttle state.
type CooldownStore interface {
	GetCooldown(ctx context.Context, senderID, receiverID int64) (time.Time, bool, error)
	UpsertCooldown(ctx context.Context, senderID, receiverID int64, sentAt time.Time) error
}

// CooldownGate decides whether a sender may trigger another DM email to a
// receiver. The gate is directional: A emailing B does not throttle B emailing A.
type CooldownGate struct {
	store  CooldownStore
	window time.Duration
}

// NewCooldownGate builds a gate with the given throttle window.
func NewCooldownGate(store CooldownStore, window time.Duration) *CooldownGate {
	return &CooldownGate{store: store, window: window}
}

// MayNotify reports whether the pair's last email is absent or older than the
// window. Both sides of the comparison are normalized to UTC so stored offsets
// cannot skew the arithmetic.
func (g *CooldownGate) MayNotify(ctx context.Context, senderID, receiverID int64, now time.Time) (bool, error) {
	last, found, err := g.store.GetCooldown(ctx, senderID, receiverID)
	if err != nil {
		return false, fmt.Errorf("cooldown lookup: %w", err)
	}
	if !found {
		return true, nil
	}

	return last.UTC().Before(now.UTC().Add(-g.window)), nil
}

// RecordNotify stamps the pair with the send time. Called only after the email
// was actually accepted, so a failed send leaves the pair eligible for retry.
func (g *CooldownGate) RecordNotify(ctx context.Context, senderID, receiverID int64, now time.Time) error {
	return g.store.UpsertCooldown(ctx, senderID, receiverID, now.UTC())
}
