package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/app/mail"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/app/store"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/logx"
)

// perUserTimeout bounds one recipient's digest work so a slow mail call cannot
// stall the whole run.
const perUserTimeout = 30 * time.Second

// DigestStore is the persistence slice the scheduler needs.
type DigestStore interface {
	ListDigestRecipients(ctx context.Context) ([]store.DigestRecipient, error)
	ListDigestNotifications(ctx context.Context, userID int64, since time.Time) ([]store.Notification, error)
	MarkNotificationsEmailed(ctx context.Context, ids []int64) error
	SetLastDigestSentAt(ctx context.Context, userID int64, sentAt time.Time) error
}

// DigestScheduler periodically bundles unread activity into one email per user.
// Delivery is at-least-once: rows are marked emailed only after the send
// succeeds, so a crash between send and mark can repeat a digest but never
// silently drop one.
type DigestScheduler struct {
	store   DigestStore
	mailer  mail.Mailer
	period  time.Duration
	buffer  time.Duration
	siteURL string
}

// NewDigestScheduler builds a scheduler. period is the target cadence between a
// user's digests; buffer tolerates run-to-run clock drift so a digest scheduled
// every 24 h is not skipped at 23 h 59 m.
func NewDigestScheduler(st DigestStore, mailer mail.Mailer, period, buffer time.Duration, siteURL string) *DigestScheduler {
	return &DigestScheduler{
		store:   st,
		mailer:  mailer,
		period:  period,
		buffer:  buffer,
		siteURL: siteURL,
	}
}

// Run loops RunOnce on the given interval until the context is canceled.
func (s *DigestScheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logx.Info("Digest scheduler started",
		"interval", interval.String(), "period", s.period.String())

	for {
		select {
		case <-ctx.Done():
			logx.Info("Digest scheduler stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx, time.Now())
		}
	}
}

// RunOnce processes every eligible recipient once. Failures are isolated per
// user; the run always visits everyone. Returns how many digests were sent.
func (s *DigestScheduler) RunOnce(ctx context.Context, now time.Time) int {
	recipients, err := s.store.ListDigestRecipients(ctx)
	if err != nil {
		logx.Error(err, "Failed to list digest recipients")
		return 0
	}

	sent := 0
	for i := range recipients {
		userCtx, cancel := context.WithTimeout(ctx, perUserTimeout)
		ok, err := s.processUser(userCtx, &recipients[i], now)
		cancel()

		if err != nil {
			logx.Error(err, "Digest failed for user", "user_id", recipients[i].ID)
			continue
		}
		if ok {
			sent++
		}
	}

	if sent > 0 {
		logx.Info("Digest run complete", "sent", sent, "recipients", len(recipients))
	}
	return sent
}

// processUser builds and sends one user's digest. Returns true when an email
// went out.
func (s *DigestScheduler) processUser(ctx context.Context, r *store.DigestRecipient, now time.Time) (bool, error) {
	now = now.UTC()

	// Default look-back for users who never received a digest.
	since := now.Add(-s.period)
	if r.LastDigestSentAt != nil {
		last := r.LastDigestSentAt.UTC()
		// Due strictly after period-buffer has elapsed; at the boundary itself
		// the user still waits for the next tick.
		if !now.After(last.Add(s.period - s.buffer)) {
			return false, nil
		}
		since = last
	}

	notifications, err := s.store.ListDigestNotifications(ctx, r.ID, since)
	if err != nil {
		return false, fmt.Errorf("list digest notifications: %w", err)
	}
	if len(notifications) == 0 {
		return false, nil
	}

	groups := groupByType(notifications)

	body, err := mail.RenderDigest(mail.DigestEmailData{
		RecipientName: r.DisplayName(),
		Groups:        groups,
		SiteURL:       s.siteURL,
	})
	if err != nil {
		return false, fmt.Errorf("render digest: %w", err)
	}

	email := mail.Email{
		ToName:   r.DisplayName(),
		ToEmail:  r.Email,
		Subject:  "Your Haven activity digest",
		TextBody: fmt.Sprintf("You have %d updates waiting on Haven.", len(notifications)),
		HTMLBody: body,
	}

	// Send failure means no state changes; the next run retries the same window.
	if err := s.mailer.Send(ctx, email); err != nil {
		return false, fmt.Errorf("send digest: %w", err)
	}

	ids := make([]int64, len(notifications))
	for i := range notifications {
		ids[i] = notifications[i].ID
	}

	// The email is out. Persistence failures past this point cannot be rolled
	// back, only surfaced loudly.
	if err := s.store.MarkNotificationsEmailed(ctx, ids); err != nil {
		logx.Error(err, "Digest sent but notifications not marked emailed; duplicates possible",
			"user_id", r.ID, "count", len(ids))
	}
	if err := s.store.SetLastDigestSentAt(ctx, r.ID, now); err != nil {
		logx.Error(err, "Digest sent but last_digest_sent_at not updated; duplicates possible",
			"user_id", r.ID)
	}

	return true, nil
}

// groupByType buckets notifications into digest sections, preserving first-seen
// type order and chronological order inside each section.
func groupByType(notifications []store.Notification) []mail.DigestGroup {
	index := make(map[string]int)
	var groups []mail.DigestGroup

	for i := range notifications {
		n := &notifications[i]

		gi, ok := index[n.Type]
		if !ok {
			gi = len(groups)
			index[n.Type] = gi
			groups = append(groups, mail.DigestGroup{Heading: mail.GroupHeading(n.Type)})
		}

		item := mail.DigestItem{Content: n.Content}
		if n.Link != nil {
			item.Link = *n.Link
		}
		groups[gi].Items = append(groups[gi].Items, item)
	}

	return groups
}
