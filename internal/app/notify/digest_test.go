package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/app/mail"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/app/store"
)

type fakeDigestStore struct {
	recipients    []store.DigestRecipient
	notifications map[int64][]store.Notification

	emailed       []int64
	lastDigestSet map[int64]time.Time

	listErr error
}

func newFakeDigestStore() *fakeDigestStore {
	return &fakeDigestStore{
		notifications: make(map[int64][]store.Notification),
		lastDigestSet: make(map[int64]time.Time),
	}
}

func (f *fakeDigestStore) ListDigestRecipients(context.Context) ([]store.DigestRecipient, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.recipients, nil
}

func (f *fakeDigestStore) ListDigestNotifications(_ context.Context, userID int64, since time.Time) ([]store.Notification, error) {
	var out []store.Notification
	for _, n := range f.notifications[userID] {
		if n.CreatedAt.After(since) && !n.EmailedInDigest {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeDigestStore) MarkNotificationsEmailed(_ context.Context, ids []int64) error {
	f.emailed = append(f.emailed, ids...)
	return nil
}

func (f *fakeDigestStore) SetLastDigestSentAt(_ context.Context, userID int64, sentAt time.Time) error {
	f.lastDigestSet[userID] = sentAt
	return nil
}

const (
	digestPeriod = 24 * time.Hour
	digestBuffer = time.Hour
)

func digestRecipient(id int64, lastDigest *time.Time) store.DigestRecipient {
	return store.DigestRecipient{
		ID:               id,
		Username:         "mira",
		Email:            "mira@example.com",
		LastDigestSentAt: lastDigest,
	}
}

func TestRunOnceSkipsInsideWindow(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		sinceLa  time.Duration // how long ago the last digest went out
		wantSent int
	}{
		{name: "one hour ago", sinceLa: time.Hour, wantSent: 0},
		{name: "just under period minus buffer", sinceLa: 22 * time.Hour, wantSent: 0},
		{name: "exactly period minus buffer", sinceLa: 23 * time.Hour, wantSent: 0},
		{name: "inside buffer", sinceLa: 23*time.Hour + 30*time.Minute, wantSent: 1},
		{name: "exactly one period", sinceLa: 24 * time.Hour, wantSent: 1},
		{name: "well past", sinceLa: 48 * time.Hour, wantSent: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newFakeDigestStore()
			last := now.Add(-tt.sinceLa)
			st.recipients = []store.DigestRecipient{digestRecipient(1, &last)}
			st.notifications[1] = []store.Notification{
				{ID: 100, UserID: 1, Type: store.NotificationGameUpdated,
					Content: "The Sunken Spire was updated", CreatedAt: now.Add(-time.Minute)},
			}

			mailer := &fakeMailer{}
			s := NewDigestScheduler(st, mailer, digestPeriod, digestBuffer, "https://haven.example")

			if got := s.RunOnce(context.Background(), now); got != tt.wantSent {
				t.Fatalf("RunOnce sent %d digests, want %d", got, tt.wantSent)
			}
			if tt.wantSent == 0 && (len(st.emailed) != 0 || len(st.lastDigestSet) != 0) {
				t.Fatalf("skipped user was mutated: emailed=%v lastDigestSet=%v",
					st.emailed, st.lastDigestSet)
			}
		})
	}
}

func TestRunOnceSendsAndMarks(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	last := now.Add(-25 * time.Hour)

	st := newFakeDigestStore()
	st.recipients = []store.DigestRecipient{digestRecipient(1, &last)}
	st.notifications[1] = []store.Notification{
		{ID: 100, UserID: 1, Type: store.NotificationGameUpdated,
			Content: "The Sunken Spire was updated", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: 101, UserID: 1, Type: store.NotificationPlayerJoined,
			Content: "rowan_oak joined The Sunken Spire", CreatedAt: now.Add(-time.Hour)},
	}

	mailer := &fakeMailer{}
	s := NewDigestScheduler(st, mailer, digestPeriod, digestBuffer, "https://haven.example")

	if got := s.RunOnce(context.Background(), now); got != 1 {
		t.Fatalf("RunOnce sent %d digests, want 1", got)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("emails = %d, want 1", len(mailer.sent))
	}
	body := mailer.sent[0].HTMLBody
	for _, want := range []string{"The Sunken Spire was updated", "rowan_oak joined"} {
		if !strings.Contains(body, want) {
			t.Errorf("digest body missing %q", want)
		}
	}

	if len(st.emailed) != 2 {
		t.Fatalf("marked emailed = %v, want both notifications", st.emailed)
	}
	if got, ok := st.lastDigestSet[1]; !ok || !got.Equal(now) {
		t.Fatalf("last_digest_sent_at = %v, want %v", got, now)
	}
}

func TestRunOnceNeverSentUsesPeriodLookback(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	st := newFakeDigestStore()
	st.recipients = []store.DigestRecipient{digestRecipient(1, nil)}
	st.notifications[1] = []store.Notification{
		// Outside the default look-back window; must be excluded.
		{ID: 99, UserID: 1, Type: store.NotificationGameUpdated,
			Content: "Ancient history", CreatedAt: now.Add(-30 * time.Hour)},
		{ID: 100, UserID: 1, Type: store.NotificationGameUpdated,
			Content: "Recent update", CreatedAt: now.Add(-2 * time.Hour)},
	}

	mailer := &fakeMailer{}
	s := NewDigestScheduler(st, mailer, digestPeriod, digestBuffer, "https://haven.example")
	s.RunOnce(context.Background(), now)

	if len(mailer.sent) != 1 {
		t.Fatalf("emails = %d, want 1", len(mailer.sent))
	}
	if strings.Contains(mailer.sent[0].HTMLBody, "Ancient history") {
		t.Fatal("digest included a notification older than the look-back window")
	}
}

func TestRunOnceEmptyDigestNoStateChange(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	last := now.Add(-25 * time.Hour)

	st := newFakeDigestStore()
	st.recipients = []store.DigestRecipient{digestRecipient(1, &last)}

	mailer := &fakeMailer{}
	s := NewDigestScheduler(st, mailer, digestPeriod, digestBuffer, "https://haven.example")

	if got := s.RunOnce(context.Background(), now); got != 0 {
		t.Fatalf("RunOnce sent %d digests with nothing to report", got)
	}
	if len(st.lastDigestSet) != 0 {
		t.Fatal("empty digest updated last_digest_sent_at")
	}
}

func TestRunOnceSendFailureNoMutation(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	last := now.Add(-25 * time.Hour)

	st := newFakeDigestStore()
	st.recipients = []store.DigestRecipient{digestRecipient(1, &last)}
	st.notifications[1] = []store.Notification{
		{ID: 100, UserID: 1, Type: store.NotificationGameUpdated,
			Content: "The Sunken Spire was updated", CreatedAt: now.Add(-time.Hour)},
	}

	mailer := &fakeMailer{err: errors.New("provider outage")}
	s := NewDigestScheduler(st, mailer, digestPeriod, digestBuffer, "https://haven.example")

	if got := s.RunOnce(context.Background(), now); got != 0 {
		t.Fatalf("RunOnce reported %d sends despite mail failure", got)
	}
	if len(st.emailed) != 0 || len(st.lastDigestSet) != 0 {
		t.Fatal("failed send mutated digest state; the window would be lost")
	}
}

func TestRunOnceIsolatesUserFailures(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	last := now.Add(-25 * time.Hour)

	st := newFakeDigestStore()
	st.recipients = []store.DigestRecipient{
		digestRecipient(1, &last),
		digestRecipient(2, &last),
	}
	st.notifications[1] = []store.Notification{
		{ID: 100, UserID: 1, Type: store.NotificationGameUpdated,
			Content: "update one", CreatedAt: now.Add(-time.Hour)},
	}
	st.notifications[2] = []store.Notification{
		{ID: 200, UserID: 2, Type: store.NotificationGameUpdated,
			Content: "update two", CreatedAt: now.Add(-time.Hour)},
	}

	// Fail only the first user's email.
	mailer := &failFirstMailer{}
	s := NewDigestScheduler(st, mailer, digestPeriod, digestBuffer, "https://haven.example")

	if got := s.RunOnce(context.Background(), now); got != 1 {
		t.Fatalf("RunOnce sent %d digests, want 1 (second user unaffected)", got)
	}
}

type failFirstMailer struct {
	fakeMailer
	calls int
}

func (f *failFirstMailer) Send(ctx context.Context, email mail.Email) error {
	f.calls++
	if f.calls == 1 {
		return errors.New("transient failure")
	}
	return f.fakeMailer.Send(ctx, email)
}
