package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/app/mail"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/app/store"
)

type fakeNotificationStore struct {
	created []store.CreateNotificationParams
}

func (f *fakeNotificationStore) CreateNotification(_ context.Context, arg store.CreateNotificationParams) (*store.Notification, error) {
	f.created = append(f.created, arg)
	return &store.Notification{
		ID:      int64(len(f.created)),
		UserID:  arg.UserID,
		Type:    arg.Type,
		Content: arg.Content,
		Link:    arg.Link,
	}, nil
}

type fakeDeliverer struct {
	online    bool
	delivered []any
}

func (f *fakeDeliverer) DeliverToUser(_ int64, event any) bool {
	if f.online {
		f.delivered = append(f.delivered, event)
	}
	return f.online
}

func (f *fakeDeliverer) IsRecipientOnline(int64) bool { return f.online }

type fakeMailer struct {
	sent []mail.Email
	err  error
}

func (f *fakeMailer) Send(_ context.Context, email mail.Email) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, email)
	return nil
}

func testUsers() (sender, receiver *store.User) {
	sender = &store.User{ID: 1, Username: "thorne", Email: "thorne@example.com"}
	receiver = &store.User{
		ID:                        2,
		Username:                  "mira",
		Email:                     "mira@example.com",
		EmailNotificationsEnabled: true,
	}
	return sender, receiver
}

func testDM(sender, receiver *store.User) *store.DirectMessage {
	return &store.DirectMessage{
		ID:         10,
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Content:    "Meet me at the old mill.",
		CreatedAt:  time.Now().UTC(),
	}
}

func TestNotifyNewDMOnlineRecipient(t *testing.T) {
	notifications := &fakeNotificationStore{}
	router := &fakeDeliverer{online: true}
	cooldowns := newFakeCooldownStore()
	mailer := &fakeMailer{}

	n := NewNotifier(notifications, router,
		NewCooldownGate(cooldowns, 15*time.Minute), mailer, "https://haven.example")

	sender, receiver := testUsers()
	n.NotifyNewDM(context.Background(), sender, receiver, testDM(sender, receiver))

	if len(notifications.created) != 1 || notifications.created[0].Type != store.NotificationNewDM {
		t.Fatalf("notifications created = %+v, want one new_dm", notifications.created)
	}
	if len(router.delivered) != 1 {
		t.Fatalf("live pushes = %d, want 1", len(router.delivered))
	}
	if len(mailer.sent) != 0 {
		t.Fatal("online recipient got an email")
	}
	// Online delivery must not touch cooldown state.
	if len(cooldowns.records) != 0 {
		t.Fatal("online delivery recorded a cooldown")
	}
}

func TestNotifyNewDMOfflineRecipientEmails(t *testing.T) {
	notifications := &fakeNotificationStore{}
	router := &fakeDeliverer{online: false}
	cooldowns := newFakeCooldownStore()
	mailer := &fakeMailer{}

	n := NewNotifier(notifications, router,
		NewCooldownGate(cooldowns, 15*time.Minute), mailer, "https://haven.example")

	sender, receiver := testUsers()
	n.NotifyNewDM(context.Background(), sender, receiver, testDM(sender, receiver))

	if len(mailer.sent) != 1 {
		t.Fatalf("emails sent = %d, want 1", len(mailer.sent))
	}
	if mailer.sent[0].ToEmail != "mira@example.com" {
		t.Fatalf("email went to %s", mailer.sent[0].ToEmail)
	}
	if _, ok := cooldowns.records[[2]int64{1, 2}]; !ok {
		t.Fatal("successful email did not record a cooldown")
	}
}

func TestNotifyNewDMOfflineWithinCooldown(t *testing.T) {
	notifications := &fakeNotificationStore{}
	router := &fakeDeliverer{online: false}
	cooldowns := newFakeCooldownStore()
	cooldowns.records[[2]int64{1, 2}] = time.Now().UTC().Add(-time.Minute)
	mailer := &fakeMailer{}

	n := NewNotifier(notifications, router,
		NewCooldownGate(cooldowns, 15*time.Minute), mailer, "https://haven.example")

	sender, receiver := testUsers()
	n.NotifyNewDM(context.Background(), sender, receiver, testDM(sender, receiver))

	// The notification row is still created; only the email is suppressed.
	if len(notifications.created) != 1 {
		t.Fatalf("notifications created = %d, want 1", len(notifications.created))
	}
	if len(mailer.sent) != 0 {
		t.Fatal("throttled pair still got an email")
	}
}

func TestNotifyNewDMRespectsPreferences(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*store.User)
	}{
		{name: "notifications disabled", mutate: func(u *store.User) { u.EmailNotificationsEnabled = false }},
		{name: "no email address", mutate: func(u *store.User) { u.Email = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer := &fakeMailer{}
			cooldowns := newFakeCooldownStore()
			n := NewNotifier(&fakeNotificationStore{}, &fakeDeliverer{online: false},
				NewCooldownGate(cooldowns, 15*time.Minute), mailer, "https://haven.example")

			sender, receiver := testUsers()
			tt.mutate(receiver)
			n.NotifyNewDM(context.Background(), sender, receiver, testDM(sender, receiver))

			if len(mailer.sent) != 0 {
				t.Fatal("email sent despite preferences")
			}
		})
	}
}

func TestNotifyNewDMSendFailureLeavesPairEligible(t *testing.T) {
	cooldowns := newFakeCooldownStore()
	mailer := &fakeMailer{err: errors.New("smtp down")}

	n := NewNotifier(&fakeNotificationStore{}, &fakeDeliverer{online: false},
		NewCooldownGate(cooldowns, 15*time.Minute), mailer, "https://haven.example")

	sender, receiver := testUsers()
	n.NotifyNewDM(context.Background(), sender, receiver, testDM(sender, receiver))

	if _, ok := cooldowns.records[[2]int64{1, 2}]; ok {
		t.Fatal("failed send recorded a cooldown; the retry window is lost")
	}
}
