package notify

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/app/mail"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/app/realtime"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/app/store"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/logx"
)

const dmPreviewLimit = 120

// NotificationStore persists notification rows.
type NotificationStore interface {
	CreateNotification(ctx context.Context, arg store.CreateNotificationParams) (*store.Notification, error)
}

// Deliverer is the live push side the notifier talks to.
type Deliverer interface {
	DeliverToUser(userID int64, event any) bool
	IsRecipientOnline(userID int64) bool
}

// Notifier runs the asynchronous half of a direct message send: persist the
// notification, attempt a live push, and fall back to a cooldown-gated email for
// offline recipients. None of its failures propagate to the originating request.
type Notifier struct {
	notifications NotificationStore
	router        Deliverer
	gate          *CooldownGate
	mailer        mail.Mailer
	frontendURL   string
}

// NewNotifier wires the DM notification pipeline.
func NewNotifier(notifications NotificationStore, router Deliverer, gate *CooldownGate, mailer mail.Mailer, frontendURL string) *Notifier {
	return &Notifier{
		notifications: notifications,
		router:        router,
		gate:          gate,
		mailer:        mailer,
		frontendURL:   frontendURL,
	}
}

// NotifyNewDM handles everything after the DM row itself is stored: in-app
// notification, live push, and the offline email fallback.
func (n *Notifier) NotifyNewDM(ctx context.Context, sender, receiver *store.User, dm *store.DirectMessage) {
	link := fmt.Sprintf("%s/messages/%d", n.frontendURL, sender.ID)
	_, err := n.notifications.CreateNotification(ctx, store.CreateNotificationParams{
		UserID:  receiver.ID,
		Type:    store.NotificationNewDM,
		Content: fmt.Sprintf("New message from %s", sender.DisplayName()),
		Link:    &link,
	})
	if err != nil {
		logx.Error(err, "Failed to create DM notification",
			"sender_id", sender.ID, "receiver_id", receiver.ID)
	}

	if n.router.DeliverToUser(receiver.ID, realtime.NewDirectMessageEvent(dm)) {
		// Online recipients saw the message; no cooldown bookkeeping happens.
		return
	}

	n.emailFallback(ctx, sender, receiver, dm)
}

// emailFallback sends the offline-recipient email when preferences and the
// cooldown gate allow it.
func (n *Notifier) emailFallback(ctx context.Context, sender, receiver *store.User, dm *store.DirectMessage) {
	if !receiver.EmailNotificationsEnabled || receiver.Email == "" {
		return
	}

	now := time.Now()

	allowed, err := n.gate.MayNotify(ctx, sender.ID, receiver.ID, now)
	if err != nil {
		logx.Error(err, "Cooldown check failed, skipping DM email",
			"sender_id", sender.ID, "receiver_id", receiver.ID)
		return
	}
	if !allowed {
		return
	}

	preview := dm.Content
	if utf8.RuneCountInString(preview) > dmPreviewLimit {
		runes := []rune(preview)
		preview = string(runes[:dmPreviewLimit]) + "…"
	}

	body, err := mail.RenderNewDM(mail.NewDMEmailData{
		RecipientName:   receiver.DisplayName(),
		SenderName:      sender.DisplayName(),
		Preview:         preview,
		ConversationURL: fmt.Sprintf("%s/messages/%d", n.frontendURL, sender.ID),
	})
	if err != nil {
		logx.Error(err, "Failed to render DM email")
		return
	}

	email := mail.Email{
		ToName:   receiver.DisplayName(),
		ToEmail:  receiver.Email,
		Subject:  fmt.Sprintf("New message from %s on Haven", sender.DisplayName()),
		TextBody: fmt.Sprintf("%s sent you a message: %s", sender.DisplayName(), preview),
		HTMLBody: body,
	}

	if err := n.mailer.Send(ctx, email); err != nil {
		// The pair stays eligible so the next DM can retry the email.
		logx.Error(err, "DM email send failed",
			"sender_id", sender.ID, "receiver_id", receiver.ID)
		return
	}

	if err := n.gate.RecordNotify(ctx, sender.ID, receiver.ID, now); err != nil {
		logx.Error(err, "Failed to record DM email cooldown",
			"sender_id", sender.ID, "receiver_id", receiver.ID)
	}
}
