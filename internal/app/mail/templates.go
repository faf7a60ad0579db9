package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// NewDMEmailData fills the new_dm_notification template.
type NewDMEmailData struct {
	RecipientName   string
	SenderName      string
	Preview         string
	ConversationURL string
}

// DigestGroup is one section of the digest email: a heading plus its entries.
type DigestGroup struct {
	Heading string
	Items   []DigestItem
}

// DigestItem is one notification line inside a digest group.
type DigestItem struct {
	Content string
	Link    string
}

// DigestEmailData fills the digest_notification template.
type DigestEmailData struct {
	RecipientName string
	Groups        []DigestGroup
	SiteURL       string
}

// RenderNewDM renders the immediate DM notification email body.
func RenderNewDM(data NewDMEmailData) (string, error) {
	return render("new_dm_notification.html", data)
}

// RenderDigest renders the periodic activity digest email body.
func RenderDigest(data DigestEmailData) (string, error) {
	return render("digest_notification.html", data)
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// GroupHeading maps a notification type tag to its digest section heading.
func GroupHeading(notificationType string) string {
	switch notificationType {
	case "new_game_post":
		return "New game posts"
	case "game_updated":
		return "Game updates"
	case "player_joined_your_game":
		return "Players joined your games"
	case "application_to_your_game":
		return "Applications to your games"
	default:
		return "Other activity"
	}
}
