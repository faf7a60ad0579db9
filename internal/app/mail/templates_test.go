package mail

import (
	"strings"
	"testing"
)

func TestRenderNewDM(t *testing.T) {
	body, err := RenderNewDM(NewDMEmailData{
		RecipientName:   "Mira",
		SenderName:      "Thorne",
		Preview:         "Meet me at the old mill after dusk.",
		ConversationURL: "https://haven.example/messages/12",
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"Mira", "Thorne", "Meet me at the old mill", "https://haven.example/messages/12"} {
		if !strings.Contains(body, want) {
			t.Errorf("rendered body missing %q", want)
		}
	}
}

func TestRenderNewDMEscapesHTML(t *testing.T) {
	body, err := RenderNewDM(NewDMEmailData{
		RecipientName: "Mira",
		SenderName:    "Thorne",
		Preview:       `<script>alert("x")</script>`,
	})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(body, "<script>") {
		t.Fatal("message content was not HTML-escaped")
	}
}

func TestRenderDigest(t *testing.T) {
	body, err := RenderDigest(DigestEmailData{
		RecipientName: "Mira",
		SiteURL:       "https://haven.example",
		Groups: []DigestGroup{
			{
				Heading: "Game updates",
				Items: []DigestItem{
					{Content: "The Sunken Spire updated its description", Link: "https://haven.example/games/3"},
					{Content: "Ashfall Chronicles changed its schedule"},
				},
			},
			{
				Heading: "Players joined your games",
				Items:   []DigestItem{{Content: "rowan_oak joined The Sunken Spire"}},
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"Game updates",
		"Players joined your games",
		"The Sunken Spire updated its description",
		"rowan_oak joined The Sunken Spire",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("rendered digest missing %q", want)
		}
	}
}

func TestGroupHeading(t *testing.T) {
	tests := []struct {
		typ  string
		want string
	}{
		{"new_game_post", "New game posts"},
		{"game_updated", "Game updates"},
		{"player_joined_your_game", "Players joined your games"},
		{"application_to_your_game", "Applications to your games"},
		{"something_else", "Other activity"},
	}
	for _, tt := range tests {
		if got := GroupHeading(tt.typ); got != tt.want {
			t.Errorf("GroupHeading(%q) = %q, want %q", tt.typ, got, tt.want)
		}
	}
}
