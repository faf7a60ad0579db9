package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/app/store"
)

func TestDeliverToUser(t *testing.T) {
	reg := NewRegistry()
	router := NewRouter(reg)

	if router.DeliverToUser(42, map[string]string{"hello": "world"}) {
		t.Fatal("delivery to an offline user reported success")
	}

	transport := &fakeTransport{}
	reg.RegisterUser(42, NewUserConnection(42, transport))

	if !router.DeliverToUser(42, map[string]string{"hello": "world"}) {
		t.Fatal("delivery to an online user reported failure")
	}
	if transport.pushCount() != 1 {
		t.Fatalf("push count = %d, want 1", transport.pushCount())
	}
	if !router.IsRecipientOnline(42) {
		t.Fatal("IsRecipientOnline = false for a registered user")
	}
}

func TestDeliverToUserFailureUnregisters(t *testing.T) {
	reg := NewRegistry()
	router := NewRouter(reg)

	transport := &fakeTransport{failing: true}
	reg.RegisterUser(42, NewUserConnection(42, transport))

	if router.DeliverToUser(42, map[string]string{"hello": "world"}) {
		t.Fatal("delivery over a dead transport reported success")
	}
	if router.IsRecipientOnline(42) {
		t.Fatal("dead connection was left registered")
	}
	if !transport.closed {
		t.Fatal("dead connection was not closed")
	}
}

func TestBroadcastToChannelSkipsDeadSubscriber(t *testing.T) {
	reg := NewRegistry()
	router := NewRouter(reg)

	healthy1 := &fakeTransport{}
	dead := &fakeTransport{failing: true}
	healthy2 := &fakeTransport{}

	reg.RegisterChannel("game-3", NewChannelConnection("game-3", healthy1))
	deadConn := NewChannelConnection("game-3", dead)
	reg.RegisterChannel("game-3", deadConn)
	reg.RegisterChannel("game-3", NewChannelConnection("game-3", healthy2))

	router.BroadcastToChannel("game-3", map[string]string{"content": "a dragon appears"})

	if healthy1.pushCount() != 1 || healthy2.pushCount() != 1 {
		t.Fatalf("healthy subscribers got %d/%d pushes, want 1/1",
			healthy1.pushCount(), healthy2.pushCount())
	}
	if got := len(reg.ChannelConnections("game-3")); got != 2 {
		t.Fatalf("subscribers after broadcast = %d, want 2 (dead one removed)", got)
	}
	if !dead.closed {
		t.Fatal("dead subscriber was not closed")
	}
}

func TestChannelMessageEventWireFormat(t *testing.T) {
	name := "Elowen"
	role := RoleCharacter
	msg := &store.GameMessage{
		ID:                90210,
		GameID:            3,
		Content:           "draws her bow",
		SenderDisplayName: &name,
		SenderRole:        &role,
		CreatedAt:         time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	raw, err := json.Marshal(NewChannelMessageEvent(msg, "System", RoleSystem))
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}

	// IDs and timestamps cross the wire as strings.
	if got, ok := decoded["id"].(string); !ok || got != "90210" {
		t.Fatalf("id = %v, want string \"90210\"", decoded["id"])
	}
	if _, ok := decoded["timestamp"].(string); !ok {
		t.Fatalf("timestamp = %v, want a string", decoded["timestamp"])
	}
	if got := decoded["senderName"]; got != "Elowen" {
		t.Fatalf("senderName = %v, want Elowen", got)
	}
	if got := decoded["senderType"]; got != RoleCharacter {
		t.Fatalf("senderType = %v, want %s", got, RoleCharacter)
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleGM, RoleCharacter, RoleSystem, RoleNarration, RoleAction} {
		if !ValidRole(role) {
			t.Errorf("ValidRole(%q) = false, want true", role)
		}
	}
	for _, role := range []string{"", "GM", "admin", "player"} {
		if ValidRole(role) {
			t.Errorf("ValidRole(%q) = true, want false", role)
		}
	}
}
