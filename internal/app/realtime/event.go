package realtime

import (
	"strconv"
	"time"

	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/app/store"
)

// GameChannelID maps a game to its broadcast channel key. Roleplay sockets and
// HTTP-side broadcasts must agree on this mapping.
func GameChannelID(gameID int64) string {
	return "game-" + strconv.FormatInt(gameID, 10)
}

// Roleplay voice tags a channel message can carry.
const (
	RoleGM        = "gm"
	RoleCharacter = "character"
	RoleSystem    = "system"
	RoleNarration = "narration"
	RoleAction    = "action"
)

// ValidRole reports whether role is one of the accepted roleplay voices.
func ValidRole(role string) bool {
	switch role {
	case RoleGM, RoleCharacter, RoleSystem, RoleNarration, RoleAction:
		return true
	}
	return false
}

// DirectMessageEvent is the payload pushed on a user's personal stream when a DM
// arrives. CreatedAt is RFC 3339 in UTC.
type DirectMessageEvent struct {
	Type       string `json:"type"`
	ID         int64  `json:"id"`
	SenderID   int64  `json:"senderId"`
	ReceiverID int64  `json:"receiverId"`
	Content    string `json:"content"`
	CreatedAt  string `json:"createdAt"`
	IsRead     bool   `json:"isRead"`
}

// NewDirectMessageEvent builds the push payload for a stored direct message.
func NewDirectMessageEvent(dm *store.DirectMessage) DirectMessageEvent {
	return DirectMessageEvent{
		Type:       "new_dm",
		ID:         dm.ID,
		SenderID:   dm.SenderID,
		ReceiverID: dm.ReceiverID,
		Content:    dm.Content,
		CreatedAt:  dm.CreatedAt.UTC().Format(time.RFC3339),
		IsRead:     dm.IsRead,
	}
}

// ChannelMessageEvent is the payload broadcast to a roleplay channel. ID and
// Timestamp are strings on the wire for frontend compatibility.
type ChannelMessageEvent struct {
	ID          string  `json:"id"`
	Timestamp   string  `json:"timestamp"`
	SenderName  string  `json:"senderName"`
	SenderType  string  `json:"senderType"`
	Avatar      *string `json:"avatar,omitempty"`
	CharacterID *string `json:"characterId,omitempty"`
	OwnerUserID *string `json:"ownerUserId,omitempty"`
	Content     string  `json:"content"`
}

// NewChannelMessageEvent builds the broadcast payload for a stored game message.
// Fallback identity covers system-voiced rows with no sender account.
func NewChannelMessageEvent(msg *store.GameMessage, fallbackName, fallbackRole string) ChannelMessageEvent {
	ev := ChannelMessageEvent{
		ID:          strconv.FormatInt(msg.ID, 10),
		Timestamp:   strconv.FormatInt(msg.CreatedAt.UTC().Unix(), 10),
		SenderName:  fallbackName,
		SenderType:  fallbackRole,
		Avatar:      msg.SenderAvatarURL,
		CharacterID: msg.CharacterID,
		OwnerUserID: msg.OwnerUserID,
		Content:     msg.Content,
	}

	if msg.SenderDisplayName != nil && *msg.SenderDisplayName != "" {
		ev.SenderName = *msg.SenderDisplayName
	}
	if msg.SenderRole != nil && *msg.SenderRole != "" {
		ev.SenderType = *msg.SenderRole
	}

	return ev
}
