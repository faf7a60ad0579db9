/*
Package store implements the persistence gateway over PostgreSQL.

It exposes a Queries struct with one method per database operation, scanning rows into
plain Go structs. Nullable columns map to pointer fields. All timestamps are stored and
returned as timezone-aware values; callers normalize to UTC before comparing.
*/
package store

import "time"

// Notification type tags. new_dm is delivered immediately and never digested;
// the remaining tags form the digest allow-list.
const (
	NotificationNewDM           = "new_dm"
	NotificationNewGamePost     = "new_game_post"
	NotificationGameUpdated     = "game_updated"
	NotificationPlayerJoined    = "player_joined_your_game"
	NotificationGameApplication = "application_to_your_game"
)

// DigestNotificationTypes is the allow-list of notification types bundled into digests.
var DigestNotificationTypes = []string{
	NotificationNewGamePost,
	NotificationGameUpdated,
	NotificationPlayerJoined,
	NotificationGameApplication,
}

// ExcludedFromDigestTypes lists types that are always delivered immediately instead.
var ExcludedFromDigestTypes = []string{NotificationNewDM}

// User is a full account row, including notification preferences and digest state.
type User struct {
	ID                        int64      `json:"id"`
	Username                  string     `json:"username"`
	Email                     string     `json:"email"`
	PasswordHash              string     `json:"-"`
	Nickname                  *string    `json:"nickname,omitempty"`
	Bio                       *string    `json:"bio,omitempty"`
	AvatarKey                 *string    `json:"avatarKey,omitempty"`
	IsActive                  bool       `json:"isActive"`
	IsAdmin                   bool       `json:"isAdmin"`
	EmailNotificationsEnabled bool       `json:"emailNotificationsEnabled"`
	LastDigestSentAt          *time.Time `json:"-"`
	CreatedAt                 time.Time  `json:"createdAt"`
}

// DisplayName returns the nickname when set, falling back to the username.
func (u *User) DisplayName() string {
	if u.Nickname != nil && *u.Nickname != "" {
		return *u.Nickname
	}
	return u.Username
}

// UserRef is the public slice of a user embedded in other payloads.
type UserRef struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	Nickname  *string `json:"nickname,omitempty"`
	AvatarKey *string `json:"avatarKey,omitempty"`
}

// Ref projects a User down to its public reference form.
func (u *User) Ref() UserRef {
	return UserRef{
		ID:        u.ID,
		Username:  u.Username,
		Nickname:  u.Nickname,
		AvatarKey: u.AvatarKey,
	}
}

// Game is a game session row.
type Game struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	MasterID    int64     `json:"masterId"`
	MaxPlayers  *int32    `json:"maxPlayers,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// GameDetails is a game plus its resolved master and player list.
type GameDetails struct {
	Game
	Master  UserRef   `json:"master"`
	Players []UserRef `json:"players"`
}

// GameMessage is an in-game chat message. SenderID is nil for system-authored
// content (dice rolls, narration); the persona override fields carry the display
// identity for non-account-backed voices.
type GameMessage struct {
	ID                int64     `json:"id"`
	GameID            int64     `json:"gameId"`
	SenderID          *int64    `json:"senderId,omitempty"`
	Content           string    `json:"content"`
	SenderDisplayName *string   `json:"senderDisplayName,omitempty"`
	SenderRole        *string   `json:"senderRole,omitempty"`
	SenderAvatarURL   *string   `json:"senderAvatarUrl,omitempty"`
	CharacterID       *string   `json:"characterId,omitempty"`
	OwnerUserID       *string   `json:"ownerUserId,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

// DirectMessage is a one-to-one message row.
type DirectMessage struct {
	ID         int64     `json:"id"`
	SenderID   int64     `json:"senderId"`
	ReceiverID int64     `json:"receiverId"`
	Content    string    `json:"content"`
	IsRead     bool      `json:"isRead"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Conversation pairs a DM partner with the latest message exchanged.
type Conversation struct {
	OtherUser   UserRef       `json:"otherUser"`
	LastMessage DirectMessage `json:"lastMessage"`
}

// Notification is a persisted user notification. EmailedInDigest flips to true once
// the row has been folded into a digest email; rows are never deleted here.
type Notification struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"userId"`
	Type            string    `json:"type"`
	Content         string    `json:"content"`
	Link            *string   `json:"link,omitempty"`
	IsRead          bool      `json:"isRead"`
	EmailedInDigest bool      `json:"emailedInDigest"`
	CreatedAt       time.Time `json:"createdAt"`
}

// DigestRecipient is the projection of a user eligible for digest email delivery.
type DigestRecipient struct {
	ID               int64
	Username         string
	Nickname         *string
	Email            string
	LastDigestSentAt *time.Time
}

// DisplayName returns the nickname when set, falling back to the username.
func (d *DigestRecipient) DisplayName() string {
	if d.Nickname != nil && *d.Nickname != "" {
		return *d.Nickname
	}
	return d.Username
}

// Character is a user-authored roleplay character sheet.
type Character struct {
	ID               int64      `json:"id"`
	UserID           int64      `json:"userId"`
	Name             string     `json:"name"`
	Nickname         *string    `json:"nickname,omitempty"`
	Description      *string    `json:"description,omitempty"`
	ProfilePhotoKey  *string    `json:"profilePhotoKey,omitempty"`
	Design           *string    `json:"design,omitempty"`
	Abilities        *string    `json:"abilities,omitempty"`
	Lore             *string    `json:"lore,omitempty"`
	Birthday         *string    `json:"birthday,omitempty"`
	Interests        *string    `json:"interests,omitempty"`
	Disinterests     *string    `json:"disinterests,omitempty"`
	HomeWorld        *string    `json:"homeWorld,omitempty"`
	Universe         *string    `json:"universe,omitempty"`
	TimePeriod       *string    `json:"timePeriod,omitempty"`
	MainWeapon       *string    `json:"mainWeapon,omitempty"`
	ArmorAttire      *string    `json:"armorAttire,omitempty"`
	KeyItems         *string    `json:"keyItems,omitempty"`
	GeneralInventory *string    `json:"generalInventory,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        *time.Time `json:"updatedAt,omitempty"`
}

// CharacterUpdate enumerates exactly which character fields are updatable.
// A nil field leaves the stored value untouched.
type CharacterUpdate struct {
	Name             *string `json:"name,omitempty"`
	Nickname         *string `json:"nickname,omitempty"`
	Description      *string `json:"description,omitempty"`
	Design           *string `json:"design,omitempty"`
	Abilities        *string `json:"abilities,omitempty"`
	Lore             *string `json:"lore,omitempty"`
	Birthday         *string `json:"birthday,omitempty"`
	Interests        *string `json:"interests,omitempty"`
	Disinterests     *string `json:"disinterests,omitempty"`
	HomeWorld        *string `json:"homeWorld,omitempty"`
	Universe         *string `json:"universe,omitempty"`
	TimePeriod       *string `json:"timePeriod,omitempty"`
	MainWeapon       *string `json:"mainWeapon,omitempty"`
	ArmorAttire      *string `json:"armorAttire,omitempty"`
	KeyItems         *string `json:"keyItems,omitempty"`
	GeneralInventory *string `json:"generalInventory,omitempty"`
}

// Apply merges the update into the character field by field. Only the fields
// enumerated here can ever change through the update path.
func (c *Character) Apply(in CharacterUpdate) {
	if in.Name != nil && *in.Name != "" {
		c.Name = *in.Name
	}
	if in.Nickname != nil {
		c.Nickname = in.Nickname
	}
	if in.Description != nil {
		c.Description = in.Description
	}
	if in.Design != nil {
		c.Design = in.Design
	}
	if in.Abilities != nil {
		c.Abilities = in.Abilities
	}
	if in.Lore != nil {
		c.Lore = in.Lore
	}
	if in.Birthday != nil {
		c.Birthday = in.Birthday
	}
	if in.Interests != nil {
		c.Interests = in.Interests
	}
	if in.Disinterests != nil {
		c.Disinterests = in.Disinterests
	}
	if in.HomeWorld != nil {
		c.HomeWorld = in.HomeWorld
	}
	if in.Universe != nil {
		c.Universe = in.Universe
	}
	if in.TimePeriod != nil {
		c.TimePeriod = in.TimePeriod
	}
	if in.MainWeapon != nil {
		c.MainWeapon = in.MainWeapon
	}
	if in.ArmorAttire != nil {
		c.ArmorAttire = in.ArmorAttire
	}
	if in.KeyItems != nil {
		c.KeyItems = in.KeyItems
	}
	if in.GeneralInventory != nil {
		c.GeneralInventory = in.GeneralInventory
	}
}

// GalleryImage is one image attached to a character's gallery.
type GalleryImage struct {
	ID          int64     `json:"id"`
	CharacterID int64     `json:"characterId"`
	UserID      int64     `json:"userId"`
	StorageKey  string    `json:"storageKey"`
	AltText     *string   `json:"altText,omitempty"`
	UploadedAt  time.Time `json:"uploadedAt"`
}
