package store

import (
	"context"
	"fmt"
	"sort"
)

// CreateGameMessageParams carries a new in-game chat message. SenderID is nil for
// system-authored content; the override fields carry non-account-backed personas.
type CreateGameMessageParams struct {
	GameID            int64
	SenderID          *int64
	Content           string
	SenderDisplayName *string
	SenderRole        *string
	SenderAvatarURL   *string
	CharacterID       *string
	OwnerUserID       *string
}

// CreateGameMessage persists an in-game message and returns the stored row.
func (q *Queries) CreateGameMessage(ctx context.Context, arg CreateGameMessageParams) (*GameMessage, error) {
	row := q.pool.QueryRow(ctx, `
		INSERT INTO game_messages
			(game_id, sender_id, content, sender_display_name, sender_role,
			 sender_avatar_url, character_id, owner_user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, game_id, sender_id, content, sender_display_name, sender_role,
		          sender_avatar_url, character_id, owner_user_id, created_at`,
		arg.GameID, arg.SenderID, arg.Content, arg.SenderDisplayName, arg.SenderRole,
		arg.SenderAvatarURL, arg.CharacterID, arg.OwnerUserID)

	var m GameMessage
	err := row.Scan(&m.ID, &m.GameID, &m.SenderID, &m.Content, &m.SenderDisplayName,
		&m.SenderRole, &m.SenderAvatarURL, &m.CharacterID, &m.OwnerUserID, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create game message: %w", err)
	}
	return &m, nil
}

// ListGameMessages returns a page of messages for the game, oldest first.
func (q *Queries) ListGameMessages(ctx context.Context, gameID int64, limit, offset int) ([]GameMessage, error) {
	rows, err := q.pool.Query(ctx, `
		SELECT id, game_id, sender_id, content, sender_display_name, sender_role,
		       sender_avatar_url, character_id, owner_user_id, created_at
		FROM game_messages
		WHERE game_id = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2 OFFSET $3`, gameID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list game messages: %w", err)
	}
	defer rows.Close()

	var out []GameMessage
	for rows.Next() {
		var m GameMessage
		if err := rows.Scan(&m.ID, &m.GameID, &m.SenderID, &m.Content, &m.SenderDisplayName,
			&m.SenderRole, &m.SenderAvatarURL, &m.CharacterID, &m.OwnerUserID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan game message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// CreateDirectMessage persists a one-to-one message and returns the stored row.
func (q *Queries) CreateDirectMessage(ctx context.Context, senderID, receiverID int64, content string) (*DirectMessage, error) {
	row := q.pool.QueryRow(ctx, `
		INSERT INTO direct_messages (sender_id, receiver_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, sender_id, receiver_id, content, is_read, created_at`,
		senderID, receiverID, content)

	var m DirectMessage
	err := row.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.IsRead, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create direct message: %w", err)
	}
	return &m, nil
}

// ListDirectMessagesBetween returns a page of the DM history between two users, oldest first.
func (q *Queries) ListDirectMessagesBetween(ctx context.Context, userA, userB int64, limit, offset int) ([]DirectMessage, error) {
	rows, err := q.pool.Query(ctx, `
		SELECT id, sender_id, receiver_id, content, is_read, created_at
		FROM direct_messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at ASC, id ASC
		LIMIT $3 OFFSET $4`, userA, userB, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list direct messages: %w", err)
	}
	defer rows.Close()

	var out []DirectMessage
	for rows.Next() {
		var m DirectMessage
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan direct message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListConversations returns, for each DM partner of the user, the latest message exchanged,
// newest conversation first.
func (q *Queries) ListConversations(ctx context.Context, userID int64) ([]Conversation, error) {
	rows, err := q.pool.Query(ctx, `
		SELECT DISTINCT ON (other.id)
		       dm.id, dm.sender_id, dm.receiver_id, dm.content, dm.is_read, dm.created_at,
		       other.id, other.username, other.nickname, other.avatar_key
		FROM direct_messages dm
		JOIN users other
		  ON other.id = CASE WHEN dm.sender_id = $1 THEN dm.receiver_id ELSE dm.sender_id END
		WHERE dm.sender_id = $1 OR dm.receiver_id = $1
		ORDER BY other.id, dm.created_at DESC, dm.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var out []Conversation
	for rows.Next() {
		var c Conversation
		if err := rows.Scan(
			&c.LastMessage.ID, &c.LastMessage.SenderID, &c.LastMessage.ReceiverID,
			&c.LastMessage.Content, &c.LastMessage.IsRead, &c.LastMessage.CreatedAt,
			&c.OtherUser.ID, &c.OtherUser.Username, &c.OtherUser.Nickname, &c.OtherUser.AvatarKey,
		); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Newest conversation first.
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastMessage.CreatedAt.After(out[j].LastMessage.CreatedAt)
	})

	return out, nil
}
