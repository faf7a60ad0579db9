package store

import (
	"context"
	"fmt"
	"time"
)

// CreateUserParams carries the fields required to register a new account.
type CreateUserParams struct {
	Username     string
	Email        string
	PasswordHash string
	Nickname     *string
	Bio          *string
}

// CreateUser inserts a new account row and returns it.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (*User, error) {
	row := q.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, nickname, bio)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		arg.Username, arg.Email, arg.PasswordHash, arg.Nickname, arg.Bio)

	return scanUser(row)
}

// GetUserByID fetches a user by primary key.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (*User, error) {
	row := q.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetUserByUsername fetches a user by exact username.
func (q *Queries) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	row := q.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

// GetUserByEmail fetches a user by email address.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := q.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// UpdateProfileParams enumerates exactly which profile fields are updatable.
// Nil fields keep their stored value.
type UpdateProfileParams struct {
	Nickname                  *string
	Bio                       *string
	EmailNotificationsEnabled *bool
}

// UpdateUserProfile merges the given profile fields into the user row and returns the result.
// The merge is explicit and field-by-field; no other column can be touched through this path.
func (q *Queries) UpdateUserProfile(ctx context.Context, id int64, arg UpdateProfileParams) (*User, error) {
	row := q.pool.QueryRow(ctx, `
		UPDATE users SET
			nickname                    = COALESCE($2, nickname),
			bio                         = COALESCE($3, bio),
			email_notifications_enabled = COALESCE($4, email_notifications_enabled)
		WHERE id = $1
		RETURNING `+userColumns,
		id, arg.Nickname, arg.Bio, arg.EmailNotificationsEnabled)

	return scanUser(row)
}

// SetUserAvatarKey replaces the user's avatar storage key. An empty key clears it.
func (q *Queries) SetUserAvatarKey(ctx context.Context, id int64, key string) (*User, error) {
	var stored *string
	if key != "" {
		stored = &key
	}

	row := q.pool.QueryRow(ctx, `
		UPDATE users SET avatar_key = $2 WHERE id = $1
		RETURNING `+userColumns,
		id, stored)

	return scanUser(row)
}

// UpdateUserPassword replaces the stored password hash.
func (q *Queries) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := q.pool.Exec(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update password: user %d not found", id)
	}
	return nil
}

// ListDigestRecipients returns every active user with email notifications enabled
// and a contactable address, together with their digest bookkeeping timestamp.
func (q *Queries) ListDigestRecipients(ctx context.Context) ([]DigestRecipient, error) {
	rows, err := q.pool.Query(ctx, `
		SELECT id, username, nickname, email, last_digest_sent_at
		FROM users
		WHERE is_active AND email_notifications_enabled AND email <> ''
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list digest recipients: %w", err)
	}
	defer rows.Close()

	var out []DigestRecipient
	for rows.Next() {
		var r DigestRecipient
		if err := rows.Scan(&r.ID, &r.Username, &r.Nickname, &r.Email, &r.LastDigestSentAt); err != nil {
			return nil, fmt.Errorf("scan digest recipient: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListUsers returns account rows ordered by id, newest last. Admin surface only.
func (q *Queries) ListUsers(ctx context.Context, limit, offset int) ([]User, error) {
	rows, err := q.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// SetLastDigestSentAt records the completion time of a successful digest send.
func (q *Queries) SetLastDigestSentAt(ctx context.Context, userID int64, at time.Time) error {
	_, err := q.pool.Exec(ctx,
		`UPDATE users SET last_digest_sent_at = $2 WHERE id = $1`, userID, at.UTC())
	if err != nil {
		return fmt.Errorf("set last digest time: %w", err)
	}
	return nil
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Nickname, &u.Bio, &u.AvatarKey,
		&u.IsActive, &u.IsAdmin, &u.EmailNotificationsEnabled, &u.LastDigestSentAt, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
