package store

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Queries provides typed access to every database operation the application performs.
// It is safe for concurrent use; the underlying pool handles connection management.
type Queries struct {
	pool *pgxpool.Pool
}

// New constructs a Queries instance over an initialized connection pool.
func New(pool *pgxpool.Pool) *Queries {
	return &Queries{pool: pool}
}

const userColumns = `id, username, email, password_hash, nickname, bio, avatar_key,
	is_active, is_admin, email_notifications_enabled, last_digest_sent_at, created_at`
