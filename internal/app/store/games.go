package store

import (
	"context"
	"fmt"
)

// CreateGameParams carries the fields for a new game session.
type CreateGameParams struct {
	Name        string
	Description *string
	MasterID    int64
	MaxPlayers  *int32
}

// CreateGame inserts a new game with the given master and returns its details.
func (q *Queries) CreateGame(ctx context.Context, arg CreateGameParams) (*GameDetails, error) {
	var id int64
	err := q.pool.QueryRow(ctx, `
		INSERT INTO games (name, description, master_id, max_players)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		arg.Name, arg.Description, arg.MasterID, arg.MaxPlayers).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}

	return q.GetGameByID(ctx, id)
}

// GetGameByID fetches a game with its master and player list resolved.
func (q *Queries) GetGameByID(ctx context.Context, id int64) (*GameDetails, error) {
	var g GameDetails
	err := q.pool.QueryRow(ctx, `
		SELECT g.id, g.name, g.description, g.master_id, g.max_players, g.is_active, g.created_at,
		       u.id, u.username, u.nickname, u.avatar_key
		FROM games g
		JOIN users u ON u.id = g.master_id
		WHERE g.id = $1`, id).Scan(
		&g.ID, &g.Name, &g.Description, &g.MasterID, &g.MaxPlayers, &g.IsActive, &g.CreatedAt,
		&g.Master.ID, &g.Master.Username, &g.Master.Nickname, &g.Master.AvatarKey,
	)
	if err != nil {
		return nil, err
	}

	players, err := q.listGamePlayers(ctx, id)
	if err != nil {
		return nil, err
	}
	g.Players = players

	return &g, nil
}

// ListGames returns a page of games with details, newest first.
func (q *Queries) ListGames(ctx context.Context, limit, offset int) ([]GameDetails, error) {
	return q.listGamesWhere(ctx, `WHERE g.is_active`, nil, limit, offset)
}

// ListGamesByMaster returns a page of games run by the given master.
func (q *Queries) ListGamesByMaster(ctx context.Context, masterID int64, limit, offset int) ([]GameDetails, error) {
	return q.listGamesWhere(ctx, `WHERE g.master_id = $3`, []any{masterID}, limit, offset)
}

// ListGamesJoined returns a page of games the given user participates in as a player.
func (q *Queries) ListGamesJoined(ctx context.Context, userID int64, limit, offset int) ([]GameDetails, error) {
	return q.listGamesWhere(ctx,
		`JOIN game_players gp ON gp.game_id = g.id WHERE gp.user_id = $3`, []any{userID}, limit, offset)
}

func (q *Queries) listGamesWhere(ctx context.Context, clause string, extra []any, limit, offset int) ([]GameDetails, error) {
	args := append([]any{limit, offset}, extra...)

	rows, err := q.pool.Query(ctx, `
		SELECT g.id, g.name, g.description, g.master_id, g.max_players, g.is_active, g.created_at,
		       u.id, u.username, u.nickname, u.avatar_key
		FROM games g
		JOIN users u ON u.id = g.master_id
		`+clause+`
		ORDER BY g.created_at DESC
		LIMIT $1 OFFSET $2`, args...)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var out []GameDetails
	for rows.Next() {
		var g GameDetails
		if err := rows.Scan(
			&g.ID, &g.Name, &g.Description, &g.MasterID, &g.MaxPlayers, &g.IsActive, &g.CreatedAt,
			&g.Master.ID, &g.Master.Username, &g.Master.Nickname, &g.Master.AvatarKey,
		); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		players, err := q.listGamePlayers(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Players = players
	}

	return out, nil
}

func (q *Queries) listGamePlayers(ctx context.Context, gameID int64) ([]UserRef, error) {
	rows, err := q.pool.Query(ctx, `
		SELECT u.id, u.username, u.nickname, u.avatar_key
		FROM game_players gp
		JOIN users u ON u.id = gp.user_id
		WHERE gp.game_id = $1
		ORDER BY u.id`, gameID)
	if err != nil {
		return nil, fmt.Errorf("list game players: %w", err)
	}
	defer rows.Close()

	players := make([]UserRef, 0, 8)
	for rows.Next() {
		var p UserRef
		if err := rows.Scan(&p.ID, &p.Username, &p.Nickname, &p.AvatarKey); err != nil {
			return nil, fmt.Errorf("scan game player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// AddPlayerToGame enrolls the user as a player. Adding an existing player is a no-op.
func (q *Queries) AddPlayerToGame(ctx context.Context, gameID, userID int64) error {
	_, err := q.pool.Exec(ctx, `
		INSERT INTO game_players (user_id, game_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, userID, gameID)
	if err != nil {
		return fmt.Errorf("add player: %w", err)
	}
	return nil
}

// RemovePlayerFromGame drops the user's player membership.
func (q *Queries) RemovePlayerFromGame(ctx context.Context, gameID, userID int64) error {
	_, err := q.pool.Exec(ctx,
		`DELETE FROM game_players WHERE user_id = $1 AND game_id = $2`, userID, gameID)
	if err != nil {
		return fmt.Errorf("remove player: %w", err)
	}
	return nil
}

// IsGamePlayer reports whether the user is enrolled as a player of the game.
func (q *Queries) IsGamePlayer(ctx context.Context, gameID, userID int64) (bool, error) {
	var exists bool
	err := q.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM game_players WHERE user_id = $1 AND game_id = $2)`,
		userID, gameID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check game player: %w", err)
	}
	return exists, nil
}

// IsGameParticipant reports whether the user is the master or a player of the game.
func (q *Queries) IsGameParticipant(ctx context.Context, gameID, userID int64) (bool, error) {
	var exists bool
	err := q.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM games WHERE id = $2 AND master_id = $1
			UNION
			SELECT 1 FROM game_players WHERE user_id = $1 AND game_id = $2
		)`, userID, gameID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check game participant: %w", err)
	}
	return exists, nil
}
