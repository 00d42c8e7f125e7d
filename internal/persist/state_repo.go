package persist

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// StateRepo persists plugin state: players hidden from the live view and
// per-map pause flags.
type StateRepo struct {
	db *DB
}

func NewStateRepo(db *DB) *StateRepo {
	return &StateRepo{db: db}
}

// HiddenPlayers loads the full hidden-player set.
func (r *StateRepo) HiddenPlayers(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT player_id FROM hidden_players`)
	if err != nil {
		return nil, fmt.Errorf("query hidden players: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan hidden player: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SetPlayerHidden inserts or removes a hidden-player row.
func (r *StateRepo) SetPlayerHidden(ctx context.Context, id uuid.UUID, hidden bool) error {
	if hidden {
		_, err := r.db.Pool.Exec(ctx,
			`INSERT INTO hidden_players (player_id) VALUES ($1) ON CONFLICT DO NOTHING`, id)
		if err != nil {
			return fmt.Errorf("hide player: %w", err)
		}
		return nil
	}
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM hidden_players WHERE player_id = $1`, id)
	if err != nil {
		return fmt.Errorf("show player: %w", err)
	}
	return nil
}

// MapFlags loads all per-map pause flags.
func (r *StateRepo) MapFlags(ctx context.Context) (map[string]bool, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT map_id, paused FROM map_flags`)
	if err != nil {
		return nil, fmt.Errorf("query map flags: %w", err)
	}
	defer rows.Close()

	flags := make(map[string]bool)
	for rows.Next() {
		var mapID string
		var paused bool
		if err := rows.Scan(&mapID, &paused); err != nil {
			return nil, fmt.Errorf("scan map flag: %w", err)
		}
		flags[mapID] = paused
	}
	return flags, rows.Err()
}

// SetMapPaused upserts a map's pause flag.
func (r *StateRepo) SetMapPaused(ctx context.Context, mapID string, paused bool) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO map_flags (map_id, paused) VALUES ($1, $2)
		 ON CONFLICT (map_id) DO UPDATE SET paused = EXCLUDED.paused`,
		mapID, paused)
	if err != nil {
		return fmt.Errorf("set map paused: %w", err)
	}
	return nil
}
