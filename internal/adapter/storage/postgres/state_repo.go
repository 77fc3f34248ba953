package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// StateRepo implements ports.StateRepository over a single-row table.
// A missing row reads as unpaused so a fresh database starts live.
type StateRepo struct {
	pool Pool
}

// NewStateRepo creates a new StateRepo.
func NewStateRepo(pool Pool) *StateRepo {
	return &StateRepo{pool: pool}
}

// GetPaused returns the current pause flag.
func (r *StateRepo) GetPaused(ctx context.Context) (bool, error) {
	query := `SELECT paused FROM ledger_state WHERE id = 1`

	var paused bool
	err := r.pool.QueryRow(ctx, query).Scan(&paused)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("get pause flag: %w", err)
	}
	return paused, nil
}

// SetPaused persists the pause flag.
func (r *StateRepo) SetPaused(ctx context.Context, paused bool) error {
	query := `INSERT INTO ledger_state (id, paused, updated_at) VALUES (1, $1, NOW())
		ON CONFLICT (id) DO UPDATE SET paused = $1, updated_at = NOW()`

	if _, err := r.pool.Exec(ctx, query, paused); err != nil {
		return fmt.Errorf("set pause flag: %w", err)
	}
	return nil
}
