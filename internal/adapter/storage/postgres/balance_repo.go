package postgres

import (
	"context"
	"errors"
	"fmt"

	"gyro-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// BalanceRepo implements ports.BalanceRepository.
type BalanceRepo struct {
	pool Pool
}

// NewBalanceRepo creates a new BalanceRepo.
func NewBalanceRepo(pool Pool) *BalanceRepo {
	return &BalanceRepo{pool: pool}
}

// RegisterZero creates a zero balance entry if none exists. ON CONFLICT DO
// NOTHING keeps re-registration from resetting a non-zero balance.
func (r *BalanceRepo) RegisterZero(ctx context.Context, tx pgx.Tx, account domain.Address, asset domain.AssetType) error {
	query := `INSERT INTO balances (account, asset_type, amount, created_at, updated_at)
		VALUES ($1, $2, 0, NOW(), NOW())
		ON CONFLICT (account, asset_type) DO NOTHING`

	if _, err := tx.Exec(ctx, query, account, asset); err != nil {
		return fmt.Errorf("register balance: %w", err)
	}
	return nil
}

// Get fetches a balance entry without locking. Returns nil, nil when the
// (account, asset) pair was never registered.
func (r *BalanceRepo) Get(ctx context.Context, account domain.Address, asset domain.AssetType) (*domain.Balance, error) {
	query := `SELECT account, asset_type, amount, created_at, updated_at
		FROM balances WHERE account = $1 AND asset_type = $2`

	b := &domain.Balance{}
	err := r.pool.QueryRow(ctx, query, account, asset).Scan(
		&b.Account, &b.AssetType, &b.Amount, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return b, nil
}

// GetForUpdate fetches a balance entry with a row lock.
// This MUST be called within a transaction.
func (r *BalanceRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, account domain.Address, asset domain.AssetType) (*domain.Balance, error) {
	query := `SELECT account, asset_type, amount, created_at, updated_at
		FROM balances WHERE account = $1 AND asset_type = $2 FOR UPDATE`

	b := &domain.Balance{}
	err := tx.QueryRow(ctx, query, account, asset).Scan(
		&b.Account, &b.AssetType, &b.Amount, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get balance for update: %w", err)
	}
	return b, nil
}

// UpdateAmount sets a balance within a database transaction.
func (r *BalanceRepo) UpdateAmount(ctx context.Context, tx pgx.Tx, account domain.Address, asset domain.AssetType, amount int64) error {
	query := `UPDATE balances SET amount = $1, updated_at = NOW() WHERE account = $2 AND asset_type = $3`

	tag, err := tx.Exec(ctx, query, amount, account, asset)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("balance not found: %s/%s", account, asset)
	}
	return nil
}
