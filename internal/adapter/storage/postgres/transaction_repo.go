package postgres

import (
	"context"
	"errors"
	"fmt"

	"gyro-ledger/internal/core/domain"
	"gyro-ledger/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// TransactionRepo implements ports.TransactionRepository. One row is stored
// per (account, tx_id); the table's unique constraint on that pair is the
// authoritative deduplication guard.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Append writes the record into each listed account's history within a
// database transaction. The seq bigserial column fixes append order.
func (r *TransactionRepo) Append(ctx context.Context, tx pgx.Tx, accounts []domain.Address, t *domain.Transaction) error {
	query := `INSERT INTO transactions
		(account, tx_id, from_address, to_address, asset_type, amount, date, transaction_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	for _, account := range accounts {
		_, err := tx.Exec(ctx, query,
			account, t.TxID, t.From, t.To, t.AssetType,
			t.Amount, t.Date, t.TransactionType, t.CreatedAt,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return apperror.ErrDuplicateTx()
			}
			return fmt.Errorf("append transaction for %s: %w", account, err)
		}
	}
	return nil
}

// Exists reports whether the account's history already holds tx_id.
func (r *TransactionRepo) Exists(ctx context.Context, account domain.Address, txID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM transactions WHERE account = $1 AND tx_id = $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, account, txID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check tx_id: %w", err)
	}
	return exists, nil
}

// GetByTxID fetches one transaction from the account's history.
// Returns nil, nil when absent.
func (r *TransactionRepo) GetByTxID(ctx context.Context, account domain.Address, txID string) (*domain.Transaction, error) {
	query := `SELECT tx_id, from_address, to_address, asset_type, amount, date, transaction_type, created_at
		FROM transactions WHERE account = $1 AND tx_id = $2`

	t := &domain.Transaction{}
	err := r.pool.QueryRow(ctx, query, account, txID).Scan(
		&t.TxID, &t.From, &t.To, &t.AssetType, &t.Amount, &t.Date, &t.TransactionType, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// ListByAccount returns the account's full history in append order.
func (r *TransactionRepo) ListByAccount(ctx context.Context, account domain.Address) ([]domain.Transaction, error) {
	query := `SELECT tx_id, from_address, to_address, asset_type, amount, date, transaction_type, created_at
		FROM transactions WHERE account = $1 ORDER BY seq ASC`

	rows, err := r.pool.Query(ctx, query, account)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t := domain.Transaction{}
		err := rows.Scan(&t.TxID, &t.From, &t.To, &t.AssetType, &t.Amount, &t.Date, &t.TransactionType, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, nil
}
