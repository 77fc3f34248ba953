package ports

import (
	"context"

	"gyro-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// RegistryRepository defines persistence for the access registry:
// registered accounts, the owner, and the ordered admin set.
type RegistryRepository interface {
	CreateAccount(ctx context.Context, account *domain.Account) error
	Get(ctx context.Context, address domain.Address) (*domain.Account, error)
	GetOwner(ctx context.Context) (*domain.Account, error)
	// AddAdmin appends to the ordered admin set.
	AddAdmin(ctx context.Context, entry *domain.AdminEntry) error
	ListAdmins(ctx context.Context) ([]domain.AdminEntry, error)
	IsAdmin(ctx context.Context, address domain.Address) (bool, error)
}

// BalanceRepository defines persistence for per-(account, asset) balances.
// Methods accepting pgx.Tx run inside transaction blocks with row locking.
type BalanceRepository interface {
	// RegisterZero creates a zero balance entry if none exists. Existing
	// entries, including non-zero ones, are left untouched.
	RegisterZero(ctx context.Context, tx pgx.Tx, account domain.Address, asset domain.AssetType) error
	Get(ctx context.Context, account domain.Address, asset domain.AssetType) (*domain.Balance, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, account domain.Address, asset domain.AssetType) (*domain.Balance, error)
	UpdateAmount(ctx context.Context, tx pgx.Tx, account domain.Address, asset domain.AssetType, amount int64) error
}

// TransactionRepository defines the append-only per-account transaction log.
// A record is stored once per affected account so both transfer parties see
// it; (account, tx_id) is unique and doubles as the deduplication guard.
type TransactionRepository interface {
	// Append writes the record into each listed account's history within a
	// database transaction.
	Append(ctx context.Context, tx pgx.Tx, accounts []domain.Address, t *domain.Transaction) error
	Exists(ctx context.Context, account domain.Address, txID string) (bool, error)
	GetByTxID(ctx context.Context, account domain.Address, txID string) (*domain.Transaction, error)
	// ListByAccount returns the full history in append order.
	ListByAccount(ctx context.Context, account domain.Address) ([]domain.Transaction, error)
}

// StateRepository defines persistence for ledger-wide operational state.
type StateRepository interface {
	GetPaused(ctx context.Context) (bool, error)
	SetPaused(ctx context.Context, paused bool) error
}

// AuditRepository defines persistence for audit log entries.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
