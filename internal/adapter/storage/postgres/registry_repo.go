package postgres

import (
	"context"
	"errors"
	"fmt"

	"gyro-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// RegistryRepo implements ports.RegistryRepository.
type RegistryRepo struct {
	pool Pool
}

// NewRegistryRepo creates a new RegistryRepo.
func NewRegistryRepo(pool Pool) *RegistryRepo {
	return &RegistryRepo{pool: pool}
}

// CreateAccount inserts a new account row.
func (r *RegistryRepo) CreateAccount(ctx context.Context, a *domain.Account) error {
	query := `INSERT INTO accounts (address, role, secret_enc, registered_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.pool.Exec(ctx, query, a.Address, a.Role, a.SecretEnc, a.RegisteredAt)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// Get fetches an account by address. Returns nil, nil when absent.
func (r *RegistryRepo) Get(ctx context.Context, address domain.Address) (*domain.Account, error) {
	query := `SELECT address, role, secret_enc, registered_at FROM accounts WHERE address = $1`

	a := &domain.Account{}
	err := r.pool.QueryRow(ctx, query, address).Scan(&a.Address, &a.Role, &a.SecretEnc, &a.RegisteredAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

// GetOwner fetches the owner account. Returns nil, nil when no owner row
// exists (the ledger is not bootstrapped yet).
func (r *RegistryRepo) GetOwner(ctx context.Context) (*domain.Account, error) {
	query := `SELECT address, role, secret_enc, registered_at FROM accounts WHERE role = $1`

	a := &domain.Account{}
	err := r.pool.QueryRow(ctx, query, domain.RoleOwner).Scan(&a.Address, &a.Role, &a.SecretEnc, &a.RegisteredAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get owner: %w", err)
	}
	return a, nil
}

// AddAdmin appends an account to the ordered admin set.
func (r *RegistryRepo) AddAdmin(ctx context.Context, entry *domain.AdminEntry) error {
	query := `INSERT INTO admins (address, added_at) VALUES ($1, $2)`

	_, err := r.pool.Exec(ctx, query, entry.Address, entry.AddedAt)
	if err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}

// ListAdmins returns the admin set in insertion order.
func (r *RegistryRepo) ListAdmins(ctx context.Context) ([]domain.AdminEntry, error) {
	query := `SELECT address, added_at FROM admins ORDER BY position ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	defer rows.Close()

	var admins []domain.AdminEntry
	for rows.Next() {
		var e domain.AdminEntry
		if err := rows.Scan(&e.Address, &e.AddedAt); err != nil {
			return nil, fmt.Errorf("scan admin row: %w", err)
		}
		admins = append(admins, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate admin rows: %w", err)
	}
	return admins, nil
}

// IsAdmin reports admin set membership.
func (r *RegistryRepo) IsAdmin(ctx context.Context, address domain.Address) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM admins WHERE address = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, address).Scan(&exists); err != nil {
		return false, fmt.Errorf("check admin: %w", err)
	}
	return exists, nil
}
