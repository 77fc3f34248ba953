package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Transactor hands ledger operations a database transaction spanning the
// balance mutation, the transaction log append and the liquidity check.
// Either all of them commit or none do; partial ledger writes never land.
type Transactor struct {
	pool Pool
}

func NewTransactor(pool Pool) *Transactor {
	return &Transactor{pool: pool}
}

// Begin opens the transaction a ledger operation runs in. Read committed
// suffices: balance rows are guarded by SELECT FOR UPDATE and dedup by the
// unique (account, tx_id) constraint, not by isolation level.
func (t *Transactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return t.pool.Begin(ctx)
}
