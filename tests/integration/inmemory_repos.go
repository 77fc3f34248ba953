package integration

import (
	"context"
	"sync"
	"time"

	"gyro-ledger/internal/core/domain"
	"gyro-ledger/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// The in-memory repos mirror the PostgreSQL adapter's semantics closely
// enough for end-to-end tests: the transactor serializes transaction
// blocks with a single mutex (standing in for row locks), and every
// mutation registers an undo so Rollback really reverts state.

// --- In-Memory Registry Repo ---

type inMemoryRegistryRepo struct {
	mu       sync.RWMutex
	accounts map[domain.Address]*domain.Account
	admins   []domain.AdminEntry
}

func newInMemoryRegistryRepo() *inMemoryRegistryRepo {
	return &inMemoryRegistryRepo{accounts: make(map[domain.Address]*domain.Account)}
}

func (r *inMemoryRegistryRepo) CreateAccount(ctx context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.Address]; ok {
		return apperror.ErrAlreadyRegistered()
	}
	cp := *account
	r.accounts[account.Address] = &cp
	return nil
}

func (r *inMemoryRegistryRepo) Get(ctx context.Context, address domain.Address) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[address]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *inMemoryRegistryRepo) GetOwner(ctx context.Context) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.accounts {
		if a.Role == domain.RoleOwner {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryRegistryRepo) AddAdmin(ctx context.Context, entry *domain.AdminEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.admins = append(r.admins, *entry)
	return nil
}

func (r *inMemoryRegistryRepo) ListAdmins(ctx context.Context) ([]domain.AdminEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.AdminEntry, len(r.admins))
	copy(out, r.admins)
	return out, nil
}

func (r *inMemoryRegistryRepo) IsAdmin(ctx context.Context, address domain.Address) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.admins {
		if e.Address == address {
			return true, nil
		}
	}
	return false, nil
}

// --- In-Memory Balance Repo ---

type balanceKey struct {
	account domain.Address
	asset   domain.AssetType
}

type inMemoryBalanceRepo struct {
	mu       sync.RWMutex
	balances map[balanceKey]*domain.Balance
}

func newInMemoryBalanceRepo() *inMemoryBalanceRepo {
	return &inMemoryBalanceRepo{balances: make(map[balanceKey]*domain.Balance)}
}

func (r *inMemoryBalanceRepo) RegisterZero(ctx context.Context, tx pgx.Tx, account domain.Address, asset domain.AssetType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := balanceKey{account, asset}
	if _, ok := r.balances[key]; ok {
		return nil
	}
	now := time.Now().UTC()
	r.balances[key] = &domain.Balance{
		Account:   account,
		AssetType: asset,
		Amount:    0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if mt, ok := tx.(*memTx); ok {
		mt.onUndo(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			delete(r.balances, key)
		})
	}
	return nil
}

func (r *inMemoryBalanceRepo) Get(ctx context.Context, account domain.Address, asset domain.AssetType) (*domain.Balance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.balances[balanceKey{account, asset}]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *inMemoryBalanceRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, account domain.Address, asset domain.AssetType) (*domain.Balance, error) {
	return r.Get(ctx, account, asset)
}

func (r *inMemoryBalanceRepo) UpdateAmount(ctx context.Context, tx pgx.Tx, account domain.Address, asset domain.AssetType, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := balanceKey{account, asset}
	b, ok := r.balances[key]
	if !ok {
		return pgx.ErrNoRows
	}
	prev := b.Amount
	b.Amount = amount
	b.UpdatedAt = time.Now().UTC()
	if mt, ok := tx.(*memTx); ok {
		mt.onUndo(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			if cur, ok := r.balances[key]; ok {
				cur.Amount = prev
			}
		})
	}
	return nil
}

// --- In-Memory Transaction Repo ---

type txKey struct {
	account domain.Address
	txID    string
}

type inMemoryTransactionRepo struct {
	mu      sync.RWMutex
	byKey   map[txKey]struct{}
	history map[domain.Address][]domain.Transaction
}

func newInMemoryTransactionRepo() *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{
		byKey:   make(map[txKey]struct{}),
		history: make(map[domain.Address][]domain.Transaction),
	}
}

func (r *inMemoryTransactionRepo) Append(ctx context.Context, tx pgx.Tx, accounts []domain.Address, t *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range accounts {
		if _, ok := r.byKey[txKey{account, t.TxID}]; ok {
			return apperror.ErrDuplicateTx()
		}
	}
	written := make([]txKey, 0, len(accounts))
	for _, account := range accounts {
		key := txKey{account, t.TxID}
		r.byKey[key] = struct{}{}
		r.history[account] = append(r.history[account], *t)
		written = append(written, key)
	}
	if mt, ok := tx.(*memTx); ok {
		mt.onUndo(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			for _, key := range written {
				delete(r.byKey, key)
				h := r.history[key.account]
				r.history[key.account] = h[:len(h)-1]
			}
		})
	}
	return nil
}

func (r *inMemoryTransactionRepo) Exists(ctx context.Context, account domain.Address, txID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byKey[txKey{account, txID}]
	return ok, nil
}

func (r *inMemoryTransactionRepo) GetByTxID(ctx context.Context, account domain.Address, txID string) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.history[account] {
		if t.TxID == txID {
			cp := t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryTransactionRepo) ListByAccount(ctx context.Context, account domain.Address) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h := r.history[account]
	out := make([]domain.Transaction, len(h))
	copy(out, h)
	return out, nil
}

// --- In-Memory State Repo ---

type inMemoryStateRepo struct {
	mu     sync.RWMutex
	paused bool
}

func newInMemoryStateRepo() *inMemoryStateRepo {
	return &inMemoryStateRepo{}
}

func (r *inMemoryStateRepo) GetPaused(ctx context.Context) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.paused, nil
}

func (r *inMemoryStateRepo) SetPaused(ctx context.Context, paused bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused = paused
	return nil
}

// --- In-Memory Transactor ---

// inMemoryTransactor serializes transaction blocks with one mutex, the
// in-memory stand-in for row-level locks. Begin blocks until the previous
// block commits or rolls back.
type inMemoryTransactor struct {
	mu sync.Mutex
}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	return &memTx{release: t.mu.Unlock}, nil
}

// memTx implements the subset of pgx.Tx the repos use. Mutations register
// undo functions; Rollback replays them in reverse.
type memTx struct {
	pgx.Tx

	undo    []func()
	release func()
	done    bool
}

func (t *memTx) onUndo(fn func()) {
	t.undo = append(t.undo, fn)
}

func (t *memTx) Commit(ctx context.Context) error {
	t.finish(false)
	return nil
}

func (t *memTx) Rollback(ctx context.Context) error {
	t.finish(true)
	return nil
}

func (t *memTx) finish(rollback bool) {
	if t.done {
		return
	}
	t.done = true
	if rollback {
		for i := len(t.undo) - 1; i >= 0; i-- {
			t.undo[i]()
		}
	}
	t.undo = nil
	t.release()
}

func (t *memTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
