package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gyro-ledger/internal/core/domain"
	"gyro-ledger/internal/core/ports"
	"gyro-ledger/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const dedupTTL = 24 * time.Hour

// LedgerServiceImpl implements ports.LedgerService with pessimistic
// row locking. Every mutating call validates all preconditions inside a
// database transaction before any write, so a failed call leaves
// balances and the transaction log untouched.
type LedgerServiceImpl struct {
	registryRepo ports.RegistryRepository
	balanceRepo  ports.BalanceRepository
	txRepo       ports.TransactionRepository
	stateRepo    ports.StateRepository
	dedupCache   ports.DedupCache
	transactor   ports.DBTransactor
	treasury     domain.Address
	log          zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(
	registryRepo ports.RegistryRepository,
	balanceRepo ports.BalanceRepository,
	txRepo ports.TransactionRepository,
	stateRepo ports.StateRepository,
	dedupCache ports.DedupCache,
	transactor ports.DBTransactor,
	treasury domain.Address,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		registryRepo: registryRepo,
		balanceRepo:  balanceRepo,
		txRepo:       txRepo,
		stateRepo:    stateRepo,
		dedupCache:   dedupCache,
		transactor:   transactor,
		treasury:     treasury,
		log:          log,
	}
}

// RegisterBalance creates zero balance entries for every supported asset.
// Re-registering is a no-op: existing entries keep their amounts.
func (s *LedgerServiceImpl) RegisterBalance(ctx context.Context, user domain.Address) error {
	if err := s.requireUser(ctx, user); err != nil {
		return err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	for _, asset := range domain.AssetTypes() {
		if err := s.balanceRepo.RegisterZero(ctx, dbTx, user, asset); err != nil {
			return apperror.InternalError(fmt.Errorf("register balance %s: %w", asset, err))
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().Str("account", string(user)).Msg("balance registered")
	return nil
}

// Transfer moves amount from one registered balance to another. The
// caller-supplied tx_id must be new for the sender; a duplicate rejects
// the whole call with no balance change.
func (s *LedgerServiceImpl) Transfer(ctx context.Context, req ports.TransferRequest) error {
	if req.TxID == "" {
		return apperror.ErrTransactionIsEmpty()
	}
	if err := s.requireNotPaused(ctx); err != nil {
		return err
	}
	if req.Amount <= 0 {
		return apperror.ErrInsufficientBalance()
	}
	if err := s.checkDuplicate(ctx, req.From, req.TxID); err != nil {
		return err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	fromBal, toBal, err := s.lockBalancePair(ctx, dbTx, req.From, req.To, req.AssetType)
	if err != nil {
		return err
	}

	if fromBal.Amount < req.Amount {
		return apperror.ErrInsufficientBalance()
	}

	// A self-transfer nets to zero; only the log entry is written.
	if req.From != req.To {
		if err := s.balanceRepo.UpdateAmount(ctx, dbTx, req.From, req.AssetType, fromBal.Amount-req.Amount); err != nil {
			return apperror.InternalError(fmt.Errorf("debit sender: %w", err))
		}
		if err := s.balanceRepo.UpdateAmount(ctx, dbTx, req.To, req.AssetType, toBal.Amount+req.Amount); err != nil {
			return apperror.InternalError(fmt.Errorf("credit recipient: %w", err))
		}
	}

	txn := &domain.Transaction{
		TxID:            req.TxID,
		From:            req.From,
		To:              req.To,
		AssetType:       req.AssetType,
		Amount:          req.Amount,
		Date:            req.Date,
		TransactionType: domain.TransactionTypeTransfer,
		CreatedAt:       time.Now().UTC(),
	}

	accounts := []domain.Address{req.From}
	if req.To != req.From {
		accounts = append(accounts, req.To)
	}
	if err := s.txRepo.Append(ctx, dbTx, accounts, txn); err != nil {
		return appendError(err)
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.markDedup(ctx, req.From, req.TxID)

	s.log.Info().
		Str("tx_id", req.TxID).
		Str("from", string(req.From)).
		Str("to", string(req.To)).
		Str("asset", string(req.AssetType)).
		Int64("amount", req.Amount).
		Msg("transfer processed")

	return nil
}

// Withdraw removes amount from a user's balance. The movement is recorded
// as a transfer to the treasury sink address; funds leave the ledger, the
// treasury balance is not credited.
func (s *LedgerServiceImpl) Withdraw(ctx context.Context, req ports.WithdrawRequest) error {
	if req.TxID == "" {
		return apperror.ErrTransactionIsEmpty()
	}
	if err := s.requireNotPaused(ctx); err != nil {
		return err
	}
	if req.Amount <= 0 {
		return apperror.ErrInsufficientBalance()
	}
	if err := s.checkDuplicate(ctx, req.User, req.TxID); err != nil {
		return err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	bal, err := s.balanceRepo.GetForUpdate(ctx, dbTx, req.User, req.AssetType)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock balance: %w", err))
	}
	if bal == nil {
		return apperror.ErrBalanceDoesNotExist()
	}
	if bal.Amount < req.Amount {
		return apperror.ErrInsufficientBalance()
	}

	if err := s.balanceRepo.UpdateAmount(ctx, dbTx, req.User, req.AssetType, bal.Amount-req.Amount); err != nil {
		return apperror.InternalError(fmt.Errorf("debit balance: %w", err))
	}

	txn := &domain.Transaction{
		TxID:            req.TxID,
		From:            req.User,
		To:              s.treasury,
		AssetType:       req.AssetType,
		Amount:          req.Amount,
		Date:            req.Date,
		TransactionType: domain.TransactionTypeTransfer,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.txRepo.Append(ctx, dbTx, []domain.Address{req.User}, txn); err != nil {
		return appendError(err)
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.markDedup(ctx, req.User, req.TxID)

	s.log.Info().
		Str("tx_id", req.TxID).
		Str("account", string(req.User)).
		Str("asset", string(req.AssetType)).
		Int64("amount", req.Amount).
		Msg("withdrawal processed")

	return nil
}

// AdminApprove credits a user's balance out of the treasury liquidity
// fund. Only admins may call it. Returns the user's resulting balance.
func (s *LedgerServiceImpl) AdminApprove(ctx context.Context, req ports.ApproveRequest) (int64, error) {
	if req.TxID == "" {
		return 0, apperror.ErrTransactionIsEmpty()
	}
	if err := s.requireNotPaused(ctx); err != nil {
		return 0, err
	}
	if req.Amount <= 0 {
		return 0, apperror.Validation("amount must be positive")
	}

	isAdmin, err := s.registryRepo.IsAdmin(ctx, req.Admin)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("check admin: %w", err))
	}
	if !isAdmin {
		return 0, apperror.ErrNotAuthorized()
	}

	if err := s.checkDuplicate(ctx, req.User, req.TxID); err != nil {
		return 0, err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// An unfunded treasury reads as a zero balance, not a missing one.
	if err := s.balanceRepo.RegisterZero(ctx, dbTx, s.treasury, req.AssetType); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("register treasury balance: %w", err))
	}

	treasuryBal, userBal, err := s.lockBalancePair(ctx, dbTx, s.treasury, req.User, req.AssetType)
	if err != nil {
		return 0, err
	}

	if treasuryBal.Amount < req.Amount {
		return 0, apperror.ErrInsufficientLiquidityFund()
	}

	if err := s.balanceRepo.UpdateAmount(ctx, dbTx, s.treasury, req.AssetType, treasuryBal.Amount-req.Amount); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("debit treasury: %w", err))
	}
	newUserBalance := userBal.Amount + req.Amount
	if err := s.balanceRepo.UpdateAmount(ctx, dbTx, req.User, req.AssetType, newUserBalance); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("credit user: %w", err))
	}

	txn := &domain.Transaction{
		TxID:            req.TxID,
		From:            req.Admin,
		To:              req.User,
		AssetType:       req.AssetType,
		Amount:          req.Amount,
		Date:            req.Date,
		TransactionType: domain.TransactionTypeDeposit,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.txRepo.Append(ctx, dbTx, []domain.Address{req.User}, txn); err != nil {
		return 0, appendError(err)
	}

	if err := dbTx.Commit(ctx); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.markDedup(ctx, req.User, req.TxID)

	s.log.Info().
		Str("tx_id", req.TxID).
		Str("admin", string(req.Admin)).
		Str("account", string(req.User)).
		Str("asset", string(req.AssetType)).
		Int64("amount", req.Amount).
		Msg("admin approval processed")

	return newUserBalance, nil
}

// FundLiquidity mints amount into the treasury balance. Owner only, and
// allowed while paused so a drained fund can be restocked.
func (s *LedgerServiceImpl) FundLiquidity(ctx context.Context, caller domain.Address, asset domain.AssetType, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, apperror.Validation("amount must be positive")
	}
	if err := s.requireOwner(ctx, caller); err != nil {
		return 0, err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.balanceRepo.RegisterZero(ctx, dbTx, s.treasury, asset); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("register treasury balance: %w", err))
	}

	bal, err := s.balanceRepo.GetForUpdate(ctx, dbTx, s.treasury, asset)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("lock treasury balance: %w", err))
	}
	if bal == nil {
		return 0, apperror.ErrBalanceDoesNotExist()
	}

	newBalance := bal.Amount + amount
	if err := s.balanceRepo.UpdateAmount(ctx, dbTx, s.treasury, asset, newBalance); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("credit treasury: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("asset", string(asset)).
		Int64("amount", amount).
		Int64("balance", newBalance).
		Msg("liquidity fund credited")

	return newBalance, nil
}

// Pause blocks all mutating ledger operations. Owner only. Reads stay
// available.
func (s *LedgerServiceImpl) Pause(ctx context.Context, caller domain.Address) error {
	return s.setPaused(ctx, caller, true)
}

// Resume lifts the pause. Owner only.
func (s *LedgerServiceImpl) Resume(ctx context.Context, caller domain.Address) error {
	return s.setPaused(ctx, caller, false)
}

func (s *LedgerServiceImpl) setPaused(ctx context.Context, caller domain.Address, paused bool) error {
	if err := s.requireOwner(ctx, caller); err != nil {
		return err
	}
	if err := s.stateRepo.SetPaused(ctx, paused); err != nil {
		return apperror.InternalError(fmt.Errorf("set paused: %w", err))
	}
	s.log.Info().Bool("paused", paused).Msg("ledger pause state changed")
	return nil
}

// GetUserBalance returns the amount held in one (account, asset) bucket.
func (s *LedgerServiceImpl) GetUserBalance(ctx context.Context, user domain.Address, asset domain.AssetType) (int64, error) {
	bal, err := s.balanceRepo.Get(ctx, user, asset)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("get balance: %w", err))
	}
	if bal == nil {
		return 0, apperror.ErrBalanceDoesNotExist()
	}
	return bal.Amount, nil
}

// GetTransaction looks up one record in a user's history by tx_id.
func (s *LedgerServiceImpl) GetTransaction(ctx context.Context, user domain.Address, txID string) (*domain.Transaction, error) {
	if txID == "" {
		return nil, apperror.ErrTransactionIsEmpty()
	}
	txn, err := s.txRepo.GetByTxID(ctx, user, txID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get transaction: %w", err))
	}
	if txn == nil {
		return nil, apperror.ErrTransactionNotFound()
	}
	return txn, nil
}

// GetTransactions returns a user's full history in append order. An
// account with no activity gets an empty list, not an error.
func (s *LedgerServiceImpl) GetTransactions(ctx context.Context, user domain.Address) ([]domain.Transaction, error) {
	txns, err := s.txRepo.ListByAccount(ctx, user)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}
	return txns, nil
}

// requireNotPaused rejects mutating calls while the pause flag is set.
func (s *LedgerServiceImpl) requireNotPaused(ctx context.Context) error {
	paused, err := s.stateRepo.GetPaused(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get paused: %w", err))
	}
	if paused {
		return apperror.ErrContractPaused()
	}
	return nil
}

// requireUser checks the account is registered.
func (s *LedgerServiceImpl) requireUser(ctx context.Context, user domain.Address) error {
	acct, err := s.registryRepo.Get(ctx, user)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get account: %w", err))
	}
	if acct == nil {
		return apperror.ErrNotRegistered()
	}
	return nil
}

// requireOwner checks the caller is the configured owner.
func (s *LedgerServiceImpl) requireOwner(ctx context.Context, caller domain.Address) error {
	owner, err := s.registryRepo.GetOwner(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get owner: %w", err))
	}
	if owner == nil {
		return apperror.ErrOwnerNotSet()
	}
	if owner.Address != caller {
		return apperror.ErrNotAuthorized()
	}
	return nil
}

// checkDuplicate enforces tx_id uniqueness for the given account.
// Layer 1 is the Redis cache fast path; layer 2 is the transaction log
// itself. The database unique constraint stays authoritative for races
// that slip past both reads.
// appendError maps a transaction log write failure. A unique constraint
// violation on (account, tx_id) surfaces as a duplicate transaction; the
// constraint is the authoritative dedup guard behind the cache fast path.
func appendError(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.InternalError(fmt.Errorf("append transaction: %w", err))
}

func (s *LedgerServiceImpl) checkDuplicate(ctx context.Context, account domain.Address, txID string) error {
	seen, err := s.dedupCache.Seen(ctx, account, txID)
	if err != nil {
		s.log.Warn().Err(err).Str("tx_id", txID).Msg("redis dedup check failed, falling through to DB")
	}
	if seen {
		return apperror.ErrDuplicateTx()
	}

	exists, err := s.txRepo.Exists(ctx, account, txID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("db dedup check: %w", err))
	}
	if exists {
		return apperror.ErrDuplicateTx()
	}
	return nil
}

// markDedup records a committed tx_id in the cache, best-effort.
func (s *LedgerServiceImpl) markDedup(ctx context.Context, account domain.Address, txID string) {
	if err := s.dedupCache.Mark(ctx, account, txID, dedupTTL); err != nil {
		s.log.Warn().Err(err).Str("tx_id", txID).Msg("failed to cache tx_id")
	}
}

// lockBalancePair locks two balance rows in address order so crossing
// calls cannot deadlock. Returns balances matching the argument order.
// Both must already be registered.
func (s *LedgerServiceImpl) lockBalancePair(ctx context.Context, dbTx pgx.Tx, a, b domain.Address, asset domain.AssetType) (*domain.Balance, *domain.Balance, error) {
	if a == b {
		bal, err := s.balanceRepo.GetForUpdate(ctx, dbTx, a, asset)
		if err != nil {
			return nil, nil, apperror.InternalError(fmt.Errorf("lock balance: %w", err))
		}
		if bal == nil {
			return nil, nil, apperror.ErrBalanceDoesNotExist()
		}
		return bal, bal, nil
	}

	first, second := a, b
	if second < first {
		first, second = second, first
	}

	firstBal, err := s.balanceRepo.GetForUpdate(ctx, dbTx, first, asset)
	if err != nil {
		return nil, nil, apperror.InternalError(fmt.Errorf("lock balance: %w", err))
	}
	secondBal, err := s.balanceRepo.GetForUpdate(ctx, dbTx, second, asset)
	if err != nil {
		return nil, nil, apperror.InternalError(fmt.Errorf("lock balance: %w", err))
	}
	if firstBal == nil || secondBal == nil {
		return nil, nil, apperror.ErrBalanceDoesNotExist()
	}

	if first == a {
		return firstBal, secondBal, nil
	}
	return secondBal, firstBal, nil
}
