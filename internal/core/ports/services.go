package ports

import (
	"context"
	"time"

	"gyro-ledger/internal/core/domain"
)

// EncryptionService handles AES-256-GCM encryption/decryption of account
// secrets at rest.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// SignatureService handles HMAC-SHA256 signing and verification of
// ledger requests; the host-side stand-in for on-chain caller auth.
type SignatureService interface {
	Sign(secret string, payload string) string
	Verify(secret string, payload string, signature string) bool
	BuildCanonicalString(method, path string, timestamp int64, nonce string, body string) string
}

// TokenService handles session token (JWT) operations for read endpoints.
type TokenService interface {
	Generate(account domain.Address) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed session claims.
type TokenClaims struct {
	Account domain.Address
}

// DedupCache is the Redis fast path for tx_id uniqueness checks. The
// database unique constraint stays authoritative; the cache only short-cuts
// obvious duplicates before a transaction is opened.
type DedupCache interface {
	Seen(ctx context.Context, account domain.Address, txID string) (bool, error)
	Mark(ctx context.Context, account domain.Address, txID string, ttl time.Duration) error
}

// NonceStore manages nonce uniqueness for replay attack prevention.
type NonceStore interface {
	// CheckAndSet atomically checks if nonce exists, sets it if not.
	// Returns true if nonce is new (valid), false if already used.
	CheckAndSet(ctx context.Context, account string, nonce string, ttl time.Duration) (bool, error)
}

// --- Service Ports (Business Logic) ---

// RegistryService gates who may call ledger operations and who may
// administer other accounts.
type RegistryService interface {
	// RegisterUser marks an account as a known user and issues its API
	// secret, returned exactly once.
	RegisterUser(ctx context.Context, user domain.Address) (*RegisterUserResult, error)
	// AddAdmin is owner-only and appends a registered user to the admin set.
	AddAdmin(ctx context.Context, caller, admin domain.Address) error
	GetAdmins(ctx context.Context) ([]domain.Address, error)
	IsAdmin(ctx context.Context, user domain.Address) (bool, error)
	IsUser(ctx context.Context, user domain.Address) (bool, error)
}

// RegisterUserResult holds the registration output shown once.
type RegisterUserResult struct {
	Account domain.Address
	Secret  string // plaintext, never retrievable again
}

// LedgerService defines the balance-and-transaction ledger operations.
// Mutating calls are atomic: every precondition is validated before any
// write, and a failed call leaves balances and the log untouched.
type LedgerService interface {
	RegisterBalance(ctx context.Context, user domain.Address) error
	Transfer(ctx context.Context, req TransferRequest) error
	Withdraw(ctx context.Context, req WithdrawRequest) error
	// AdminApprove credits a user from the treasury liquidity fund and
	// returns the user's resulting balance.
	AdminApprove(ctx context.Context, req ApproveRequest) (int64, error)
	// FundLiquidity is owner-only and mints into the treasury balance,
	// returning the resulting treasury balance.
	FundLiquidity(ctx context.Context, caller domain.Address, asset domain.AssetType, amount int64) (int64, error)
	Pause(ctx context.Context, caller domain.Address) error
	Resume(ctx context.Context, caller domain.Address) error

	GetUserBalance(ctx context.Context, user domain.Address, asset domain.AssetType) (int64, error)
	GetTransaction(ctx context.Context, user domain.Address, txID string) (*domain.Transaction, error)
	GetTransactions(ctx context.Context, user domain.Address) ([]domain.Transaction, error)
}

// TransferRequest holds validated input for a transfer.
type TransferRequest struct {
	From      domain.Address
	To        domain.Address
	AssetType domain.AssetType
	Amount    int64
	Date      string
	TxID      string
}

// WithdrawRequest holds validated input for a withdrawal.
type WithdrawRequest struct {
	User      domain.Address
	AssetType domain.AssetType
	Amount    int64
	Date      string
	TxID      string
}

// ApproveRequest holds validated input for an admin-directed deposit.
type ApproveRequest struct {
	Admin     domain.Address
	User      domain.Address
	AssetType domain.AssetType
	Amount    int64
	Date      string
	TxID      string
}

// SessionService issues read-session tokens for authenticated accounts.
type SessionService interface {
	Issue(ctx context.Context, account domain.Address) (string, time.Time, error)
}

// AuditService records audit log entries.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}
