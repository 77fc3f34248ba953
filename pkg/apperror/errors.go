package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
// Code carries a family prefix plus the contract's numeric tag
// (LGR_001..LGR_007 for ledger errors, REG_001..REG_005 for registry errors)
// so RPC clients can recover the original error discriminant.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Ledger errors (LGR, tags 1-7) ----

func ErrDuplicateTx() *AppError {
	return New("LGR_001", "Transaction id already recorded", http.StatusConflict)
}

func ErrInsufficientBalance() *AppError {
	return New("LGR_002", "Insufficient balance", http.StatusPaymentRequired)
}

func ErrBalanceDoesNotExist() *AppError {
	return New("LGR_003", "Balance is not registered for this account and asset", http.StatusNotFound)
}

func ErrContractPaused() *AppError {
	return New("LGR_004", "Ledger is paused", http.StatusServiceUnavailable)
}

func ErrInsufficientLiquidityFund() *AppError {
	return New("LGR_005", "Treasury liquidity fund is insufficient", http.StatusPaymentRequired)
}

func ErrTransactionNotFound() *AppError {
	return New("LGR_006", "Transaction not found", http.StatusNotFound)
}

func ErrTransactionIsEmpty() *AppError {
	return New("LGR_007", "Transaction id must not be empty", http.StatusBadRequest)
}

// ---- Registry errors (REG, tags 1-5) ----

func ErrNotAuthorized() *AppError {
	return New("REG_001", "Caller lacks the required role", http.StatusForbidden)
}

func ErrAlreadyRegistered() *AppError {
	return New("REG_002", "Account is already registered", http.StatusConflict)
}

func ErrNotRegistered() *AppError {
	return New("REG_003", "Account is not registered", http.StatusForbidden)
}

func ErrOwnerNotSet() *AppError {
	return New("REG_004", "Ledger owner is not configured", http.StatusInternalServerError)
}

func ErrAlreadyAdmin() *AppError {
	return New("REG_005", "Account is already an admin", http.StatusConflict)
}

// ---- Security & request authentication (SEC) ----

func ErrInvalidAccount() *AppError {
	return New("SEC_001", "Unknown or invalid account", http.StatusUnauthorized)
}

func ErrInvalidSignature() *AppError {
	return New("SEC_002", "Invalid request signature", http.StatusUnauthorized)
}

func ErrTimestampExpired() *AppError {
	return New("SEC_003", "Request timestamp expired", http.StatusForbidden)
}

func ErrNonceUsed() *AppError {
	return New("SEC_004", "Nonce has already been used", http.StatusForbidden)
}

func ErrActingAccountMismatch() *AppError {
	return New("SEC_005", "Authenticated account does not match the acting account", http.StatusForbidden)
}

func ErrInvalidToken() *AppError {
	return New("SEC_006", "Invalid or expired session token", http.StatusUnauthorized)
}

// ---- Rate limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & infrastructure (SYS) ----

func ErrEncryptionFailure(err error) *AppError {
	return Wrap("SYS_003", "Encryption service failure", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a request validation error.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}
