package domain

import "time"

// TransactionType tags the kind of ledger movement.
// Withdrawals are recorded as transfers to the treasury sink address,
// so the set stays closed at two members.
type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "DEPOSIT"
	TransactionTypeTransfer TransactionType = "TRANSFER"
)

// Transaction is one immutable ledger entry. TxID is caller-supplied and
// must be unique per affected account; a transfer appears in both parties'
// histories with identical fields. Records are never updated or deleted.
type Transaction struct {
	TxID            string          `json:"tx_id"`
	From            Address         `json:"from"`
	To              Address         `json:"to"`
	AssetType       AssetType       `json:"asset_type"`
	Amount          int64           `json:"amount"` // smallest unit, never fractional
	Date            string          `json:"date"`   // caller-supplied display date
	TransactionType TransactionType `json:"transaction_type"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Balance is one (account, asset) bucket. Amount is non-negative by
// invariant; every mutation goes through the ledger operations.
type Balance struct {
	Account   Address   `json:"account"`
	AssetType AssetType `json:"asset_type"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
