package dto

// RegisterUserRequest is the request body for account registration.
type RegisterUserRequest struct {
	Account string `json:"account" binding:"required,stellar_addr"`
}

// RegisterUserResponse is the response body for successful registration.
// The secret is shown exactly once.
type RegisterUserResponse struct {
	Account string `json:"account"`
	Secret  string `json:"secret"`
}

// AddAdminRequest is the request body for admin promotion.
type AddAdminRequest struct {
	Admin string `json:"admin" binding:"required,stellar_addr"`
}

// SessionResponse is the response body for session issuance.
type SessionResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// TransferRequest is the request body for a transfer.
type TransferRequest struct {
	From      string `json:"from" binding:"required,stellar_addr"`
	To        string `json:"to" binding:"required,stellar_addr"`
	AssetType string `json:"asset_type" binding:"required,asset_type"`
	Amount    int64  `json:"amount" binding:"required"`
	Date      string `json:"date" binding:"required,max=64"`
	TxID      string `json:"tx_id" binding:"omitempty,safe_id,max=100"`
}

// WithdrawRequest is the request body for a withdrawal.
type WithdrawRequest struct {
	User      string `json:"user" binding:"required,stellar_addr"`
	AssetType string `json:"asset_type" binding:"required,asset_type"`
	Amount    int64  `json:"amount" binding:"required"`
	Date      string `json:"date" binding:"required,max=64"`
	TxID      string `json:"tx_id" binding:"omitempty,safe_id,max=100"`
}

// ApproveRequest is the request body for an admin-directed deposit.
type ApproveRequest struct {
	Admin     string `json:"admin" binding:"required,stellar_addr"`
	User      string `json:"user" binding:"required,stellar_addr"`
	AssetType string `json:"asset_type" binding:"required,asset_type"`
	Amount    int64  `json:"amount" binding:"required,gt=0"`
	Date      string `json:"date" binding:"required,max=64"`
	TxID      string `json:"tx_id" binding:"omitempty,safe_id,max=100"`
}

// FundLiquidityRequest is the request body for treasury funding.
type FundLiquidityRequest struct {
	AssetType string `json:"asset_type" binding:"required,asset_type"`
	Amount    int64  `json:"amount" binding:"required,gt=0"`
}

// BalanceResponse is the response for a balance query or mutation result.
type BalanceResponse struct {
	Account   string `json:"account"`
	AssetType string `json:"asset_type"`
	Amount    int64  `json:"amount"`
}

// TransactionResponse is the response body for one ledger record.
type TransactionResponse struct {
	TxID            string `json:"tx_id"`
	From            string `json:"from"`
	To              string `json:"to"`
	AssetType       string `json:"asset_type"`
	Amount          int64  `json:"amount"`
	Date            string `json:"date"`
	TransactionType string `json:"transaction_type"`
	CreatedAt       string `json:"created_at"`
}

// TransactionListResponse wraps a full account history.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Total int                   `json:"total"`
}

// AdminListResponse is the response for the admin set query.
type AdminListResponse struct {
	Admins []string `json:"admins"`
}

// MembershipResponse is the response for is_admin / is_user queries.
type MembershipResponse struct {
	Account string `json:"account"`
	Member  bool   `json:"member"`
}
