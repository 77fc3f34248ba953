package handler

import (
	"gyro-ledger/internal/adapter/http/dto"
	"gyro-ledger/internal/adapter/http/middleware"
	"gyro-ledger/internal/core/domain"
	"gyro-ledger/internal/core/ports"
	"gyro-ledger/pkg/apperror"
	"gyro-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// LedgerHandler handles balance and transaction endpoints.
type LedgerHandler struct {
	ledgerSvc   ports.LedgerService
	registrySvc ports.RegistryService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerSvc ports.LedgerService, registrySvc ports.RegistryService) *LedgerHandler {
	return &LedgerHandler{ledgerSvc: ledgerSvc, registrySvc: registrySvc}
}

// readTarget resolves which account a read serves. Admins may pass
// ?account= to inspect any account; everyone else reads their own.
func (h *LedgerHandler) readTarget(c *gin.Context, caller domain.Address) (domain.Address, error) {
	raw := c.Query("account")
	if raw == "" {
		return caller, nil
	}
	target := domain.Address(raw)
	if !target.Valid() {
		return "", apperror.Validation("invalid account address")
	}
	if target == caller {
		return target, nil
	}
	isAdmin, err := h.registrySvc.IsAdmin(c.Request.Context(), caller)
	if err != nil {
		return "", err
	}
	if !isAdmin {
		return "", apperror.ErrNotAuthorized()
	}
	return target, nil
}

// RegisterBalance handles POST /api/v1/ledger/balances.
// The authenticated account registers its own balance entries.
func (h *LedgerHandler) RegisterBalance(c *gin.Context) {
	account, ok := middleware.AuthedAccount(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidAccount())
		return
	}

	if err := h.ledgerSvc.RegisterBalance(c.Request.Context(), account); err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"account": string(account)})
}

// Transfer handles POST /api/v1/ledger/transfer.
// The from account must be the authenticated caller.
func (h *LedgerHandler) Transfer(c *gin.Context) {
	account, ok := middleware.AuthedAccount(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidAccount())
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	if domain.Address(req.From) != account {
		response.Error(c, apperror.ErrActingAccountMismatch())
		return
	}

	err := h.ledgerSvc.Transfer(c.Request.Context(), ports.TransferRequest{
		From:      domain.Address(req.From),
		To:        domain.Address(req.To),
		AssetType: domain.AssetType(req.AssetType),
		Amount:    req.Amount,
		Date:      req.Date,
		TxID:      req.TxID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"tx_id": req.TxID})
}

// Withdraw handles POST /api/v1/ledger/withdraw.
// The withdrawing user must be the authenticated caller.
func (h *LedgerHandler) Withdraw(c *gin.Context) {
	account, ok := middleware.AuthedAccount(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidAccount())
		return
	}

	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	if domain.Address(req.User) != account {
		response.Error(c, apperror.ErrActingAccountMismatch())
		return
	}

	err := h.ledgerSvc.Withdraw(c.Request.Context(), ports.WithdrawRequest{
		User:      domain.Address(req.User),
		AssetType: domain.AssetType(req.AssetType),
		Amount:    req.Amount,
		Date:      req.Date,
		TxID:      req.TxID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"tx_id": req.TxID})
}

// GetBalance handles GET /api/v1/ledger/balances/:asset.
// Accounts read their own balance; admins may target any account.
func (h *LedgerHandler) GetBalance(c *gin.Context) {
	caller, ok := middleware.AuthedAccount(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	account, err := h.readTarget(c, caller)
	if err != nil {
		response.Error(c, err)
		return
	}

	asset := domain.AssetType(c.Param("asset"))
	if !asset.Valid() {
		response.Error(c, apperror.Validation("unknown asset type"))
		return
	}

	amount, err := h.ledgerSvc.GetUserBalance(c.Request.Context(), account, asset)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BalanceResponse{
		Account:   string(account),
		AssetType: string(asset),
		Amount:    amount,
	})
}

// GetTransaction handles GET /api/v1/ledger/transactions/:tx_id.
func (h *LedgerHandler) GetTransaction(c *gin.Context) {
	caller, ok := middleware.AuthedAccount(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	account, err := h.readTarget(c, caller)
	if err != nil {
		response.Error(c, err)
		return
	}

	txn, err := h.ledgerSvc.GetTransaction(c.Request.Context(), account, c.Param("tx_id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toTransactionResponse(txn))
}

// ListTransactions handles GET /api/v1/ledger/transactions.
func (h *LedgerHandler) ListTransactions(c *gin.Context) {
	caller, ok := middleware.AuthedAccount(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	account, err := h.readTarget(c, caller)
	if err != nil {
		response.Error(c, err)
		return
	}

	txns, err := h.ledgerSvc.GetTransactions(c.Request.Context(), account)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		items = append(items, toTransactionResponse(&txns[i]))
	}
	response.OK(c, dto.TransactionListResponse{Items: items, Total: len(items)})
}

// toTransactionResponse converts domain.Transaction to DTO.
func toTransactionResponse(txn *domain.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		TxID:            txn.TxID,
		From:            string(txn.From),
		To:              string(txn.To),
		AssetType:       string(txn.AssetType),
		Amount:          txn.Amount,
		Date:            txn.Date,
		TransactionType: string(txn.TransactionType),
		CreatedAt:       txn.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
