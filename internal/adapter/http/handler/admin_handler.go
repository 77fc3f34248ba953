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

// AdminHandler handles admin and owner operations on the ledger.
type AdminHandler struct {
	ledgerSvc ports.LedgerService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(ledgerSvc ports.LedgerService) *AdminHandler {
	return &AdminHandler{ledgerSvc: ledgerSvc}
}

// Approve handles POST /api/v1/ledger/approve.
// The approving admin must be the authenticated caller.
func (h *AdminHandler) Approve(c *gin.Context) {
	account, ok := middleware.AuthedAccount(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidAccount())
		return
	}

	var req dto.ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	if domain.Address(req.Admin) != account {
		response.Error(c, apperror.ErrActingAccountMismatch())
		return
	}

	newBalance, err := h.ledgerSvc.AdminApprove(c.Request.Context(), ports.ApproveRequest{
		Admin:     domain.Address(req.Admin),
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

	response.Created(c, dto.BalanceResponse{
		Account:   req.User,
		AssetType: req.AssetType,
		Amount:    newBalance,
	})
}

// FundLiquidity handles POST /api/v1/admin/liquidity.
func (h *AdminHandler) FundLiquidity(c *gin.Context) {
	account, ok := middleware.AuthedAccount(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidAccount())
		return
	}

	var req dto.FundLiquidityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	newBalance, err := h.ledgerSvc.FundLiquidity(c.Request.Context(), account, domain.AssetType(req.AssetType), req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.BalanceResponse{
		AssetType: req.AssetType,
		Amount:    newBalance,
	})
}

// Pause handles POST /api/v1/admin/pause.
func (h *AdminHandler) Pause(c *gin.Context) {
	account, ok := middleware.AuthedAccount(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidAccount())
		return
	}

	if err := h.ledgerSvc.Pause(c.Request.Context(), account); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"paused": true})
}

// Resume handles POST /api/v1/admin/resume.
func (h *AdminHandler) Resume(c *gin.Context) {
	account, ok := middleware.AuthedAccount(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidAccount())
		return
	}

	if err := h.ledgerSvc.Resume(c.Request.Context(), account); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"paused": false})
}
