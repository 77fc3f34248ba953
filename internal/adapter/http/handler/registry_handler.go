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

// RegistryHandler handles account registry endpoints.
type RegistryHandler struct {
	registrySvc ports.RegistryService
}

// NewRegistryHandler creates a new RegistryHandler.
func NewRegistryHandler(registrySvc ports.RegistryService) *RegistryHandler {
	return &RegistryHandler{registrySvc: registrySvc}
}

// RegisterUser handles POST /api/v1/registry/users.
func (h *RegistryHandler) RegisterUser(c *gin.Context) {
	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.registrySvc.RegisterUser(c.Request.Context(), domain.Address(req.Account))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.RegisterUserResponse{
		Account: string(result.Account),
		Secret:  result.Secret,
	})
}

// AddAdmin handles POST /api/v1/registry/admins.
// The authenticated account is the caller; only the owner passes.
func (h *RegistryHandler) AddAdmin(c *gin.Context) {
	caller, ok := middleware.AuthedAccount(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidAccount())
		return
	}

	var req dto.AddAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	if err := h.registrySvc.AddAdmin(c.Request.Context(), caller, domain.Address(req.Admin)); err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"admin": req.Admin})
}

// GetAdmins handles GET /api/v1/registry/admins.
func (h *RegistryHandler) GetAdmins(c *gin.Context) {
	admins, err := h.registrySvc.GetAdmins(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]string, 0, len(admins))
	for _, a := range admins {
		out = append(out, string(a))
	}
	response.OK(c, dto.AdminListResponse{Admins: out})
}

// IsAdmin handles GET /api/v1/registry/admins/:address.
func (h *RegistryHandler) IsAdmin(c *gin.Context) {
	address := domain.Address(c.Param("address"))
	if !address.Valid() {
		response.Error(c, apperror.Validation("invalid account address"))
		return
	}

	member, err := h.registrySvc.IsAdmin(c.Request.Context(), address)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.MembershipResponse{Account: string(address), Member: member})
}

// IsUser handles GET /api/v1/registry/users/:address.
func (h *RegistryHandler) IsUser(c *gin.Context) {
	address := domain.Address(c.Param("address"))
	if !address.Valid() {
		response.Error(c, apperror.Validation("invalid account address"))
		return
	}

	member, err := h.registrySvc.IsUser(c.Request.Context(), address)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.MembershipResponse{Account: string(address), Member: member})
}
