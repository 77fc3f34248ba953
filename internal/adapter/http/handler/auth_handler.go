package handler

import (
	"net/http"

	"gyro-ledger/internal/adapter/http/dto"
	"gyro-ledger/internal/adapter/http/middleware"
	"gyro-ledger/internal/core/ports"
	"gyro-ledger/pkg/apperror"
	"gyro-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles session endpoints.
type AuthHandler struct {
	sessionSvc ports.SessionService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(sessionSvc ports.SessionService) *AuthHandler {
	return &AuthHandler{sessionSvc: sessionSvc}
}

// IssueSession handles POST /api/v1/auth/session.
// The caller authenticates with an HMAC-signed request and receives a
// short-lived read token in exchange.
func (h *AuthHandler) IssueSession(c *gin.Context) {
	account, ok := middleware.AuthedAccount(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidAccount())
		return
	}

	token, expiry, err := h.sessionSvc.Issue(c.Request.Context(), account)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.SessionResponse{
		Token:  token,
		Expiry: expiry.Unix(),
	})
}

// HealthCheck handles GET /health. Deep health check verifying all dependencies.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		type depStatus struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		}

		deps := make(map[string]depStatus)
		allHealthy := true

		for _, checker := range checkers {
			if err := checker.Ping(c.Request.Context()); err != nil {
				deps[checker.Name()] = depStatus{Status: "unhealthy", Error: err.Error()}
				allHealthy = false
			} else {
				deps[checker.Name()] = depStatus{Status: "healthy"}
			}
		}

		status := "healthy"
		httpCode := http.StatusOK
		if !allHealthy {
			status = "degraded"
			httpCode = http.StatusServiceUnavailable
		}

		c.JSON(httpCode, gin.H{
			"status":       status,
			"dependencies": deps,
		})
	}
}
