package middleware

import (
	"encoding/json"
	"time"

	"gyro-ledger/internal/core/domain"
	"gyro-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog creates an audit middleware that logs successful write operations.
// It maps HTTP methods and paths to audit actions.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only audit successful write operations (status 2xx)
		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		if c.Request.Method == "GET" || c.Request.Method == "HEAD" || c.Request.Method == "OPTIONS" {
			return
		}

		action, resourceType := mapPathToAction(c.Request.URL.Path, c.Request.Method)
		if action == "" {
			return
		}

		var account *domain.Address
		if addr, ok := AuthedAccount(c); ok {
			account = &addr
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			Account:      account,
			Action:       action,
			ResourceType: resourceType,
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now(),
		})
	}
}

func mapPathToAction(path, method string) (domain.AuditAction, string) {
	switch {
	case path == "/api/v1/registry/users" && method == "POST":
		return domain.AuditActionRegisterUser, "account"
	case path == "/api/v1/registry/admins" && method == "POST":
		return domain.AuditActionAddAdmin, "account"
	case path == "/api/v1/auth/session" && method == "POST":
		return domain.AuditActionSession, "session"
	case path == "/api/v1/ledger/balances" && method == "POST":
		return domain.AuditActionRegisterBalance, "balance"
	case path == "/api/v1/ledger/transfer" && method == "POST":
		return domain.AuditActionTransfer, "transaction"
	case path == "/api/v1/ledger/withdraw" && method == "POST":
		return domain.AuditActionWithdraw, "transaction"
	case path == "/api/v1/ledger/approve" && method == "POST":
		return domain.AuditActionAdminApprove, "transaction"
	case path == "/api/v1/admin/liquidity" && method == "POST":
		return domain.AuditActionFundLiquidity, "balance"
	case path == "/api/v1/admin/pause" && method == "POST":
		return domain.AuditActionPause, "ledger_state"
	case path == "/api/v1/admin/resume" && method == "POST":
		return domain.AuditActionResume, "ledger_state"
	}
	return "", ""
}
