package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
	AuditActionRegisterUser    AuditAction = "REGISTER_USER"
	AuditActionRegisterBalance AuditAction = "REGISTER_BALANCE"
	AuditActionAddAdmin        AuditAction = "ADD_ADMIN"
	AuditActionTransfer        AuditAction = "TRANSFER"
	AuditActionWithdraw        AuditAction = "WITHDRAW"
	AuditActionAdminApprove    AuditAction = "ADMIN_APPROVE"
	AuditActionFundLiquidity   AuditAction = "FUND_LIQUIDITY"
	AuditActionPause           AuditAction = "PAUSE"
	AuditActionResume          AuditAction = "RESUME"
	AuditActionSession         AuditAction = "SESSION"
)

// AuditLog records a single audited action in the system.
type AuditLog struct {
	ID           uuid.UUID   `json:"id"`
	Account      *Address    `json:"account,omitempty"`
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	Details      string      `json:"details,omitempty"` // JSON string
	IPAddress    string      `json:"ip_address"`
	CreatedAt    time.Time   `json:"created_at"`
}
