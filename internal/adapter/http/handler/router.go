package handler

import (
	"gyro-ledger/internal/adapter/http/middleware"
	redisStore "gyro-ledger/internal/adapter/storage/redis"
	"gyro-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	RegistrySvc    ports.RegistryService
	LedgerSvc      ports.LedgerService
	SessionSvc     ports.SessionService
	RegistryRepo   ports.RegistryRepository
	EncSvc         ports.EncryptionService
	SigSvc         ports.SignatureService
	NonceStore     ports.NonceStore
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	AuditSvc       ports.AuditService // nil = audit logging disabled
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Audit logging (after response)
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	// Health check (deep, verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	hmacAuth := middleware.HMACAuth(deps.RegistryRepo, deps.EncSvc, deps.SigSvc, deps.NonceStore, deps.Logger)
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)

	// --- Registry ---
	registryHandler := NewRegistryHandler(deps.RegistrySvc)
	registry := v1.Group("/registry")
	{
		// Registration is open; the secret in the response is the
		// caller's only chance to capture it.
		registry.POST("/users", rl("register"), registryHandler.RegisterUser)
		registry.POST("/admins", hmacAuth, rl("admin_ops"), registryHandler.AddAdmin)
		registry.GET("/admins", jwtAuth, rl("history"), registryHandler.GetAdmins)
		registry.GET("/admins/:address", jwtAuth, rl("history"), registryHandler.IsAdmin)
		registry.GET("/users/:address", jwtAuth, rl("history"), registryHandler.IsUser)
	}

	// --- Sessions ---
	authHandler := NewAuthHandler(deps.SessionSvc)
	v1.POST("/auth/session", hmacAuth, rl("session"), authHandler.IssueSession)

	// --- Ledger (HMAC-signed mutations) ---
	ledgerHandler := NewLedgerHandler(deps.LedgerSvc, deps.RegistrySvc)
	adminHandler := NewAdminHandler(deps.LedgerSvc)
	ledger := v1.Group("/ledger")
	{
		ledger.POST("/balances", hmacAuth, rl("register"), ledgerHandler.RegisterBalance)
		ledger.POST("/transfer", hmacAuth, rl("transfer"), ledgerHandler.Transfer)
		ledger.POST("/withdraw", hmacAuth, rl("withdraw"), ledgerHandler.Withdraw)
		ledger.POST("/approve", hmacAuth, rl("approve"), adminHandler.Approve)

		// Reads ride on session tokens.
		ledger.GET("/balances/:asset", jwtAuth, rl("history"), ledgerHandler.GetBalance)
		ledger.GET("/transactions", jwtAuth, rl("history"), ledgerHandler.ListTransactions)
		ledger.GET("/transactions/:tx_id", jwtAuth, rl("history"), ledgerHandler.GetTransaction)
	}

	// --- Owner operations ---
	admin := v1.Group("/admin", hmacAuth)
	{
		admin.POST("/liquidity", rl("admin_ops"), adminHandler.FundLiquidity)
		admin.POST("/pause", rl("admin_ops"), adminHandler.Pause)
		admin.POST("/resume", rl("admin_ops"), adminHandler.Resume)
	}

	return r
}
