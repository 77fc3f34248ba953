package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gyro-ledger/config"
	httpHandler "gyro-ledger/internal/adapter/http/handler"
	pgStorage "gyro-ledger/internal/adapter/storage/postgres"
	redisStorage "gyro-ledger/internal/adapter/storage/redis"
	"gyro-ledger/internal/core/domain"
	"gyro-ledger/internal/core/ports"
	"gyro-ledger/internal/service"
	"gyro-ledger/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Gyro Ledger")

	gin.SetMode(cfg.Server.Mode)

	owner := domain.Address(cfg.Ledger.Owner)
	treasury := domain.Address(cfg.Ledger.Treasury)
	if !owner.Valid() || !treasury.Valid() {
		log.Fatal().Msg("ledger.owner and ledger.treasury must be valid account addresses")
	}

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	registryRepo := pgStorage.NewRegistryRepo(pool)
	balanceRepo := pgStorage.NewBalanceRepo(pool)
	txRepo := pgStorage.NewTransactionRepo(pool)
	stateRepo := pgStorage.NewStateRepo(pool)
	auditRepo := pgStorage.NewAuditRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	dedupCache := redisStorage.NewDedupCache(rdb)
	nonceStore := redisStorage.NewNonceStore(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize core services
	encSvc, err := service.NewAESEncryptionService(cfg.Secrets.Passphrase, cfg.Secrets.Salt)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize encryption service")
	}
	sigSvc := service.NewHMACSignatureService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Initialize business services
	registrySvc := service.NewRegistryService(registryRepo, encSvc, log)
	ledgerSvc := service.NewLedgerService(
		registryRepo,
		balanceRepo,
		txRepo,
		stateRepo,
		dedupCache,
		transactor,
		treasury,
		log,
	)
	sessionSvc := service.NewSessionService(registryRepo, tokenSvc)
	auditSvc := service.NewAuditService(auditRepo, log)

	// Bootstrap the owner account. The secret is printed exactly once,
	// on the run that creates the account.
	if secret, err := registrySvc.EnsureOwner(ctx, owner); err != nil {
		log.Fatal().Err(err).Msg("Failed to bootstrap owner account")
	} else if secret != "" {
		log.Info().
			Str("owner", string(owner)).
			Str("secret", secret).
			Msg("Owner account created; store this secret, it will not be shown again")
	}

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		RegistrySvc:    registrySvc,
		LedgerSvc:      ledgerSvc,
		SessionSvc:     sessionSvc,
		RegistryRepo:   registryRepo,
		EncSvc:         encSvc,
		SigSvc:         sigSvc,
		NonceStore:     nonceStore,
		TokenSvc:       tokenSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		AuditSvc:       auditSvc,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
