package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trustlens/config"
	httpHandler "trustlens/internal/adapter/http/handler"
	memStorage "trustlens/internal/adapter/storage/memory"
	pgStorage "trustlens/internal/adapter/storage/postgres"
	redisStorage "trustlens/internal/adapter/storage/redis"
	"trustlens/internal/core/domain"
	"trustlens/internal/core/ports"
	"trustlens/internal/service"
	"trustlens/pkg/logger"

	"github.com/rs/zerolog"
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
		Msg("Starting TrustLens fraud detection service")

	ctx := context.Background()

	// Storage backend: PostgreSQL when reachable, in-process otherwise.
	// The choice is made once at startup and holds for the process lifetime.
	var (
		txRepo         ports.TransactionRepository
		blRepo         ports.BlacklistRepository
		analystRepo    ports.AnalystRepository
		healthCheckers []ports.HealthChecker
		storageMode    string
	)

	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err == nil {
		defer pool.Close()
		if err := pgStorage.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply database schema")
		}
		txRepo = pgStorage.NewTransactionRepo(pool)
		pgBlacklist := pgStorage.NewBlacklistRepo(pool)
		blRepo = pgBlacklist
		analystRepo = pgStorage.NewAnalystRepo(pool)
		healthCheckers = append(healthCheckers, pgStorage.NewHealthCheck(pool))
		storageMode = "postgres"
		seedBlacklist(ctx, pgBlacklist, cfg.Fraud.SeedAccounts, log)
		log.Info().Msg("PostgreSQL connected")
	} else {
		log.Warn().Err(err).Msg("PostgreSQL not available, running in memory mode")
		txRepo = memStorage.NewTransactionStore()
		blRepo = memStorage.NewBlacklistStore(cfg.Fraud.SeedAccounts)
		analystRepo = memStorage.NewAnalystStore()
		healthCheckers = append(healthCheckers, memStorage.NewHealthCheck())
		storageMode = "memory"
	}

	// Redis is optional: without it, rate limiting is disabled.
	var rateLimitStore *redisStorage.RateLimitStore
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Warn().Err(err).Msg("Redis not available, rate limiting disabled")
	} else {
		defer rdb.Close()
		rateLimitStore = redisStorage.NewRateLimitStore(rdb)
		healthCheckers = append(healthCheckers, redisStorage.NewHealthCheck(rdb))
	}

	// Initialize core services
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	fraudSvc := service.NewFraudService(txRepo, blRepo, service.FraudOptions{
		WindowSize:     cfg.Fraud.WindowSize,
		ZThreshold:     cfg.Fraud.ZThreshold,
		MaxDriftKm:     cfg.Fraud.MaxDriftKm,
		BlacklistedIPs: cfg.Fraud.BlacklistedIPs,
		DefaultPhone:   cfg.Twilio.DefaultPhone,
	}, log)
	riskSvc := service.NewRiskService(blRepo, cfg.Fraud.HighRiskLocations, log)
	reportingSvc := service.NewReportingService(txRepo)
	authSvc := service.NewAuthService(analystRepo, hashSvc, tokenSvc)
	notifySvc := service.NewTwilioNotifyService(
		cfg.Twilio.AccountSID,
		cfg.Twilio.AuthToken,
		cfg.Twilio.FromNumber,
		&http.Client{Timeout: 10 * time.Second},
		log,
	)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		FraudSvc:       fraudSvc,
		RiskSvc:        riskSvc,
		ReportingSvc:   reportingSvc,
		AuthSvc:        authSvc,
		NotifySvc:      notifySvc,
		TokenSvc:       tokenSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: healthCheckers,
		StorageMode:    storageMode,
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
		log.Info().Str("addr", addr).Str("storage_mode", storageMode).Msg("HTTP server listening")
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

// seedBlacklist inserts the configured seed accounts; existing entries are
// left untouched.
func seedBlacklist(ctx context.Context, blRepo ports.BlacklistRepository, accounts []string, log zerolog.Logger) {
	for _, acct := range accounts {
		entry := &domain.BlacklistEntry{
			Type:      domain.EntryTypeAccount,
			Value:     acct,
			Reasons:   []string{"Seed entry"},
			AddedBy:   "seed",
			CreatedAt: time.Now().UTC(),
		}
		if err := blRepo.Insert(ctx, entry); err != nil {
			log.Warn().Err(err).Str("account", acct).Msg("failed to seed blacklist entry")
		}
	}
}
