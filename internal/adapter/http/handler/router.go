package handler

import (
	"trustlens/internal/adapter/http/middleware"
	redisStore "trustlens/internal/adapter/storage/redis"
	"trustlens/internal/core/ports"
	"trustlens/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	FraudSvc       ports.FraudService
	RiskSvc        ports.RiskService
	ReportingSvc   ports.ReportingService
	AuthSvc        ports.AuthService
	NotifySvc      ports.NotifyService
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	StorageMode    string // "postgres" or "memory"
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit
	r.Use(metrics.Middleware())

	// Health check (deep — verifies the active storage backend + Redis)
	r.GET("/health", HealthCheck(deps.StorageMode, deps.HealthCheckers...))
	r.GET("/metrics", metrics.Handler())

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

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	fraudHandler := NewFraudHandler(deps.FraudSvc, deps.NotifySvc, deps.Logger)
	reportHandler := NewReportHandler(deps.ReportingSvc)
	transactions := v1.Group("/transactions")
	{
		transactions.POST("", rl("submit"), fraudHandler.SubmitTransaction)
		transactions.GET("", rl("reports"), reportHandler.ListTransactions)
		transactions.GET("/latest", rl("reports"), fraudHandler.LatestVerdict)
		transactions.GET("/search", rl("reports"), reportHandler.SearchTransactions)
	}

	v1.GET("/stats", rl("reports"), reportHandler.GetStats)

	riskHandler := NewRiskHandler(deps.RiskSvc)
	v1.POST("/analyze", rl("analyze"), riskHandler.Analyze)

	notifyHandler := NewNotifyHandler(deps.NotifySvc)
	v1.POST("/notifications/sms", rl("sms"), notifyHandler.SendSMS)

	// --- JWT-authenticated routes (blacklist administration) ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	blacklistHandler := NewBlacklistHandler(deps.FraudSvc)
	v1.POST("/blacklist", jwtAuth, rl("blacklist"), blacklistHandler.Add)

	return r
}
