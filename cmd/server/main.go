package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	identityapp "github.com/vivo/salesops-backend/internal/application/identity"
	salesapp "github.com/vivo/salesops-backend/internal/application/sales"
	"github.com/vivo/salesops-backend/internal/infrastructure/auth"
	"github.com/vivo/salesops-backend/internal/infrastructure/config"
	"github.com/vivo/salesops-backend/internal/infrastructure/erp"
	"github.com/vivo/salesops-backend/internal/infrastructure/logger"
	"github.com/vivo/salesops-backend/internal/interfaces/http/handler"
	"github.com/vivo/salesops-backend/internal/interfaces/http/middleware"
	"github.com/vivo/salesops-backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Vivo SalesOps Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// ERP gateway. Every repository shares one client with a fixed
	// Basic-auth identity; user-level authorization lives in this backend.
	erpClient := erp.NewClient(erp.Config{
		BaseURL:       cfg.ERP.BaseURL,
		Authorization: cfg.ERP.Authorization(),
		Timeout:       cfg.ERP.Timeout,
	}, log)

	headerRepo := erp.NewSalesHeaderRepository(erpClient)
	lineRepo := erp.NewSalesLineRepository(erpClient)
	actionRepo := erp.NewSalesActionRepository(erpClient)
	lookupRepo := erp.NewCatalogRepository(erpClient)
	overviewRepo := erp.NewSalesOverviewRepository(erpClient)
	userRepo := erp.NewUserRepository(erpClient)

	// Session tokens and revocation. Redis keeps revocations across
	// restarts; the in-memory store serves single-instance deployments.
	tokenService := auth.NewTokenService(cfg.Session)

	var revocationStore auth.RevocationStore
	if cfg.Redis.Host != "" {
		redisStore, err := auth.NewRedisRevocationStore(auth.RedisRevocationConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisStore.Close(); err != nil {
				log.Error("Error closing Redis connection", zap.Error(err))
			}
		}()
		revocationStore = redisStore
		log.Info("Using Redis revocation store", zap.String("addr", cfg.Redis.Addr()))
	} else {
		revocationStore = auth.NewInMemoryRevocationStore()
		log.Info("Using in-memory revocation store")
	}

	// Application services
	sessionService := identityapp.NewSessionService(userRepo, tokenService, revocationStore, log)
	salesService := salesapp.NewSalesService(headerRepo, lineRepo, actionRepo, lookupRepo, overviewRepo, log)

	// HTTP handlers
	authHandler := handler.NewAuthHandler(sessionService, cfg.Session.Expiration, cfg.App.Env == "production")
	salesHandler := handler.NewSalesHandler(salesService)
	lookupHandler := handler.NewLookupHandler(salesService)
	systemHandler := handler.NewSystemHandler(cfg.App.Name, cfg.App.Env)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request ID first so every later stage can log it.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthCheck())

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	sessionAuth := middleware.SessionAuth(sessionService)

	// Auth: login is public, logout and me require a session.
	authRoutes := router.NewDomainGroup("auth", "/auth").
		POST("/login", authHandler.Login).
		POST("/logout", authHandler.Logout).
		GET("/me", sessionAuth, authHandler.Me)

	// Sales documents and approval actions
	salesRoutes := router.NewDomainGroup("sales", "/sales").
		Use(sessionAuth).
		GET("/open", salesHandler.ListOpen).
		GET("/pending", salesHandler.ListPending).
		GET("/approved", salesHandler.ListApproved).
		GET("/rejected", salesHandler.ListRejected).
		GET("/overview", salesHandler.Overview).
		POST("", salesHandler.CreateHeader).
		GET("/:no", salesHandler.GetHeader).
		GET("/:no/lines", salesHandler.ListLines).
		POST("/:no/lines", salesHandler.CreateLine).
		PATCH("/:no/lines/:sn", salesHandler.UpdateLine).
		DELETE("/:no/lines/:sn", salesHandler.DeleteLine).
		POST("/:no/submit", salesHandler.Submit).
		POST("/:no/return", salesHandler.Return).
		POST("/:no/approve", salesHandler.Approve).
		POST("/:no/reject", salesHandler.Reject)

	// Reference catalogs for line editing
	lookupRoutes := router.NewDomainGroup("lookups", "/lookups").
		Use(sessionAuth).
		GET("/products", lookupHandler.Products).
		GET("/skus", lookupHandler.SKUs)

	// System routes stay public for probes
	systemRoutes := router.NewDomainGroup("system", "/system").
		GET("/info", systemHandler.Info).
		GET("/ping", systemHandler.Ping)

	r.Register(authRoutes).
		Register(salesRoutes).
		Register(lookupRoutes).
		Register(systemRoutes)

	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthCheck answers liveness probes. The ERP is deliberately not probed
// here; its availability is surfaced per-request instead.
func healthCheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}
