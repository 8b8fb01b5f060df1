package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	billingapp "github.com/klinika/backend/internal/application/billing"
	clinicapp "github.com/klinika/backend/internal/application/clinic"
	identityapp "github.com/klinika/backend/internal/application/identity"
	patientapp "github.com/klinika/backend/internal/application/patient"
	pharmacyapp "github.com/klinika/backend/internal/application/pharmacy"
	purchasingapp "github.com/klinika/backend/internal/application/purchasing"
	queueapp "github.com/klinika/backend/internal/application/queue"
	recordapp "github.com/klinika/backend/internal/application/record"
	"github.com/klinika/backend/internal/infrastructure/auth"
	"github.com/klinika/backend/internal/infrastructure/config"
	"github.com/klinika/backend/internal/infrastructure/logger"
	"github.com/klinika/backend/internal/infrastructure/persistence"
	"github.com/klinika/backend/internal/infrastructure/printing"
	"github.com/klinika/backend/internal/interfaces/http/handler"
	"github.com/klinika/backend/internal/interfaces/http/middleware"
	"github.com/klinika/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
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

	log.Info("Starting Klinika Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Token blacklist backed by Redis
	blacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := blacklist.Close(); err != nil {
			log.Error("Error closing token blacklist", zap.Error(err))
		}
	}()
	log.Info("Token blacklist connected")

	// Initialize repositories
	clinicRepo := persistence.NewGormClinicRepository(db.DB)
	sessionRepo := persistence.NewGormCashierSessionRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	assistantRepo := persistence.NewGormDoctorAssistantRepository(db.DB)
	patientRepo := persistence.NewGormPatientRepository(db.DB)
	queueRepo := persistence.NewGormQueueRepository(db.DB)
	drugRepo := persistence.NewGormDrugRepository(db.DB)
	categoryRepo := persistence.NewGormDrugCategoryRepository(db.DB)
	unitRepo := persistence.NewGormUnitRepository(db.DB)
	factoryRepo := persistence.NewGormDrugFactoryRepository(db.DB)
	sellingRepo := persistence.NewGormSellingRepository(db.DB)
	actionRepo := persistence.NewGormActionRepository(db.DB)
	recordRepo := persistence.NewGormRecordRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)

	// Transaction scopes for operations that span aggregates
	pharmacyScope := persistence.NewGormPharmacyTransactionScope(db.DB)
	purchasingScope := persistence.NewGormPurchasingTransactionScope(db.DB)
	recordScope := persistence.NewGormRecordTransactionScope(db.DB)
	billingScope := persistence.NewGormBillingTransactionScope(db.DB)

	// Invoice PDF renderer (headless Chrome)
	var renderer printing.PDFRenderer
	if cfg.Printing.Enabled {
		chromeRenderer, err := printing.NewChromedpRenderer(&printing.ChromedpConfig{
			DefaultTimeout: cfg.Printing.RenderTimeout,
			ExecPath:       cfg.Printing.ChromePath,
			NoSandbox:      true,
			Logger:         log,
		})
		if err != nil {
			log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
		}
		defer func() {
			if err := chromeRenderer.Close(); err != nil {
				log.Error("Error closing PDF renderer", zap.Error(err))
			}
		}()
		renderer = chromeRenderer
		log.Info("Invoice PDF renderer ready",
			zap.Duration("render_timeout", cfg.Printing.RenderTimeout))
	} else {
		log.Info("Invoice PDF rendering disabled")
	}

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	userService := identityapp.NewUserService(userRepo, log)
	assistantService := identityapp.NewAssistantService(userRepo, assistantRepo, log)
	clinicService := clinicapp.NewClinicService(clinicRepo, userRepo, log)
	cashierService := clinicapp.NewCashierService(clinicRepo, sessionRepo, log)
	reportService := clinicapp.NewReportService(reportRepo, log)
	patientService := patientapp.NewPatientService(patientRepo, log)
	queueService := queueapp.NewQueueService(queueRepo, patientRepo, clinicRepo, log)
	catalogService := pharmacyapp.NewCatalogService(drugRepo, categoryRepo, unitRepo, factoryRepo, log)
	ledgerService := pharmacyapp.NewStockLedgerService(pharmacyScope, log)
	purchaseService := purchasingapp.NewPurchaseService(purchasingScope, factoryRepo, ledgerService, log)
	consultationService := recordapp.NewConsultationService(
		recordScope, queueRepo, patientRepo, clinicRepo, drugRepo, unitRepo, actionRepo, recordRepo, log,
	)
	billingService := billingapp.NewBillingService(
		billingScope, sellingRepo, drugRepo, unitRepo, actionRepo, ledgerService, log,
	)
	actionService := billingapp.NewActionService(actionRepo, log)
	invoiceService := billingapp.NewInvoiceService(sellingRepo, clinicRepo, patientRepo, renderer, log)

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService, userService)
	clinicHandler := handler.NewClinicHandler(clinicService)
	cashierHandler := handler.NewCashierHandler(cashierService, reportService)
	userHandler := handler.NewUserHandler(userService, assistantService)
	patientHandler := handler.NewPatientHandler(patientService)
	queueHandler := handler.NewQueueHandler(queueService)
	drugHandler := handler.NewDrugHandler(catalogService)
	stockHandler := handler.NewStockHandler(ledgerService)
	purchaseHandler := handler.NewPurchaseHandler(purchaseService)
	recordHandler := handler.NewRecordHandler(consultationService)
	billingHandler := handler.NewBillingHandler(billingService, actionService, invoiceService)

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

	// Middleware stack: request ID first so recovery and request logs carry it
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// JWT authentication for everything except the public endpoints
	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = blacklist
	jwtConfig.Logger = log
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Health check endpoints (outside authentication)
	engine.GET("/health", healthHandler(db, blacklist))
	engine.GET("/api/v1/health", healthHandler(db, blacklist))

	// Register API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(authHandler).
		Register(clinicHandler).
		Register(cashierHandler).
		Register(userHandler).
		Register(patientHandler).
		Register(queueHandler).
		Register(drugHandler).
		Register(stockHandler).
		Register(purchaseHandler).
		Register(recordHandler).
		Register(billingHandler)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
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

// healthHandler reports the state of the server's backing services
func healthHandler(db *persistence.Database, blacklist *auth.RedisTokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.FromGin(c)

		status := http.StatusOK
		dbState := "ok"
		redisState := "ok"

		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			status = http.StatusServiceUnavailable
			dbState = "error"
		}
		if err := blacklist.Ping(c.Request.Context()); err != nil {
			reqLog.Warn("Redis health check failed", zap.Error(err))
			status = http.StatusServiceUnavailable
			redisState = "error"
		}

		body := gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": dbState,
			"redis":    redisState,
		}
		if status != http.StatusOK {
			body["status"] = "unhealthy"
		}
		c.JSON(status, body)
	}
}
