package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appcatalog "github.com/gestock/backend/internal/application/catalog"
	appfinance "github.com/gestock/backend/internal/application/finance"
	appidentity "github.com/gestock/backend/internal/application/identity"
	appops "github.com/gestock/backend/internal/application/ops"
	appstock "github.com/gestock/backend/internal/application/stock"
	"github.com/gestock/backend/internal/infrastructure/auth"
	"github.com/gestock/backend/internal/infrastructure/config"
	"github.com/gestock/backend/internal/infrastructure/logger"
	"github.com/gestock/backend/internal/infrastructure/persistence"
	"github.com/gestock/backend/internal/interfaces/http/handler"
	"github.com/gestock/backend/internal/interfaces/http/middleware"
	"github.com/gestock/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

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

	log.Info("Starting GeStock backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.String("port", cfg.App.Port),
	)

	// Database with GORM logging routed through zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Log.SlowQueryThreshold))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName),
	)

	// Token blacklist: Redis when reachable, in-memory otherwise
	var blacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, falling back to in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		defer func() {
			if err := redisBlacklist.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		blacklist = redisBlacklist
		log.Info("Redis token blacklist connected",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port),
		)
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	// Repositories
	articleRepo := persistence.NewGormArticleRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	documentRepo := persistence.NewGormDocumentRepository(db.DB)
	distributionRepo := persistence.NewGormDistributionRepository(db.DB)
	missionOrderRepo := persistence.NewGormMissionOrderRepository(db.DB)
	receptionReportRepo := persistence.NewGormReceptionReportRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	roleRepo := persistence.NewGormRoleRepository(db.DB)

	txScope := persistence.NewGormTransactionScope(db.DB)
	if cfg.Stock.RowLocking {
		txScope = persistence.NewGormTransactionScopeWithLocking(db.DB)
		log.Info("Row locking enabled for stock reconciliation")
	}

	// Application services
	articleService := appcatalog.NewArticleService(articleRepo, categoryRepo)
	categoryService := appcatalog.NewCategoryService(categoryRepo)
	documentService := appstock.NewDocumentService(documentRepo, articleRepo, txScope, cfg.Stock.CumulativeCheck)
	distributionService := appops.NewDistributionService(distributionRepo, articleRepo, documentRepo)
	missionOrderService := appops.NewMissionOrderService(missionOrderRepo)
	receptionReportService := appops.NewReceptionReportService(receptionReportRepo, documentRepo)
	paymentService := appfinance.NewPaymentService(paymentRepo, documentRepo)

	authService := appidentity.NewAuthService(userRepo, roleRepo, jwtService, blacklist, appidentity.AuthServiceConfig{
		MaxLoginAttempts: cfg.Auth.MaxLoginAttempts,
		LockDuration:     cfg.Auth.LockDuration,
	}, log)
	userService := appidentity.NewUserService(userRepo, roleRepo, log)
	roleService := appidentity.NewRoleService(roleRepo, log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	engine := router.New(router.Config{
		Logger:         log,
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		CORS:           &corsConfig,

		SystemHandler:          handler.NewSystemHandler(db, version),
		AuthHandler:            handler.NewAuthHandler(authService),
		UserHandler:            handler.NewUserHandler(userService),
		RoleHandler:            handler.NewRoleHandler(roleService),
		ArticleHandler:         handler.NewArticleHandler(articleService),
		CategoryHandler:        handler.NewCategoryHandler(categoryService),
		StockDocumentHandler:   handler.NewStockDocumentHandler(documentService),
		DistributionHandler:    handler.NewDistributionHandler(distributionService),
		MissionOrderHandler:    handler.NewMissionOrderHandler(missionOrderService),
		ReceptionReportHandler: handler.NewReceptionReportHandler(receptionReportService),
		PaymentHandler:         handler.NewPaymentHandler(paymentService),
	})

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

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
