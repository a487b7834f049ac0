package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	appaudit "github.com/nuam/calificaciones/internal/application/audit"
	appbulk "github.com/nuam/calificaciones/internal/application/bulk"
	appidentity "github.com/nuam/calificaciones/internal/application/identity"
	apprating "github.com/nuam/calificaciones/internal/application/rating"
	apprefdata "github.com/nuam/calificaciones/internal/application/refdata"
	"github.com/nuam/calificaciones/internal/infrastructure/auth"
	"github.com/nuam/calificaciones/internal/infrastructure/config"
	"github.com/nuam/calificaciones/internal/infrastructure/event"
	"github.com/nuam/calificaciones/internal/infrastructure/logger"
	"github.com/nuam/calificaciones/internal/infrastructure/persistence"
	"github.com/nuam/calificaciones/internal/interfaces/http/handler"
	"github.com/nuam/calificaciones/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting calificaciones backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
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

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to auto-migrate schema", zap.Error(err))
		}
		log.Info("Schema auto-migration applied")
	}

	// Token blacklist: Redis when available, in-memory otherwise
	var blacklist auth.TokenBlacklist
	if cfg.Redis.Enabled {
		redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		blacklist = redisBlacklist
		log.Info("Redis token blacklist enabled", zap.String("addr", cfg.Redis.Addr()))
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		log.Warn("Using in-memory token blacklist; revocations are lost on restart")
	}

	// Rating-created notifications
	var publisher event.RatingPublisher
	if cfg.Kafka.Enabled {
		kafkaPublisher, err := event.NewKafkaRatingPublisher(cfg.Kafka, log)
		if err != nil {
			log.Fatal("Failed to create Kafka publisher", zap.Error(err))
		}
		publisher = kafkaPublisher
		log.Info("Kafka rating publisher enabled",
			zap.String("servers", cfg.Kafka.BootstrapServers),
			zap.String("topic", cfg.Kafka.RatingTopic),
		)
	} else {
		publisher = event.NewNoopRatingPublisher()
		log.Info("Kafka disabled; rating notifications are dropped")
	}
	defer publisher.Close()

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	ratingRepo := persistence.NewGormRatingRepository(db.DB)
	instrumentRepo := persistence.NewGormInstrumentRepository(db.DB)
	marketRepo := persistence.NewGormMarketRepository(db.DB)
	stateRepo := persistence.NewGormStateRepository(db.DB)
	logRepo := persistence.NewGormLogRepository(db.DB)
	recordRepo := persistence.NewGormRecordRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := appidentity.NewAuthService(userRepo, jwtService, blacklist, log)
	userService := appidentity.NewUserService(userRepo, log)
	ratingService := apprating.NewService(
		ratingRepo, userRepo,
		instrumentRepo, marketRepo, stateRepo,
		logRepo, recordRepo,
		publisher, log,
	)
	refdataService := apprefdata.NewService(instrumentRepo, marketRepo, stateRepo, log)
	auditService := appaudit.NewQueryService(logRepo, recordRepo)
	exporter := appbulk.NewExporter(ratingRepo, log)
	importer := appbulk.NewImporter(txScope, cfg.Import.MaxRowErrs, log)

	engine := router.New(router.Dependencies{
		Config:     cfg,
		Logger:     log,
		DB:         db,
		JWTService: jwtService,
		Blacklist:  blacklist,
		Handlers: router.Handlers{
			Auth:    handler.NewAuthHandler(authService),
			Users:   handler.NewUserHandler(userService),
			Ratings: handler.NewRatingHandler(ratingService),
			Bulk:    handler.NewBulkHandler(exporter, importer),
			Refdata: handler.NewRefdataHandler(refdataService),
			Audit:   handler.NewAuditHandler(auditService),
		},
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
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
