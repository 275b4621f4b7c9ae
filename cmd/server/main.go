package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	barterapp "github.com/studyreuse/backend/internal/application/barter"
	catalogapp "github.com/studyreuse/backend/internal/application/catalog"
	identityapp "github.com/studyreuse/backend/internal/application/identity"
	notificationapp "github.com/studyreuse/backend/internal/application/notification"
	reportapp "github.com/studyreuse/backend/internal/application/report"
	reviewapp "github.com/studyreuse/backend/internal/application/review"
	tradeapp "github.com/studyreuse/backend/internal/application/trade"
	"github.com/studyreuse/backend/internal/domain/shared"
	"github.com/studyreuse/backend/internal/infrastructure/auth"
	"github.com/studyreuse/backend/internal/infrastructure/cache"
	"github.com/studyreuse/backend/internal/infrastructure/config"
	"github.com/studyreuse/backend/internal/infrastructure/event"
	"github.com/studyreuse/backend/internal/infrastructure/logger"
	"github.com/studyreuse/backend/internal/infrastructure/migration"
	"github.com/studyreuse/backend/internal/infrastructure/persistence"
	"github.com/studyreuse/backend/internal/infrastructure/printing"
	"github.com/studyreuse/backend/internal/infrastructure/storage"
	"github.com/studyreuse/backend/internal/infrastructure/telemetry"
	"github.com/studyreuse/backend/internal/interfaces/http/handler"
	"github.com/studyreuse/backend/internal/interfaces/http/middleware"
	"github.com/studyreuse/backend/internal/interfaces/http/router"
	"github.com/studyreuse/backend/migrations"
	"go.uber.org/zap"

	_ "github.com/studyreuse/backend/docs"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			StudyReuse API
//	@version		1.0
//	@description	Campus marketplace for reusing study material: listings, barters, orders, reviews and moderation.

//	@contact.name	StudyReuse maintainers
//	@contact.url	https://github.com/studyreuse/backend

//	@license.name	MIT

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	baseLog, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	providers, err := telemetry.Setup(ctx, cfg.Telemetry, version, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	log := providers.BridgeLogger(baseLog)
	defer func() { _ = log.Sync() }()
	defer func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()

	log.Info("Starting StudyReuse backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	profiler, err := telemetry.StartProfiler(cfg.Profiler, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() { _ = profiler.Stop() }()
	if profiler.Running() && cfg.Profiler.SpanProfiles {
		providers.EnableSpanProfiles()
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.InstrumentDB(db.DB, cfg.Telemetry, providers.Meter("studyreuse/db"), log); err != nil {
		log.Fatal("Failed to instrument database", zap.Error(err))
	}
	if cfg.Database.AutoMigrate {
		if err := migrateSchema(db, log); err != nil {
			log.Fatal("Failed to migrate schema", zap.Error(err))
		}
	}
	log.Info("Database connected", zap.String("driver", db.Driver()))

	// Redis backs token revocation and event idempotency when enabled
	stores, err := cache.NewStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.App.IsProduction()),
	).Create(ctx)
	if err != nil {
		log.Fatal("Failed to initialize stores", zap.Error(err))
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("Error closing stores", zap.Error(err))
		}
	}()
	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if stores.Client != nil {
		blacklist = auth.NewRedisTokenBlacklist(stores.Client)
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	itemRepo := persistence.NewGormItemRepository(db.DB)
	barterRepo := persistence.NewGormBarterRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)

	imageStorage, err := newImageStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize image storage", zap.Error(err))
	}

	// Events
	bus := event.NewInMemoryEventBus(log)
	handlers := notificationapp.Handlers(notificationRepo, log)
	handlers = append(handlers, catalogapp.NewImageCleanupHandler(imageStorage, log))
	metrics, err := telemetry.NewMarketplaceMetrics(providers.Meter("studyreuse/marketplace"))
	if err != nil {
		log.Fatal("Failed to create marketplace metrics", zap.Error(err))
	}
	handlers = append(handlers, metrics)
	if cfg.Event.IdempotencyEnabled {
		handlers = event.WrapHandlersWithIdempotency(handlers, stores.Idempotency, log,
			event.WithIdempotencyConfig(shared.IdempotencyConfig{Enabled: true, TTL: cfg.Event.IdempotencyTTL}))
	}
	for _, h := range handlers {
		bus.Subscribe(h)
	}
	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() { _ = bus.Stop(context.Background()) }()

	var publisher shared.EventPublisher = bus
	if cfg.NATS.Enabled {
		conn, err := event.ConnectNATS(cfg.NATS, log)
		if err != nil {
			log.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		serializer := event.NewEventSerializer()
		event.RegisterAllEvents(serializer)
		nats := event.NewNATSPublisher(conn, cfg.NATS.SubjectPrefix, serializer, log)
		defer func() { _ = nats.Close(context.Background()) }()
		publisher = event.NewFanoutPublisher(bus, log, nats)
		log.Info("Publishing domain events to NATS", zap.String("subject_prefix", cfg.NATS.SubjectPrefix))
	}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	authService.SetEventPublisher(publisher)
	userService := identityapp.NewUserService(userRepo, log)
	if cfg.Admin.BootstrapEmail != "" {
		if err := userService.BootstrapAdmin(ctx, cfg.Admin.BootstrapName, cfg.Admin.BootstrapEmail, cfg.Admin.BootstrapPassword); err != nil {
			log.Fatal("Failed to create bootstrap admin", zap.Error(err))
		}
	}

	itemService := catalogapp.NewItemService(itemRepo, userRepo, log, catalogapp.WithAutoApprove(cfg.Catalog.AutoApprove))
	itemService.SetEventPublisher(publisher)
	imageService := catalogapp.NewImageService(itemRepo, imageStorage, cfg.Storage.MaxImageSize, log)
	imageService.SetEventPublisher(publisher)

	barterService := barterapp.NewBarterService(barterRepo, itemRepo, userRepo, log)
	barterService.SetEventPublisher(publisher)

	var orderOpts []tradeapp.OrderServiceOption
	if receipts, closeReceipts, err := newReceiptRenderer(cfg.Receipt, log); err != nil {
		log.Fatal("Failed to initialize receipt renderer", zap.Error(err))
	} else if receipts != nil {
		defer closeReceipts()
		orderOpts = append(orderOpts, tradeapp.WithReceiptRenderer(receipts))
	}
	orderService := tradeapp.NewOrderService(orderRepo, itemRepo, userRepo, log, orderOpts...)
	orderService.SetEventPublisher(publisher)

	reviewService := reviewapp.NewReviewService(reviewRepo, itemRepo, userRepo, log)
	reviewService.SetEventPublisher(publisher)

	notificationService := notificationapp.NewNotificationService(notificationRepo, log)
	dashboardService := reportapp.NewDashboardService(userRepo, itemRepo, orderRepo, barterRepo, reviewRepo, log)

	// HTTP
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	health := handler.NewHealthHandler(version, db)
	if stores.Client != nil {
		health.AddCheck("redis", handler.PingFunc(func(ctx context.Context) error {
			return stores.Client.Ping(ctx).Err()
		}))
	}

	var limiters router.Limiters
	if cfg.HTTP.RateLimitEnabled {
		limiters.API = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		go limiters.API.Run(ctx)
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		limiters.Auth = middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		go limiters.Auth.Run(ctx)
	}

	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.App.IsProduction()

	engine, err := router.NewEngine(
		router.EngineConfig{
			HTTP:        cfg.HTTP,
			Swagger:     cfg.Swagger,
			Tracing:     cfg.Telemetry.Enabled,
			ServiceName: cfg.Telemetry.ServiceName,
			Security:    security,
		},
		middleware.JWTConfig{JWTService: jwtService, Blacklist: blacklist, Logger: log},
		limiters,
		router.Handlers{
			Auth:         handler.NewAuthHandler(authService),
			User:         handler.NewUserHandler(userService),
			Item:         handler.NewItemHandler(itemService, imageService),
			Barter:       handler.NewBarterHandler(barterService),
			Order:        handler.NewOrderHandler(orderService),
			Review:       handler.NewReviewHandler(reviewService),
			Notification: handler.NewNotificationHandler(notificationService),
			Admin:        handler.NewAdminHandler(dashboardService),
			Health:       health,
		},
		log,
	)
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down server...")
	case err := <-serveErr:
		log.Error("Server failed", zap.Error(err))
	}

	shutdownTimeout := cfg.HTTP.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited")
}

// migrateSchema applies the SQL migrations on postgres and GORM
// auto-migration on sqlite
func migrateSchema(db *persistence.Database, log *zap.Logger) error {
	if db.Driver() == "sqlite" {
		return db.AutoMigrate()
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, migrations.FS, log)
	if err != nil {
		return err
	}
	return m.Up()
}

func newImageStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (catalogapp.ImageStorage, error) {
	if !cfg.Storage.Enabled {
		log.Info("Object storage disabled, using in-memory image storage")
		return storage.NewMemoryImageStorage(cfg.Storage.PublicBaseURL), nil
	}
	s3, err := storage.NewS3ImageStorage(&cfg.Storage,
		storage.WithLogger(log),
		storage.WithPresignExpiration(cfg.Storage.PresignExpiration))
	if err != nil {
		return nil, err
	}
	if err := s3.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return s3, nil
}

// newReceiptRenderer returns nil when receipts are disabled. The PDF
// backend is optional; without Chrome receipts are served as HTML.
func newReceiptRenderer(cfg config.ReceiptConfig, log *zap.Logger) (tradeapp.ReceiptRenderer, func(), error) {
	if !cfg.Enabled {
		return nil, func() {}, nil
	}

	var pdf printing.PDFRenderer
	closeFn := func() {}
	chrome, err := printing.NewChromedpRenderer(cfg, log)
	if err != nil {
		log.Warn("Chrome unavailable, receipts will be HTML", zap.Error(err))
	} else {
		pdf = chrome
		closeFn = func() { _ = chrome.Close() }
	}

	r, err := printing.NewReceiptRenderer(pdf, cfg.CurrencySymbol, log)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return r, closeFn, nil
}
