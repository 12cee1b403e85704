package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	auditapp "github.com/shopapi/backend/internal/application/audit"
	cartapp "github.com/shopapi/backend/internal/application/cart"
	catalogapp "github.com/shopapi/backend/internal/application/catalog"
	identityapp "github.com/shopapi/backend/internal/application/identity"
	tradeapp "github.com/shopapi/backend/internal/application/trade"
	"github.com/shopapi/backend/internal/domain/identity"
	"github.com/shopapi/backend/internal/domain/shared"
	"github.com/shopapi/backend/internal/infrastructure/auth"
	"github.com/shopapi/backend/internal/infrastructure/config"
	"github.com/shopapi/backend/internal/infrastructure/event"
	"github.com/shopapi/backend/internal/infrastructure/logger"
	"github.com/shopapi/backend/internal/infrastructure/migration"
	"github.com/shopapi/backend/internal/infrastructure/persistence"
	"github.com/shopapi/backend/internal/infrastructure/storage"
	"github.com/shopapi/backend/internal/infrastructure/telemetry"
	"github.com/shopapi/backend/internal/interfaces/http/handler"
	"github.com/shopapi/backend/internal/interfaces/http/middleware"
	"github.com/shopapi/backend/internal/interfaces/http/router"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

const kafkaConsumerGroup = "shop-backend"

func main() {
	// A missing .env file is fine; the environment may already be set
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log, cfg.App.Env)
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	providers, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			log.Warn("Telemetry shutdown failed", zap.Error(err))
		}
	}()
	if providers.Logs.IsEnabled() {
		log = logger.Tee(log, providers.Logs.ZapCore(cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level)))
	}

	log.Info("Starting shop backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.String("port", cfg.App.Port),
	)

	var meter metric.Meter
	if providers.Meter.IsEnabled() {
		meter = providers.Meter.Meter("github.com/shopapi/backend")
	}

	// Database
	db, err := persistence.NewDatabase(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database connection", zap.Error(err))
		}
	}()
	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("database", cfg.Database.DBName),
	)

	if cfg.Telemetry.DBTraceEnabled {
		if err := telemetry.InstrumentDB(db.DB, telemetry.DBInstrumentationConfig{
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			Meter:           meter,
		}, log); err != nil {
			log.Fatal("Failed to instrument database", zap.Error(err))
		}
	}

	if err := migrateUp(db, log); err != nil {
		log.Fatal("Failed to apply migrations", zap.Error(err))
	}

	// Health checks probe every external dependency the server holds
	checks := map[string]handler.Pinger{"database": db}

	blacklist, closeBlacklist := newTokenBlacklist(ctx, cfg, log, checks)
	defer closeBlacklist()

	images, localImages := newImageStorage(ctx, cfg, log)

	publisher, stopEvents := newEventPipeline(ctx, cfg, log, meter)
	defer stopEvents()

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	brandRepo := persistence.NewGormBrandRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	wishlistRepo := persistence.NewGormWishlistRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	auditRepo := persistence.NewGormAuditRepository(db.DB)

	// Services
	jwtService := auth.NewJWTService(cfg.JWT)
	identityTx := persistence.NewGormIdentityTransactionScope(db.DB)

	authService := identityapp.NewAuthService(identityTx, userRepo, jwtService, blacklist, identity.LockoutPolicy{
		MaxAttempts:  cfg.Auth.MaxLoginAttempts,
		LockDuration: cfg.Auth.LockDuration,
		ResetWindow:  cfg.Auth.ResetWindow,
	}, log)
	authService.SetEventPublisher(publisher)

	userService := identityapp.NewUserService(identityTx, userRepo, blacklist, cfg.JWT.RefreshTokenExpiration, log)
	userService.SetEventPublisher(publisher)

	productService := catalogapp.NewProductService(productRepo, categoryRepo, brandRepo, reviewRepo, images, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, productRepo)
	brandService := catalogapp.NewBrandService(brandRepo, productRepo)
	cartService := cartapp.NewCartService(cartRepo, productRepo, log)
	wishlistService := cartapp.NewWishlistService(wishlistRepo, productRepo)

	orderService := tradeapp.NewOrderService(persistence.NewGormTradeTransactionScope(db.DB), orderRepo, cartRepo, log)
	orderService.SetEventPublisher(publisher)

	auditService := auditapp.NewService(auditRepo, log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	httpMetrics, err := middleware.HTTPMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create HTTP metrics", zap.Error(err))
	}

	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.IsProduction()

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	// Middleware order: request ID, recovery, logging, tracing, metrics,
	// security headers, CORS, body limit, rate limit
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     providers.Tracer.IsEnabled(),
	}))
	engine.Use(middleware.SpanEnricher())
	engine.Use(httpMetrics)
	engine.Use(middleware.SecureWithConfig(security))
	engine.Use(middleware.CORSWithConfig(cors))
	engine.Use(middleware.BodyLimitWithOverrides(cfg.HTTP.MaxBodySize, map[string]int64{
		r.BasePath() + "/products/:id/images": cfg.HTTP.MaxUploadSize,
	}))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer rateLimiter.Stop()
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	guards := router.Guards{
		Authenticate: middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			JWTService:     jwtService,
			TokenBlacklist: blacklist,
			Logger:         log,
		}),
		RequireAdmin: middleware.RequireAdmin(),
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		defer authLimiter.Stop()
		guards.AuthRateLimit = middleware.RateLimit(authLimiter)
	}

	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, checks)

	router.RegisterShopRoutes(r, router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		User:     handler.NewUserHandler(userService),
		Product:  handler.NewProductHandler(productService, cfg.HTTP.MaxUploadSize),
		Category: handler.NewCategoryHandler(categoryService),
		Brand:    handler.NewBrandHandler(brandService),
		Cart:     handler.NewCartHandler(cartService),
		Wishlist: handler.NewWishlistHandler(wishlistService),
		Order:    handler.NewOrderHandler(orderService),
		Audit:    handler.NewAuditHandler(auditService),
		System:   systemHandler,
	}, guards)
	r.Setup()

	// Outside API versioning
	engine.GET("/health", systemHandler.Health)
	if localImages != nil {
		engine.Static(localImages.URLPrefix(), localImages.Dir())
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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

// migrateUp applies the embedded schema migrations
func migrateUp(db *persistence.Database, log *zap.Logger) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.NewEmbedded(sqlDB, log)
	if err != nil {
		return err
	}
	return m.Up()
}

// newTokenBlacklist uses Redis when enabled so revocations survive restarts
// and are shared between instances
func newTokenBlacklist(ctx context.Context, cfg *config.Config, log *zap.Logger, checks map[string]handler.Pinger) (auth.TokenBlacklist, func()) {
	if !cfg.Redis.Enabled {
		log.Info("Token blacklist in memory")
		return auth.NewInMemoryTokenBlacklist(), func() {}
	}

	blacklist, err := auth.NewRedisTokenBlacklist(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to redis", zap.String("addr", cfg.Redis.Addr()), zap.Error(err))
	}
	checks["redis"] = blacklist
	log.Info("Token blacklist in redis", zap.String("addr", cfg.Redis.Addr()))
	return blacklist, func() {
		if err := blacklist.Close(); err != nil {
			log.Warn("Failed to close redis client", zap.Error(err))
		}
	}
}

// newImageStorage returns the S3 store when enabled, otherwise a local
// directory that the server exposes itself. The second result is non-nil
// only in the local case.
func newImageStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (catalogapp.ImageStorage, *storage.LocalImageStorage) {
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3ImageStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to create S3 image storage", zap.Error(err))
		}
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to prepare image bucket", zap.String("bucket", s3Storage.Bucket()), zap.Error(err))
		}
		return s3Storage, nil
	}

	local, err := storage.NewLocalImageStorage(cfg.Storage.LocalDir, "/uploads")
	if err != nil {
		log.Fatal("Failed to create local image storage", zap.String("dir", cfg.Storage.LocalDir), zap.Error(err))
	}
	log.Info("Storing images locally", zap.String("dir", local.Dir()))
	return local, local
}

// newEventPipeline builds the in-process bus and, when Kafka is enabled,
// routes published events through the topic and back into the bus
func newEventPipeline(ctx context.Context, cfg *config.Config, log *zap.Logger, meter metric.Meter) (shared.EventPublisher, func()) {
	bus := event.NewInMemoryEventBus(log)

	loggingHandler := event.NewLoggingHandler(log)
	bus.Subscribe(loggingHandler, loggingHandler.EventTypes()...)

	if meter != nil {
		shopMetrics, err := telemetry.NewShopMetrics(meter)
		if err != nil {
			log.Fatal("Failed to create shop metrics", zap.Error(err))
		}
		bus.Subscribe(shopMetrics, shopMetrics.EventTypes()...)
	}

	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	if !cfg.Event.KafkaEnabled {
		return bus, func() { _ = bus.Stop(context.Background()) }
	}

	publisher, err := event.NewKafkaPublisher(cfg.Event, log)
	if err != nil {
		log.Fatal("Failed to create kafka publisher", zap.Error(err))
	}
	consumer, err := event.NewKafkaConsumer(cfg.Event, kafkaConsumerGroup, bus, log)
	if err != nil {
		log.Fatal("Failed to create kafka consumer", zap.Error(err))
	}

	consumerCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := consumer.Run(consumerCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Kafka consumer stopped", zap.Error(err))
		}
	}()
	log.Info("Kafka event pipeline enabled",
		zap.Strings("brokers", cfg.Event.KafkaBrokers),
		zap.String("topic", cfg.Event.KafkaTopic),
	)

	return publisher, func() {
		cancel()
		<-done
		if err := consumer.Close(); err != nil {
			log.Warn("Failed to close kafka consumer", zap.Error(err))
		}
		if err := publisher.Close(); err != nil {
			log.Warn("Failed to close kafka publisher", zap.Error(err))
		}
		_ = bus.Stop(context.Background())
	}
}
