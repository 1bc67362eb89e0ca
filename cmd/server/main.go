package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	accountapp "github.com/celuvia/backend/internal/application/account"
	catalogapp "github.com/celuvia/backend/internal/application/catalog"
	orderingapp "github.com/celuvia/backend/internal/application/ordering"
	"github.com/celuvia/backend/internal/domain/shared"
	"github.com/celuvia/backend/internal/infrastructure/auth"
	"github.com/celuvia/backend/internal/infrastructure/cache"
	"github.com/celuvia/backend/internal/infrastructure/config"
	"github.com/celuvia/backend/internal/infrastructure/logger"
	"github.com/celuvia/backend/internal/infrastructure/mail"
	"github.com/celuvia/backend/internal/infrastructure/payment"
	"github.com/celuvia/backend/internal/infrastructure/persistence"
	"github.com/celuvia/backend/internal/infrastructure/social"
	"github.com/celuvia/backend/internal/infrastructure/storage"
	"github.com/celuvia/backend/internal/infrastructure/telemetry"
	"github.com/celuvia/backend/internal/interfaces/http/handler"
	"github.com/celuvia/backend/internal/interfaces/http/middleware"
	"github.com/celuvia/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port))

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

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
	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected")

	// Cart and idempotency stores fall back to in-memory when Redis is
	// not configured
	cacheFactory := cache.NewFactory(cfg.Redis,
		cache.WithLogger(log), cache.WithInMemoryFallback(true))
	carts, err := cacheFactory.CreateCartStore()
	if err != nil {
		log.Fatal("Failed to create cart store", zap.Error(err))
	}
	idempotencyStore, err := cacheFactory.CreateIdempotencyStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	tokenRepo := persistence.NewGormResetTokenRepository(db.DB)
	addrRepo := persistence.NewGormAddressRepository(db.DB)
	storeRepo := persistence.NewGormStoreRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	// Outbound adapters
	jwtService := auth.NewJWTService(cfg.JWT)
	mailer := mail.NewMailer(cfg.Mail, log)
	announcer := social.NewAnnouncer(cfg.Social, log)

	var images storage.ImageStorage
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3ImageStorage(cfg.Storage, log)
		if err != nil {
			log.Fatal("Failed to initialize image storage", zap.Error(err))
		}
		images = s3Storage
	} else {
		images = storage.NewStubImageStorage()
		log.Warn("Image storage disabled, uploads will be rejected")
	}

	gateway, err := payment.NewStripeGateway(cfg.Stripe, log)
	if err != nil {
		log.Fatal("Failed to initialize payment gateway", zap.Error(err))
	}
	verifier := payment.NewWebhookVerifier(cfg.Stripe.WebhookSecret)

	// Application services
	authService := accountapp.NewAuthService(
		userRepo, tokenRepo, addrRepo, jwtService, mailer, cfg.App.BaseURL, log)
	userService := accountapp.NewUserService(userRepo, log)
	addressService := accountapp.NewAddressService(addrRepo, log)

	storeService := catalogapp.NewStoreService(storeRepo, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, log)
	productService := catalogapp.NewProductService(
		productRepo, storeRepo, categoryRepo, reviewRepo, announcer, images, cfg.App.BaseURL, log)
	reviewService := catalogapp.NewReviewService(reviewRepo, productRepo, orderRepo, log)

	cartService := orderingapp.NewCartService(carts, productRepo, storeRepo, log)
	checkoutService := orderingapp.NewCheckoutService(carts, userRepo, gateway, orderingapp.CheckoutConfig{
		Currency:   cfg.Stripe.Currency,
		SuccessURL: cfg.App.BaseURL + cfg.Stripe.SuccessPath,
		CancelURL:  cfg.App.BaseURL + cfg.Stripe.CancelPath,
	}, log)
	orderService := orderingapp.NewOrderService(orderRepo, storeRepo, log)
	webhookService := orderingapp.NewWebhookService(
		verifier, idempotencyStore, shared.DefaultIdempotencyConfig(),
		carts, orderRepo, userRepo, addrRepo, storeRepo, mailer, cfg.Stripe.Currency, log)

	// HTTP layer
	middleware.SetupValidator()

	serviceName := cfg.Telemetry.ServiceName
	if serviceName == "" {
		serviceName = cfg.App.Name
	}
	engine := router.NewEngine(serviceName, log)
	engine.Use(middleware.CORS(cfg.HTTP))
	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewHealthHandler(version)).
		Register(handler.NewAuthHandler(authService)).
		Register(handler.NewAccountHandler(jwtService, userService, addressService)).
		Register(handler.NewStoreHandler(jwtService, storeService)).
		Register(handler.NewCategoryHandler(categoryService)).
		Register(handler.NewProductHandler(jwtService, productService)).
		Register(handler.NewReviewHandler(jwtService, reviewService)).
		Register(handler.NewCartHandler(jwtService, cartService)).
		Register(handler.NewCheckoutHandler(jwtService, checkoutService)).
		Register(handler.NewOrderHandler(jwtService, orderService)).
		Register(handler.NewStripeWebhookHandler(webhookService))
	if cfg.Integration.Enabled {
		r.Register(handler.NewIntegrationHandler(
			cfg.Integration, userRepo, storeService, categoryService, productService))
	}
	r.Setup()

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}

	log.Info("Server stopped")
}
