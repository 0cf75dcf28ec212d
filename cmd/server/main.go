package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shelterfund/internal/config"
	"shelterfund/internal/handlers"
	"shelterfund/internal/jobs"
	"shelterfund/internal/middleware"
	"shelterfund/internal/repositories/interfaces"
	"shelterfund/internal/repositories/memory"
	"shelterfund/internal/repositories/mongodb"
	"shelterfund/internal/services"
	"shelterfund/pkg/cache"
	"shelterfund/pkg/database"
	"shelterfund/pkg/logger"
	"shelterfund/pkg/metrics"
	"shelterfund/pkg/push"
	"shelterfund/pkg/storage"
	"shelterfund/pkg/websocket"
	"shelterfund/routes"

	"github.com/gin-gonic/gin"
)

// repositories is the set of stores the services are built on, backed by
// either MongoDB or the in-memory driver.
type repositories struct {
	users      interfaces.UserRepository
	shelters   interfaces.ShelterRepository
	animals    interfaces.AnimalRepository
	donations  interfaces.DonationRepository
	prices     interfaces.DonationItemPriceRepository
	adoptions  interfaces.AdoptionRepository
	ledger     interfaces.WalletTransactionRepository
	tx         interfaces.TxManager
	checks     map[string]handlers.Pinger
	closeFuncs []func() error
}

func (r *repositories) close() {
	for i := len(r.closeFuncs) - 1; i >= 0; i-- {
		_ = r.closeFuncs[i]()
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:      logger.LogLevel(cfg.App.LogLevel),
		Format:     cfg.App.LogFormat,
		Output:     "stdout",
		TimeFormat: time.RFC3339,
		Colors:     cfg.App.Debug,
		AppName:    cfg.App.Name,
		Version:    cfg.App.Version,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	if err := run(cfg, appLogger); err != nil {
		appLogger.WithError(err).Fatal("Server exited with error")
	}
}

func run(cfg *config.Config, appLogger *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := buildRepositories(ctx, cfg, appLogger)
	if err != nil {
		return err
	}
	defer repos.close()

	fileStorage, err := storage.New(ctx, storage.Options{
		Provider:           cfg.Storage.Provider,
		LocalPath:          cfg.Storage.Local.BasePath,
		LocalURL:           cfg.Storage.Local.BaseURL,
		S3Region:           cfg.Storage.AWS.Region,
		S3Bucket:           cfg.Storage.AWS.Bucket,
		S3CDNDomain:        cfg.Storage.AWS.CDNDomain,
		GCSBucket:          cfg.Storage.GCP.Bucket,
		GCSCredentialsFile: cfg.Storage.GCP.CredentialsFile,
		GCSCDNDomain:       cfg.Storage.GCP.CDNDomain,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer fileStorage.Close()

	pushProvider := buildPushProvider(ctx, cfg.Push, appLogger)

	hub := websocket.NewHub(appLogger.WithField("component", "websocket"))
	go hub.Run(ctx)

	notifier := services.NewNotificationService(repos.users, pushProvider, hub, appLogger)
	sessions := services.NewSessionRegistry(repos.users, notifier)
	authService := services.NewAuthService(repos.users, cfg.Security.JWTSecret, cfg.Security.JWTAccessTokenTTL, appLogger)
	adoptionService := services.NewAdoptionService(repos.animals, repos.adoptions, notifier, appLogger)
	shelterService := services.NewShelterService(repos.shelters, repos.animals, adoptionService, cfg.Donation.BrowseLimit, appLogger)
	donationService := services.NewDonationService(repos.users, repos.animals, repos.shelters, repos.donations,
		repos.prices, repos.ledger, repos.tx, notifier, cfg.Donation, appLogger)
	walletService := services.NewWalletService(repos.users, repos.ledger, repos.tx, notifier, cfg.Donation, appLogger)
	profileService := services.NewProfileService(repos.users, repos.donations, repos.adoptions, fileStorage, sessions, cfg.Storage, appLogger)

	scheduler := jobs.NewScheduler(walletService, cfg.Jobs, appLogger)
	if err := scheduler.Start(); err != nil {
		return err
	}
	defer func() { <-scheduler.Stop().Done() }()

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
		return fmt.Errorf("invalid trusted proxies: %w", err)
	}

	router.Use(middleware.RecoveryMiddleware(appLogger))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(appLogger))
	router.Use(middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins))
	router.Use(metrics.GinMiddleware())

	if local, ok := fileStorage.(*storage.LocalStorage); ok {
		router.Static(uploadsPath(cfg.Storage.Local.BaseURL), local.BasePath())
	}

	routes.SetupRoutes(router, &routes.Handlers{
		Health:   handlers.NewHealthHandler(cfg.App.Version, repos.checks),
		Auth:     handlers.NewAuthHandler(authService, sessions, appLogger),
		Shelter:  handlers.NewShelterHandler(shelterService, appLogger),
		Donation: handlers.NewDonationHandler(donationService, adoptionService, appLogger),
		Wallet:   handlers.NewWalletHandler(walletService, appLogger),
		Profile:  handlers.NewProfileHandler(profileService, cfg.Storage.MaxImageSize, appLogger),
		WebSocket: websocket.NewHandler(hub, websocket.Options{
			ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
			WriteBufferSize: cfg.WebSocket.WriteBufferSize,
			PingInterval:    cfg.WebSocket.PingInterval,
			PongTimeout:     cfg.WebSocket.PongTimeout,
			AllowedOrigins:  cfg.WebSocket.AllowedOrigins,
		}, appLogger),
		WebSocketPath: cfg.WebSocket.Path,
	}, authService)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		appLogger.WithFields(map[string]interface{}{
			"port":   cfg.App.Port,
			"driver": cfg.Database.Driver,
		}).Info("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	appLogger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func buildRepositories(ctx context.Context, cfg *config.Config, appLogger *logger.Logger) (*repositories, error) {
	if cfg.Database.Driver == config.DatabaseDriverMemory {
		appLogger.Warn("Using the in-memory store; data is lost on restart")
		store := memory.NewStore()
		return &repositories{
			users:     store.Users(),
			shelters:  store.Shelters(),
			animals:   store.Animals(),
			donations: store.Donations(),
			prices:    store.ItemPrices(),
			adoptions: store.Adoptions(),
			ledger:    store.WalletTransactions(),
			tx:        store,
			checks:    map[string]handlers.Pinger{},
		}, nil
	}

	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	repos := &repositories{
		checks:     map[string]handlers.Pinger{"mongodb": db},
		closeFuncs: []func() error{db.Close},
	}

	if cfg.Database.RunMigrations {
		if err := database.NewMigrator(db.Database, appLogger).Up(ctx); err != nil {
			repos.close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	var repoCache mongodb.CacheService
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			// Browsing works without the cache, only slower.
			appLogger.WithError(err).Warn("Redis unavailable, running without cache")
		} else {
			repoCache = services.NewCacheService(redisCache, cfg.Redis.KeyPrefix, cfg.Redis.DefaultTTL, appLogger)
			repos.checks["redis"] = redisCache
			repos.closeFuncs = append(repos.closeFuncs, redisCache.Close)
		}
	}

	repos.users = mongodb.NewUserRepository(db.Database)
	repos.shelters = mongodb.NewShelterRepository(db.Database, repoCache)
	repos.animals = mongodb.NewAnimalRepository(db.Database, repoCache)
	repos.donations = mongodb.NewDonationRepository(db.Database)
	repos.prices = mongodb.NewDonationItemPriceRepository(db.Database, repoCache)
	repos.adoptions = mongodb.NewAdoptionRepository(db.Database)
	repos.ledger = mongodb.NewWalletTransactionRepository(db.Database)
	repos.tx = mongodb.NewTxManager(db)

	return repos, nil
}

func buildPushProvider(ctx context.Context, cfg *config.PushConfig, appLogger *logger.Logger) push.PushProvider {
	if !cfg.Enabled || cfg.FCM.Credentials == "" {
		return push.NoopProvider{}
	}

	provider, err := push.NewFCMProvider(ctx, cfg.FCM.ProjectID, cfg.FCM.Credentials)
	if err != nil {
		appLogger.WithError(err).Warn("FCM unavailable, push notifications disabled")
		return push.NoopProvider{}
	}
	return provider
}

// uploadsPath is the URL path under which local uploads are served.
func uploadsPath(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Path == "" || u.Path == "/" {
		return "/uploads"
	}
	return u.Path
}
