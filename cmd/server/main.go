package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"layer-backend/config"
	"layer-backend/handlers"
	"layer-backend/logging"
	"layer-backend/metrics"
	"layer-backend/migrate"
	"layer-backend/repository"
	"layer-backend/service"
	"layer-backend/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const devJWTSecret = "layer-dev-secret"

// stores groups the repositories the services are built from
type stores struct {
	users   repository.UserRepository
	items   repository.ItemRepository
	outfits repository.OutfitRepository
	folders repository.FolderRepository
	planner repository.PlannerRepository
	close   func()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

// run wires the stores and services and serves until a signal arrives
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := initStores(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer st.close()

	feed, closeFeed, err := initFeed(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize community feed: %w", err)
	}
	defer closeFeed()

	images, err := storage.NewStorage(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("storage initialized", zap.String("type", cfg.Storage.Type))

	var completer service.Completer
	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, stylist calls will return fallbacks")
	} else {
		gemini, err := service.NewGeminiCompleter(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return fmt.Errorf("failed to initialize Gemini: %w", err)
		}
		defer gemini.Close()
		completer = gemini
		logger.Info("Gemini client initialized", zap.String("model", cfg.GeminiModel))
	}

	secret := cfg.JWTSecret
	if secret == "" {
		logger.Warn("JWT_SECRET not set, using the development secret")
		secret = devJWTSecret
	}

	collector := metrics.NewCollector("layer")
	generator := service.NewGenerationClient(completer,
		service.WithGenerationTimeout(cfg.GenerationTimeout),
		service.WithGenerationLogger(logger.Named("generation")),
		service.WithGenerationMetrics(collector),
	)

	// Initialize services
	authService := service.NewAuthService(
		service.AuthWithUserRepository(st.users),
		service.AuthWithSecret(secret),
		service.AuthWithTokenTTL(cfg.TokenTTL),
		service.AuthWithLogger(logger.Named("auth")),
	)
	oauthService := service.NewOAuthService(
		service.OAuthWithCredentials(cfg.GoogleClientID, cfg.GoogleClientSecret),
		service.OAuthWithAuthService(authService),
		service.OAuthWithLogger(logger.Named("oauth")),
	)
	communityService := service.NewCommunityService(
		service.CommunityWithRepository(feed),
		service.CommunityWithLogger(logger.Named("community")),
		service.CommunityWithMetrics(collector),
	)
	outfitService := service.NewOutfitService(
		service.OutfitWithOutfitRepository(st.outfits),
		service.OutfitWithFolderRepository(st.folders),
		service.OutfitWithItemRepository(st.items),
		service.OutfitWithCommunityService(communityService),
		service.OutfitWithLogger(logger.Named("outfits")),
		service.OutfitWithMetrics(collector),
	)

	router := handlers.NewRouter(handlers.Services{
		Auth:  authService,
		OAuth: oauthService,
		Wardrobe: service.NewWardrobeService(
			service.WardrobeWithItemRepository(st.items),
			service.WardrobeWithStorage(images),
			service.WardrobeWithGenerationClient(generator),
			service.WardrobeWithLogger(logger.Named("wardrobe")),
		),
		Stylist: service.NewStylistService(
			service.StylistWithItemRepository(st.items),
			service.StylistWithUserRepository(st.users),
			service.StylistWithCommunityService(communityService),
			service.StylistWithGenerationClient(generator),
			service.StylistWithLogger(logger.Named("stylist")),
			service.StylistWithMetrics(collector),
		),
		Outfits: outfitService,
		Planner: service.NewPlannerService(
			service.PlannerWithPlannerRepository(st.planner),
			service.PlannerWithItemRepository(st.items),
			service.PlannerWithOutfitRepository(st.outfits),
			service.PlannerWithOutfitService(outfitService),
			service.PlannerWithGenerationClient(generator),
			service.PlannerWithLogger(logger.Named("planner")),
			service.PlannerWithMetrics(collector),
		),
		Community: communityService,
	}, handlers.RouterConfig{
		Logger:        logger.Named("http"),
		Metrics:       collector,
		CORSOrigins:   cfg.CORSOrigins,
		MaxImageBytes: cfg.MaxImageBytes,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	}

	logger.Info("shutdown complete")
	return nil
}

func initStores(ctx context.Context, cfg config.Config, logger *zap.Logger) (*stores, error) {
	if cfg.StoreBackend == config.BackendMemory {
		logger.Warn("using the in-memory store, data is lost on restart")
		mem := repository.NewMemoryStore()
		return &stores{
			users:   mem.Users(),
			items:   mem.Items(),
			outfits: mem.Outfits(),
			folders: mem.Folders(),
			planner: mem.Planner(),
			close:   func() {},
		}, nil
	}

	if cfg.AutoMigrate {
		if err := migrate.Up(ctx, cfg.DatabaseURL); err != nil {
			return nil, err
		}
		logger.Info("migrations applied")
	}

	db, err := repository.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	logger.Info("Postgres connection established")

	return &stores{
		users:   repository.NewPgUserRepository(db),
		items:   repository.NewPgItemRepository(db),
		outfits: repository.NewPgOutfitRepository(db),
		folders: repository.NewPgFolderRepository(db),
		planner: repository.NewPgPlannerRepository(db),
		close:   db.Close,
	}, nil
}

func initFeed(ctx context.Context, cfg config.Config, logger *zap.Logger) (repository.CommunityRepository, func(), error) {
	seed := repository.SeedPosts(time.Now())
	if cfg.FeedBackend == config.BackendMemory {
		return repository.NewMemoryCommunityRepository(seed), func() {}, nil
	}

	client, err := repository.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		return nil, nil, err
	}
	disconnect := func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Warn("mongo disconnect failed", zap.Error(err))
		}
	}

	repo := repository.NewMongoCommunityRepository(client.Database(cfg.MongoDatabase))
	seeded, err := repo.EnsureSeeded(ctx, seed)
	if err != nil {
		disconnect()
		return nil, nil, err
	}
	if seeded {
		logger.Info("community feed seeded", zap.Int("posts", len(seed)))
	}
	return repo, disconnect, nil
}
