package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"food-compare/internal/api"
	"food-compare/internal/core/ai"
	"food-compare/internal/core/ai/openrouter"
	"food-compare/internal/core/ai/provider"
	"food-compare/internal/core/ai/queue"
	"food-compare/internal/core/ai/service"
	"food-compare/internal/core/cache"
	"food-compare/internal/core/catalog"
	"food-compare/internal/core/food"
	"food-compare/internal/core/usda"
	"food-compare/internal/infrastructure/config"
	"food-compare/internal/infrastructure/database"
	"food-compare/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.Bool("database", cfg.Database.Enabled),
		zap.Bool("usda", cfg.USDA.Enabled),
		zap.String("usda_key", config.MaskAPIKey(cfg.USDA.APIKey)),
		zap.Bool("openrouter", cfg.OpenRouter.Enabled),
		zap.String("openrouter_model", cfg.OpenRouter.Model),
	)

	ctx := context.Background()

	// 食物目錄
	store, closeStore, err := openCatalog(ctx, cfg)
	if err != nil {
		common.LogFatal("Failed to open catalog", zap.Error(err))
	}
	defer closeStore()

	// 初始化快取，redis 不可用時退回記憶體快取
	cacheStore, err := cache.New(ctx, cfg.Cache)
	if err != nil {
		common.LogWarn("快取初始化失敗，改用記憶體快取", zap.Error(err))
		cacheStore = cache.NewManager(cfg.Cache)
	}
	if cacheStore != nil {
		defer cacheStore.Close()
	}

	// 外部營養資料庫
	var external food.ExternalSource
	if cfg.USDA.Enabled {
		external = usda.NewCachedSource(usda.NewClient(cfg.USDA), cacheStore, cfg.Cache.TTL)
	}
	resolver := food.NewResolver(store, external, usda.NewNutrientMapper(), cfg.USDA.Timeout)

	deps := api.Dependencies{
		Catalog:  store,
		Resolver: resolver,
		Comparer: ai.NewComparer(nil),
	}

	// AI 服務
	if cfg.OpenRouter.Enabled {
		aiProvider := openrouter.NewClient(provider.Config{
			APIKey:      cfg.OpenRouter.APIKey,
			Model:       cfg.OpenRouter.Model,
			BaseURL:     cfg.OpenRouter.BaseURL,
			Timeout:     cfg.OpenRouter.Timeout,
			MaxRetries:  1,
			MaxTokens:   cfg.OpenRouter.MaxTokens,
			Temperature: cfg.OpenRouter.Temperature,
		})
		defer aiProvider.Close()

		aiQueue := queue.NewManager(cfg.Queue)
		aiQueue.Start(aiProvider)
		defer aiQueue.Close()

		aiService := service.NewService(cfg, aiProvider, aiQueue, cacheStore)
		deps.Estimator = ai.NewEstimator(aiService)
		deps.Comparer = ai.NewComparer(aiService)
		deps.AIStatus = aiService.Status
	}

	// 設置路由
	router, err := api.SetupRouter(cfg, deps)
	if err != nil {
		common.LogFatal("Failed to setup router", zap.Error(err))
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
	}

	common.LogInfo("Server exited")
}

// openCatalog 依設定開啟 Postgres 目錄或記憶體目錄
func openCatalog(ctx context.Context, cfg *config.Config) (catalog.Store, func(), error) {
	if !cfg.Database.Enabled {
		common.LogWarn("Database disabled, using in-memory catalog")
		return catalog.NewMemoryStore(), func() {}, nil
	}

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	repo := catalog.NewRepository(db)
	if cfg.Database.AutoMigrate {
		if err := repo.Migrate(ctx); err != nil {
			database.Close(db)
			return nil, nil, fmt.Errorf("failed to migrate catalog: %w", err)
		}
	}

	return repo, func() { database.Close(db) }, nil
}
