package api

import (
	"fmt"
	"time"

	"food-compare/internal/api/handlers/admin"
	foodHandler "food-compare/internal/api/handlers/food"
	"food-compare/internal/api/handlers/health"
	"food-compare/internal/api/middleware"
	"food-compare/internal/core/catalog"
	"food-compare/internal/infrastructure/config"
	"food-compare/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Dependencies 路由所需的服務
type Dependencies struct {
	Catalog   catalog.Store
	Resolver  foodHandler.Resolver
	Estimator foodHandler.Estimator
	Comparer  foodHandler.Comparer
	AIStatus  func() map[string]interface{}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}

	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) (*gin.Engine, error) {
	if deps.Catalog == nil || deps.Resolver == nil || deps.Comparer == nil {
		return nil, fmt.Errorf("router dependencies are incomplete")
	}

	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())
	router.Use(cors.New(corsConfig(cfg.Server.AllowedOrigins)))
	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	router.Use(middleware.RequestTimeout(cfg.Server.RequestTimeout))

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg, deps.Catalog, deps.AIStatus)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	validate := validator.New()
	invalidLimiter := middleware.NewClientLimiter(cfg.InvalidFoodLimit.Attempts, cfg.InvalidFoodLimit.Window, nil)
	foods := foodHandler.NewHandler(deps.Resolver, deps.Estimator, deps.Comparer, invalidLimiter, validate)
	admins := admin.NewHandler(deps.Catalog)

	// API 路由組
	api := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(middleware.NewClientLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window, nil)))
	}
	api.Use(middleware.Deduplication(middleware.NewDeduplicator(cfg.DedupWindow, nil)))
	{
		api.POST("/food", foods.HandleFood)
		api.POST("/food/suggestions", foods.HandleSuggestions)
		api.POST("/compare", foods.HandleCompare)

		adminGroup := api.Group("/admin")
		{
			adminGroup.POST("/init-db", admins.HandleInitDB)
			adminGroup.DELETE("/foods", admins.HandleDeleteFoods)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("ai_estimator", deps.Estimator != nil),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("request_timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router, nil
}
