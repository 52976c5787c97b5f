package api

import (
	"fmt"
	"time"

	"pantry-chef/internal/api/handlers/health"
	pantryHandler "pantry-chef/internal/api/handlers/pantry"
	recipeHandler "pantry-chef/internal/api/handlers/recipe"
	shareHandler "pantry-chef/internal/api/handlers/share"
	"pantry-chef/internal/api/middleware"
	"pantry-chef/internal/infrastructure/config"
	"pantry-chef/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, services *Services) (*gin.Engine, error) {
	if services == nil || services.Recipe == nil || services.Pantry == nil || services.Codec == nil {
		return nil, fmt.Errorf("services are not initialized")
	}

	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", recipeHandler.HeaderTicket, recipeHandler.HeaderStale},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))

	// 注入設定與服務供健康檢查使用
	router.Use(func(c *gin.Context) {
		c.Set(health.ConfigKey, cfg)
		c.Set(health.PantryServiceKey, services.Pantry)
		c.Next()
	})

	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	recipes := recipeHandler.NewHandler(services.Recipe)
	pantries := pantryHandler.NewHandler(services.Pantry)
	shares := shareHandler.NewHandler(services.Codec)

	// 舊版前端使用的入口
	router.POST("/api/generate", recipes.HandleGenerate)

	api := router.Group("/api/v1")
	{
		recipeGroup := api.Group("/recipe")
		{
			recipeGroup.POST("/generate", recipes.HandleGenerate)
			recipeGroup.POST("/scale", recipes.HandleScale)
			recipeGroup.GET("/latest", recipes.HandleLatest)
		}

		pantryGroup := api.Group("/pantry")
		{
			pantryGroup.GET("", pantries.HandleGet)
			pantryGroup.PUT("", pantries.HandleReplace)
			pantryGroup.PATCH("/:id", pantries.HandleSetItem)
			pantryGroup.POST("/import", pantries.HandleImport)
			pantryGroup.GET("/share", pantries.HandleShare)
		}

		shareGroup := api.Group("/share")
		{
			shareGroup.GET("/decode", shares.HandleDecode)
			shareGroup.POST("/encode", shares.HandleEncode)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("ai_enabled", cfg.LLM.Enabled()),
		zap.String("pantry_backend", cfg.Pantry.Backend),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router, nil
}
