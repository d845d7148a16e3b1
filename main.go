package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"event-planner/backend/internal/config"
	cataloginfra "event-planner/backend/internal/features/catalog/infrastructure"
	configdomain "event-planner/backend/internal/features/config/domain"
	config_http "event-planner/backend/internal/features/config/presentation/http"
	"event-planner/backend/internal/features/planner/application"
	"event-planner/backend/internal/features/planner/infrastructure"
	planner_http "event-planner/backend/internal/features/planner/presentation/http"
	"event-planner/backend/internal/platform/logger"
	"event-planner/backend/internal/platform/middleware"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	settings, err := config.LoadSettings()
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}

	appLog, err := logger.New(settings.LogMode)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLog.Sync()

	licensed := false
	if settings.UnidocLicenseKey != "" {
		if err := infrastructure.SetLicenseKey(settings.UnidocLicenseKey); err != nil {
			appLog.Warn("Failed to set unidoc license, falling back to godocx", "error", err)
		} else {
			licensed = true
		}
	}
	appLog.Info("Document renderer selected", "unioffice", licensed)

	appConfigService := config.NewAppConfigService(settings.AppConfigPath)
	appConfig, err := appConfigService.LoadAppConfig()
	if err != nil {
		appLog.Fatal("Failed to load app config", "path", settings.AppConfigPath, "error", err)
	}

	// Initialize OpenAI client
	openaiClient, err := infrastructure.NewOpenAIClient(infrastructure.OpenAIConfig{
		APIKey:  settings.OpenAIAPIKey,
		BaseURL: settings.OpenAIBaseURL,
		Model:   appConfig.ModelParams.Model,
	}, appLog)
	if err != nil {
		appLog.Fatal("Failed to create OpenAI client", "error", err)
	}

	sessions := infrastructure.NewMemorySessionStore()
	if settings.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		sessions, err = infrastructure.NewRedisSessionStore(ctx, settings.RedisAddr, settings.SessionTTL)
		cancel()
		if err != nil {
			appLog.Fatal("Failed to connect to redis", "addr", settings.RedisAddr, "error", err)
		}
		appLog.Info("Using redis session store", "addr", settings.RedisAddr)
	}

	// Initialize services
	plannerService := application.NewPlannerService(application.PlannerDeps{
		AppConfig:   appConfigService,
		Loader:      cataloginfra.NewCachedLoader(),
		Completions: openaiClient,
		Sessions:    sessions,
		Renderers: func(cfg configdomain.DocumentConfig) infrastructure.DocumentRenderer {
			return infrastructure.NewDocumentRenderer(cfg, licensed)
		},
		Log:         appLog.With("component", "planner"),
	})

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(appLog), middleware.CORS(settings.CORSOrigins))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Planner page and API routes
	limiter := middleware.NewRateLimiter(settings.RateLimitPerHour, time.Hour)
	plannerHandler := planner_http.NewPlannerHandler(plannerService, appConfigService, settings.SessionTTL, appLog)
	plannerHandler.RegisterRoutes(r, middleware.RateLimit(limiter))

	// Config API routes
	configGroup := r.Group("/api/config", middleware.LoopbackOnly())
	{
		handler := config_http.NewAppConfigHandler(appConfigService, appLog)
		configGroup.GET("/app", handler.GetAppConfigHandler)
		configGroup.POST("/app", handler.SaveAppConfigHandler)
	}

	appLog.Info("Starting event planner", "addr", settings.Addr)
	if err := r.Run(settings.Addr); err != nil {
		appLog.Fatal("Server stopped", "error", err)
	}
}
