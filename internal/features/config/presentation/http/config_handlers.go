package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"event-planner/backend/internal/config"
	"event-planner/backend/internal/features/config/domain"
	"event-planner/backend/internal/platform/logger"
)

// AppConfigHandler exposes the planner configuration.
type AppConfigHandler struct {
	appConfigService config.AppConfigService
	log              *logger.Logger
}

// NewAppConfigHandler creates a new AppConfigHandler.
func NewAppConfigHandler(appConfigService config.AppConfigService, log *logger.Logger) *AppConfigHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AppConfigHandler{
		appConfigService: appConfigService,
		log:              log,
	}
}

// GetAppConfigHandler returns the effective configuration, defaults included.
func (h *AppConfigHandler) GetAppConfigHandler(c *gin.Context) {
	appConfig, err := h.appConfigService.LoadAppConfig()
	if err != nil {
		h.log.Error("failed to load app config", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load app config: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, appConfig)
}

// SaveAppConfigHandler replaces the configuration. Omitted fields take their
// defaults; a new catalog directory or file is loaded on the next request.
func (h *AppConfigHandler) SaveAppConfigHandler(c *gin.Context) {
	var appConfig domain.AppConfig
	if err := c.ShouldBindJSON(&appConfig); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	appConfig = appConfig.WithDefaults()

	if err := h.appConfigService.SaveAppConfig(&appConfig); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to save app config: " + err.Error()})
		return
	}

	h.log.Info("app config saved",
		"strategy", appConfig.Catalog.Strategy,
		"directory", appConfig.Catalog.Directory,
		"model", appConfig.ModelParams.Model,
	)
	c.JSON(http.StatusOK, gin.H{"message": "App config saved successfully", "config": appConfig})
}
