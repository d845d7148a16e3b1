package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"event-planner/backend/internal/features/config/domain"
)

// AppConfigService defines the interface for application configuration management.
type AppConfigService interface {
	LoadAppConfig() (*domain.AppConfig, error)
	SaveAppConfig(config *domain.AppConfig) error
}

// appConfigService is the implementation of AppConfigService.
type appConfigService struct {
	configPath string
}

// NewAppConfigService creates a new instance of appConfigService.
func NewAppConfigService(configPath string) AppConfigService {
	return &appConfigService{configPath: configPath}
}

// LoadAppConfig loads the application configuration from the configured JSON file.
// A missing file yields the defaults.
func (s *appConfigService) LoadAppConfig() (*domain.AppConfig, error) {
	absPath, err := filepath.Abs(s.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for %s: %w", s.configPath, err)
	}

	data, err := os.ReadFile(absPath)
	if errors.Is(err, fs.ErrNotExist) {
		appConfig := domain.DefaultAppConfig()
		return &appConfig, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read app config file %s: %w", absPath, err)
	}

	var appConfig domain.AppConfig
	if err := json.Unmarshal(data, &appConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal app config from %s: %w", absPath, err)
	}
	appConfig = appConfig.WithDefaults()
	if err := validate(&appConfig); err != nil {
		return nil, fmt.Errorf("invalid app config %s: %w", absPath, err)
	}
	return &appConfig, nil
}

// SaveAppConfig saves the application configuration to the configured JSON file.
func (s *appConfigService) SaveAppConfig(appConfig *domain.AppConfig) error {
	if err := validate(appConfig); err != nil {
		return err
	}

	absPath, err := filepath.Abs(s.configPath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for %s: %w", s.configPath, err)
	}

	data, err := json.MarshalIndent(appConfig, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal app config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory for %s: %w", absPath, err)
	}
	if err := os.WriteFile(absPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write app config to file %s: %w", absPath, err)
	}

	return nil
}

func validate(c *domain.AppConfig) error {
	switch c.Catalog.Strategy {
	case domain.StrategyBrandMatch, domain.StrategyFixedSample:
	default:
		return fmt.Errorf("unknown catalog strategy %q", c.Catalog.Strategy)
	}
	if c.ModelParams.Temperature < 0 || c.ModelParams.Temperature > 1 {
		return fmt.Errorf("temperature %.2f out of range [0,1]", c.ModelParams.Temperature)
	}
	if c.ModelParams.MaxTokens != 0 && (c.ModelParams.MaxTokens < 100 || c.ModelParams.MaxTokens > 800) {
		return fmt.Errorf("max_tokens %d out of range [100,800]", c.ModelParams.MaxTokens)
	}
	return nil
}
