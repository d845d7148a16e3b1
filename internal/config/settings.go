package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Settings are the process-level values read from the environment at startup.
type Settings struct {
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	Addr             string
	AppConfigPath    string
	LogMode          string
	RedisAddr        string
	SessionTTL       time.Duration
	CORSOrigins      []string
	UnidocLicenseKey string
	RateLimitPerHour int
}

// LoadSettings reads Settings from the environment. OPENAI_API_KEY is required.
func LoadSettings() (Settings, error) {
	s := Settings{
		OpenAIAPIKey:     strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIBaseURL:    strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")),
		Addr:             envString("ADDR", ":8080"),
		AppConfigPath:    envString("APP_CONFIG_PATH", "config/app_config.json"),
		LogMode:          envString("LOG_MODE", "development"),
		RedisAddr:        strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		SessionTTL:       time.Duration(envInt("SESSION_TTL_MINUTES", 720)) * time.Minute,
		UnidocLicenseKey: strings.TrimSpace(os.Getenv("UNIDOC_LICENSE_API_KEY")),
		RateLimitPerHour: envInt("RATE_LIMIT_PER_HOUR", 30),
	}
	for _, origin := range strings.Split(os.Getenv("CORS_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			s.CORSOrigins = append(s.CORSOrigins, origin)
		}
	}
	if s.OpenAIAPIKey == "" {
		return s, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	return s, nil
}

func envString(name, def string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return def
}

func envInt(name string, def int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil || i <= 0 {
		return def
	}
	return i
}
