package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017/testdb")
	t.Setenv("MONGODB_DATABASE", "trendpress_test")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("REDIS_PORT", "6379")
	t.Setenv("REFRESH_CAP", "5")
	t.Setenv("REFRESH_DELAY", "1500ms")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "mongodb://localhost:27017/testdb", cfg.MongoDB.URI)
	require.Equal(t, "trendpress_test", cfg.MongoDB.Database)
	require.Equal(t, "articles", cfg.MongoDB.Collection)
	require.Equal(t, "localhost:6379", cfg.RedisAddr())
	require.Equal(t, 5, cfg.Refresh.Cap)
	require.Equal(t, 1500*time.Millisecond, cfg.Refresh.Delay)
	require.Equal(t, ".trend-link", cfg.Scraper.Selector)
	require.Equal(t, "gemini", cfg.Generator.Provider)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, 2, cfg.Refresh.Cap)
	require.Equal(t, 2*time.Second, cfg.Refresh.Delay)
	require.Equal(t, 10*time.Second, cfg.MongoDB.Timeout)
	require.Equal(t, "", cfg.RedisAddr())
}

func TestLoadConfig_PortOverride(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("SERVER_PORT", "5001")
	t.Setenv("PORT", "9090")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Server.Port)
}

func TestLoadConfig_MissingMongoURI(t *testing.T) {
	t.Setenv("MONGODB_URI", "")

	cfg, err := LoadConfig()
	require.Nil(t, cfg)
	var cerr *ConfigurationError
	require.True(t, errors.As(err, &cerr), "expected ConfigurationError, got %v", err)
	require.Equal(t, "MONGODB_URI", cerr.Key)
}

func TestLoadConfig_MemoryBackendNeedsNoURI(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("STORE_BACKEND", "memory")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "memory", cfg.Store.Backend)
}

func TestValidate_RejectsUnknownProvider(t *testing.T) {
	cfg := &Config{
		MongoDB:   MongoDBConfig{URI: "mongodb://x"},
		Store:     StoreConfig{Backend: "mongo"},
		Generator: GeneratorConfig{Provider: "gpt"},
		Scraper:   ScraperConfig{URL: "https://example.com", Selector: "a"},
	}
	err := cfg.Validate()
	var cerr *ConfigurationError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, "GENERATOR_PROVIDER", cerr.Key)

	cfg.Generator.Provider = "ollama"
	cfg.Refresh.Cap = -1
	require.ErrorAs(t, cfg.Validate(), &cerr)
	require.Equal(t, "REFRESH_CAP", cerr.Key)
}

func TestLoadConfig_UnitlessDurationRejected(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("REFRESH_DELAY", "2000")

	cfg, err := LoadConfig()
	require.Nil(t, cfg)
	var cerr *ConfigurationError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, "REFRESH_DELAY", cerr.Key)
	require.Contains(t, cerr.Reason, "2000ms")
}

func TestValidate_SubMillisecondDurations(t *testing.T) {
	base := func() *Config {
		return &Config{
			MongoDB:   MongoDBConfig{URI: "mongodb://x"},
			Store:     StoreConfig{Backend: "mongo"},
			Generator: GeneratorConfig{Provider: "gemini"},
			Scraper:   ScraperConfig{URL: "https://example.com", Selector: "a"},
		}
	}
	require.NoError(t, base().Validate(), "zero durations disable the setting")

	cfg := base()
	cfg.Refresh.Delay = time.Millisecond
	require.NoError(t, cfg.Validate())

	cfg = base()
	cfg.Scraper.Settle = 500 * time.Microsecond
	var cerr *ConfigurationError
	require.ErrorAs(t, cfg.Validate(), &cerr)
	require.Equal(t, "SCRAPER_SETTLE", cerr.Key)

	cfg = base()
	cfg.Generator.Timeout = 120
	require.ErrorAs(t, cfg.Validate(), &cerr)
	require.Equal(t, "GENERATOR_TIMEOUT", cerr.Key)
}
