package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/trendpress/trendpress/internal/config"
	"github.com/trendpress/trendpress/internal/tokens"
)

func testConfig() *config.Config {
	return &config.Config{
		Store:     config.StoreConfig{Backend: "memory"},
		Scraper:   config.ScraperConfig{URL: "https://trends24.in/india/", Selector: ".trend-link"},
		Generator: config.GeneratorConfig{Provider: "gemini", GeminiModel: "gemini-1.5-flash"},
		Refresh:   config.RefreshConfig{Cap: 2, Delay: time.Second},
	}
}

func TestBuild_MemoryBackend(t *testing.T) {
	a, err := Build(context.Background(), testConfig())
	require.NoError(t, err)
	defer a.Close(context.Background())

	require.NotNil(t, a.Refresher)
	require.NotNil(t, a.Runs)
	require.Nil(t, a.Verifier)
	require.Nil(t, a.Redis)

	ready, deps := a.Ready(context.Background())
	require.True(t, ready)
	require.Equal(t, map[string]bool{"store": true}, deps)
}

func TestBuild_MongoBackendNeedsURI(t *testing.T) {
	cfg := testConfig()
	cfg.Store.Backend = "mongo"
	_, err := Build(context.Background(), cfg)
	var cerr *config.ConfigurationError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, "MONGODB_URI", cerr.Key)
}

func TestBuild_MongoBackendDoesNotConnectEagerly(t *testing.T) {
	cfg := testConfig()
	cfg.Store.Backend = "mongo"
	cfg.MongoDB = config.MongoDBConfig{URI: "mongodb://127.0.0.1:1", Database: "trendpress", Collection: "articles", Timeout: 200 * time.Millisecond}

	a, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close(context.Background())

	ready, deps := a.Ready(context.Background())
	require.False(t, ready)
	require.False(t, deps["store"])
}

func TestBuild_Redis(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	cfg := testConfig()
	cfg.Redis = config.RedisConfig{Host: m.Host(), Port: m.Port()}
	a, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close(context.Background())

	require.NotNil(t, a.Redis)
	ready, deps := a.Ready(context.Background())
	require.True(t, ready)
	require.True(t, deps["redis"])
}

func TestBuild_UnreachableRedisIsOptional(t *testing.T) {
	cfg := testConfig()
	cfg.Redis = config.RedisConfig{Host: "127.0.0.1", Port: "1"}
	a, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close(context.Background())

	require.Nil(t, a.Redis)
	ready, deps := a.Ready(context.Background())
	require.False(t, ready)
	require.False(t, deps["redis"])
}

func TestBuild_HMACVerifier(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.JWTSecret = "operator-secret-32-bytes-xxxxxxxx"
	a, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, a.Verifier)

	raw, err := tokens.GenerateOperatorToken(cfg.Auth.JWTSecret, "cron", time.Minute)
	require.NoError(t, err)
	_, err = a.Verifier.Verify(context.Background(), raw)
	require.NoError(t, err)
}

func TestBuild_OIDCDiscoveryFailureIsOptional(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	cfg := testConfig()
	cfg.Auth.OIDCIssuer = srv.URL
	cfg.Auth.OIDCClientID = "trendpress"
	a, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	require.Nil(t, a.Verifier)
}

func TestUnavailableModel(t *testing.T) {
	m, err := newModel(context.Background(), config.GeneratorConfig{Provider: "gemini"})
	require.NoError(t, err)
	_, err = m.Generate(context.Background(), "prompt")
	require.ErrorContains(t, err, "GEMINI_API_KEY")
}
