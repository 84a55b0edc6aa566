package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://staging.runway.org.in/api", cfg.Runway.BaseURL)
	assert.Equal(t, "https://runway.org.in", cfg.Runway.SiteURL)
	assert.Empty(t, cfg.Runway.Token)
	assert.Equal(t, 30, cfg.Runway.TimeoutSecs)
	assert.Equal(t, 1, cfg.Runway.MaxAttempts)
	assert.InDelta(t, 5.0, cfg.Runway.RateLimit, 0.001)
	assert.Equal(t, 5, cfg.Runway.BreakerThreshold)
	assert.Equal(t, 30, cfg.Runway.BreakerResetSecs)
	assert.Equal(t, 10, cfg.Browse.PageSize)
	assert.Equal(t, 50, cfg.Browse.StoredLimit)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "tenders.db", cfg.Store.DatabaseURL)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
runway:
  base_url: http://localhost:9000/api
  max_attempts: 3
browse:
  page_size: 25
store:
  driver: postgres
  database_url: postgres://localhost/tenders
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/api", cfg.Runway.BaseURL)
	assert.Equal(t, 3, cfg.Runway.MaxAttempts)
	assert.Equal(t, 25, cfg.Browse.PageSize)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Defaults still apply for unset values
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30, cfg.Runway.TimeoutSecs)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("TENDER_STORE_DRIVER", "postgres")
	t.Setenv("TENDER_LOG_LEVEL", "warn")
	t.Setenv("TENDER_RUNWAY_TOKEN", "abc123")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "abc123", cfg.Runway.Token)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("runway: [unclosed"), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Runway.BaseURL = "https://staging.runway.org.in/api"
	cfg.Runway.MaxAttempts = 1
	cfg.Browse.PageSize = 10
	cfg.Store.Driver = "sqlite"
	cfg.Store.DatabaseURL = "tenders.db"
	cfg.Server.Port = 8080
	return cfg
}

func TestValidateServe_Valid(t *testing.T) {
	assert.NoError(t, validDefaults().Validate("serve"))
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateAPI_PageSizeBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Browse.PageSize = 0
	err := cfg.Validate("api")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "page_size must be between 1 and 100")

	cfg.Browse.PageSize = 101
	assert.Error(t, cfg.Validate("api"))

	cfg.Browse.PageSize = 100
	assert.NoError(t, cfg.Validate("api"))
}

func TestValidateAPI_IgnoresStore(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.Driver = "mongo"

	assert.NoError(t, cfg.Validate("api"))
}

func TestValidateStore_Driver(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.Driver = "mongo"
	cfg.Store.DatabaseURL = ""

	err := cfg.Validate("store")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "store.driver must be sqlite or postgres")
	assert.Contains(t, err.Error(), "store.database_url is required")
}

func TestValidateUnknownMode(t *testing.T) {
	err := validDefaults().Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}
