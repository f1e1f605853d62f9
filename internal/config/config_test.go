package config_test

import (
	"path/filepath"
	"testing"

	"github.com/Flaque/filet"
	"github.com/UnknownOlympus/geoheight/internal/config"
	"github.com/stretchr/testify/assert"
)

func Test_MustLoadFromEnv(t *testing.T) {
	t.Setenv("GEOHEIGHT_ENV", "local")
	t.Setenv("GEOHEIGHT_GRID_KIND", "mesh")
	t.Setenv("GEOHEIGHT_GRID_PATH", "/data/dem.xml")
	t.Setenv("GEOHEIGHT_PROVIDER_TYPE", "google")
	t.Setenv("GEOHEIGHT_PROVIDER_API_KEY", "testAPIKey")
	t.Setenv("GEOHEIGHT_POSTGRES_HOST", "testHost")
	t.Setenv("GEOHEIGHT_POSTGRES_PORT", "12345")
	t.Setenv("GEOHEIGHT_POSTGRES_USER", "admin")
	t.Setenv("GEOHEIGHT_POSTGRES_PASSWORD", "adminpass")
	t.Setenv("GEOHEIGHT_POSTGRES_DB_NAME", "testName")

	cfg := config.MustLoad()

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, config.GridMesh, cfg.Grid.Kind)
	assert.Equal(t, "/data/dem.xml", cfg.Grid.Path)
	assert.Equal(t, "google", cfg.Provider.Type)
	assert.Equal(t, "testAPIKey", cfg.Provider.APIKey)
	assert.Equal(t, 1, cfg.Provider.RateLimit)
	assert.Equal(t, "testHost", cfg.Database.Host)
	assert.Equal(t, "12345", cfg.Database.Port)
	assert.Equal(t, "admin", cfg.Database.User)
	assert.Equal(t, "adminpass", cfg.Database.Password)
	assert.Equal(t, "testName", cfg.Database.Name)
}

func TestMustLoad_Defaults(t *testing.T) {
	cfg := config.MustLoad()

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, config.GridGeoid, cfg.Grid.Kind)
	assert.Equal(t, "gsigeo2011_ver2_1.asc", cfg.Grid.Path)
	assert.Empty(t, cfg.Provider.Type)
	assert.Equal(t, "5432", cfg.Database.Port)
}

func TestMustLoad_FromFile(t *testing.T) {
	defer filet.CleanUp(t)
	path := filepath.Join(filet.TmpDir(t, ""), "geoheight.yaml")
	filet.File(t, path, "port: 9090\ngrid:\n  kind: mesh\n  path: dem.xml\nprovider:\n  rate_limit: 3\n")
	t.Setenv("GEOHEIGHT_CONFIG", path)
	t.Setenv("GEOHEIGHT_GRID_PATH", "override.xml")

	cfg := config.MustLoad()

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, config.GridMesh, cfg.Grid.Kind)
	assert.Equal(t, "override.xml", cfg.Grid.Path)
	assert.Equal(t, 3, cfg.Provider.RateLimit)
}

func TestMustLoad_PortError(t *testing.T) {
	t.Setenv("GEOHEIGHT_PORT", "error_value")

	assert.PanicsWithValue(t, "failed to parse port for api server from configuration", func() {
		config.MustLoad()
	})
}

func TestMustLoad_RateLimitError(t *testing.T) {
	t.Setenv("GEOHEIGHT_PROVIDER_RATE_LIMIT", "0")

	assert.PanicsWithValue(t,
		"failed to parse provider rate limit from configuration, must be a positive integer", func() {
			config.MustLoad()
		})
}

func TestMustLoad_GridKindError(t *testing.T) {
	t.Setenv("GEOHEIGHT_GRID_KIND", "raster")

	assert.PanicsWithValue(t, "unknown grid kind in configuration, must be geoid or mesh", func() {
		config.MustLoad()
	})
}

func TestMustLoad_MissingFile(t *testing.T) {
	t.Setenv("GEOHEIGHT_CONFIG", "/nonexistent/geoheight.yaml")

	assert.PanicsWithValue(t, "failed to read configuration file /nonexistent/geoheight.yaml", func() {
		config.MustLoad()
	})
}
