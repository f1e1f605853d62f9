package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the height service.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - Port: The port of the HTTP API.
// - Grid: Which grid to load and from where.
// - Provider: The optional geocoding provider for address queries.
// - Database: Configuration settings for the PostgreSQL database.
type Config struct {
	Env      string         `mapstructure:"env"`      // Env is the current environment: local, development, production.
	Port     int            `mapstructure:"port"`     // Port is the HTTP API port.
	Grid     GridConfig     `mapstructure:"grid"`     // Grid selects the height source.
	Provider ProviderConfig `mapstructure:"provider"` // Provider configures address geocoding.
	Database PostgresConfig `mapstructure:"postgres"` // Database holds the postgres database configuration
}

// GridConfig names the grid file and its format.
type GridConfig struct {
	Kind string `mapstructure:"kind"` // Kind is "geoid" or "mesh".
	Path string `mapstructure:"path"` // Path is the grid file on disk.
}

// ProviderConfig configures the geocoding provider. An empty Type disables
// address queries.
type ProviderConfig struct {
	Type      string `mapstructure:"type"`
	APIKey    string `mapstructure:"api_key"`
	RateLimit int    `mapstructure:"rate_limit"` // Requests per second.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `mapstructure:"host"`     // Host is the database server address.
	Port     string `mapstructure:"port"`     // Port is the database server port.
	User     string `mapstructure:"user"`     // User is the database user.
	Password string `mapstructure:"password"` // Password is the database user's password.
	Name     string `mapstructure:"db_name"`  // Name is the name of the database.
}

// Grid kinds accepted by grid.kind.
const (
	GridGeoid = "geoid"
	GridMesh  = "mesh"
)

const envPrefix = "GEOHEIGHT"

// MustLoad reads an optional .env file, an optional YAML file named by
// GEOHEIGHT_CONFIG and the GEOHEIGHT_* environment, in increasing priority.
// It panics on values that cannot be used.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("env", "production")
	v.SetDefault("port", "8080")
	v.SetDefault("grid.kind", GridGeoid)
	v.SetDefault("grid.path", "gsigeo2011_ver2_1.asc")
	v.SetDefault("provider.type", "")
	v.SetDefault("provider.api_key", "")
	v.SetDefault("provider.rate_limit", "1")
	v.SetDefault("postgres.host", "")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.user", "")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.db_name", "")

	if path, ok := os.LookupEnv(envPrefix + "_CONFIG"); ok {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			panic("failed to read configuration file " + path)
		}
	}

	port, err := strconv.Atoi(v.GetString("port"))
	if err != nil {
		panic("failed to parse port for api server from configuration")
	}

	rateLimit, err := strconv.Atoi(v.GetString("provider.rate_limit"))
	if err != nil || rateLimit < 1 {
		panic("failed to parse provider rate limit from configuration, must be a positive integer")
	}

	kind := v.GetString("grid.kind")
	if kind != GridGeoid && kind != GridMesh {
		panic("unknown grid kind in configuration, must be geoid or mesh")
	}

	return &Config{
		Env:  v.GetString("env"),
		Port: port,
		Grid: GridConfig{
			Kind: kind,
			Path: v.GetString("grid.path"),
		},
		Provider: ProviderConfig{
			Type:      v.GetString("provider.type"),
			APIKey:    v.GetString("provider.api_key"),
			RateLimit: rateLimit,
		},
		Database: PostgresConfig{
			Host:     v.GetString("postgres.host"),
			Port:     v.GetString("postgres.port"),
			User:     v.GetString("postgres.user"),
			Password: v.GetString("postgres.password"),
			Name:     v.GetString("postgres.db_name"),
		},
	}
}
