package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration in a structured way.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Valkey   ValkeyConfig
	Security SecurityConfig
	Cache    CacheConfig
	OMDB     OMDBConfig
	MCP      MCPConfig
}

type AppConfig struct {
	Version            string
	Port               string
	Debug              bool
	Environment        string
	BasePath           string
	CorsAllowedOrigins []string
	RateLimitPerMinute int
}

type DatabaseConfig struct {
	Driver         string
	Host           string
	Port           int
	User           string
	Password       string
	Name           string // File path for SQLite, DB Name for Postgres
	SSLMode        string
	ConnectTimeout time.Duration
	QueryTimeout   time.Duration
}

type ValkeyConfig struct {
	Enabled   bool
	Address   string
	Password  string
	DB        int
	KeyPrefix string
	OpTimeout time.Duration
}

type SecurityConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// CacheConfig holds the time-to-live of each cache-aside endpoint.
type CacheConfig struct {
	RecommendationsTTL time.Duration
	FavoriteGenreTTL   time.Duration
	TopRatedGenreTTL   time.Duration
}

type OMDBConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type MCPConfig struct {
	Port string
	Host string
}

// Global provides access to the loaded configuration for the cobra commands.
var Global *Config

const defaultSecret = "changeme_please_change_me_in_prod_12345"

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_version", "v1.0.0")
	v.SetDefault("app_port", "8000")
	v.SetDefault("app_debug", false)
	v.SetDefault("app_env", "development")
	v.SetDefault("app_base_path", "")
	v.SetDefault("app_cors_allowed_origins", "http://localhost:3000")
	v.SetDefault("app_rate_limit_per_minute", 600)

	v.SetDefault("db_driver", "postgres")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 5432)
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "movi")
	v.SetDefault("db_sslmode", "require")
	v.SetDefault("db_connect_timeout", "10s")
	v.SetDefault("db_query_timeout", "5s")

	v.SetDefault("valkey_enabled", false)
	v.SetDefault("valkey_address", "localhost:6379")
	v.SetDefault("valkey_password", "")
	v.SetDefault("valkey_db", 0)
	v.SetDefault("valkey_key_prefix", "movi")
	v.SetDefault("valkey_op_timeout", "500ms")

	v.SetDefault("jwt_secret", defaultSecret)
	v.SetDefault("jwt_ttl", "720h")

	v.SetDefault("cache_recommendations_ttl", "1h")
	v.SetDefault("cache_favorite_genre_ttl", "1h")
	v.SetDefault("cache_top_rated_genre_ttl", "6h")

	v.SetDefault("omdb_api_key", "")
	v.SetDefault("omdb_base_url", "https://www.omdbapi.com/")
	v.SetDefault("omdb_timeout", "5s")

	v.SetDefault("mcp_host", "localhost")
	v.SetDefault("mcp_port", "8080")
}

// NewViper returns a viper instance with defaults applied and environment binding enabled.
// A .env file in the working directory is loaded first when present; real environment
// variables always win over it.
func NewViper(envFiles ...string) *viper.Viper {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if fileExists(f) {
			_ = godotenv.Load(f)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig builds the Config from v (see NewViper) and stores it in Global.
func LoadConfig(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Version:            v.GetString("app_version"),
			Port:               v.GetString("app_port"),
			Debug:              v.GetBool("app_debug"),
			Environment:        v.GetString("app_env"),
			BasePath:           strings.TrimSuffix(v.GetString("app_base_path"), "/"),
			CorsAllowedOrigins: splitList(v.GetString("app_cors_allowed_origins")),
			RateLimitPerMinute: v.GetInt("app_rate_limit_per_minute"),
		},
		Database: DatabaseConfig{
			Driver:         strings.ToLower(v.GetString("db_driver")),
			Host:           v.GetString("db_host"),
			Port:           v.GetInt("db_port"),
			User:           v.GetString("db_user"),
			Password:       v.GetString("db_password"),
			Name:           v.GetString("db_name"),
			SSLMode:        v.GetString("db_sslmode"),
			ConnectTimeout: v.GetDuration("db_connect_timeout"),
			QueryTimeout:   v.GetDuration("db_query_timeout"),
		},
		Valkey: ValkeyConfig{
			Enabled:   v.GetBool("valkey_enabled"),
			Address:   v.GetString("valkey_address"),
			Password:  v.GetString("valkey_password"),
			DB:        v.GetInt("valkey_db"),
			KeyPrefix: v.GetString("valkey_key_prefix"),
			OpTimeout: v.GetDuration("valkey_op_timeout"),
		},
		Security: SecurityConfig{
			JWTSecret: v.GetString("jwt_secret"),
			TokenTTL:  v.GetDuration("jwt_ttl"),
		},
		Cache: CacheConfig{
			RecommendationsTTL: v.GetDuration("cache_recommendations_ttl"),
			FavoriteGenreTTL:   v.GetDuration("cache_favorite_genre_ttl"),
			TopRatedGenreTTL:   v.GetDuration("cache_top_rated_genre_ttl"),
		},
		OMDB: OMDBConfig{
			APIKey:  v.GetString("omdb_api_key"),
			BaseURL: v.GetString("omdb_base_url"),
			Timeout: v.GetDuration("omdb_timeout"),
		},
		MCP: MCPConfig{
			Host: v.GetString("mcp_host"),
			Port: v.GetString("mcp_port"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	Global = cfg
	return cfg, nil
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.Security.TokenTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.Security.TokenTTL)
	}
	if c.Database.QueryTimeout <= 0 {
		return fmt.Errorf("DB_QUERY_TIMEOUT must be positive, got %s", c.Database.QueryTimeout)
	}
	// Valkey rejects SET ... EX 0, which would turn every cache write into an error.
	for name, ttl := range map[string]time.Duration{
		"CACHE_RECOMMENDATIONS_TTL": c.Cache.RecommendationsTTL,
		"CACHE_FAVORITE_GENRE_TTL":  c.Cache.FavoriteGenreTTL,
		"CACHE_TOP_RATED_GENRE_TTL": c.Cache.TopRatedGenreTTL,
	} {
		if ttl <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, ttl)
		}
	}
	return nil
}

// UsesDefaultSecret reports whether the signing secret was never configured.
func (c *Config) UsesDefaultSecret() bool {
	return c.Security.JWTSecret == defaultSecret
}
