package config

import (
	"os"
	"strings"
)

// Settings lists the effective non-secret settings keyed by their environment
// name. Secrets only report whether they are set.
func (c *Config) Settings() map[string]any {
	return map[string]any{
		"app_version":               c.App.Version,
		"app_env":                   c.App.Environment,
		"app_port":                  c.App.Port,
		"app_debug":                 c.App.Debug,
		"app_base_path":             c.App.BasePath,
		"app_rate_limit_per_minute": c.App.RateLimitPerMinute,
		"db_driver":                 c.Database.Driver,
		"db_host":                   c.Database.Host,
		"db_name":                   c.Database.Name,
		"db_query_timeout":          c.Database.QueryTimeout.String(),
		"valkey_enabled":            c.Valkey.Enabled,
		"valkey_address":            c.Valkey.Address,
		"valkey_key_prefix":         c.Valkey.KeyPrefix,
		"jwt_secret_set":            !c.UsesDefaultSecret(),
		"jwt_ttl":                   c.Security.TokenTTL.String(),
		"cache_recommendations_ttl": c.Cache.RecommendationsTTL.String(),
		"cache_favorite_genre_ttl":  c.Cache.FavoriteGenreTTL.String(),
		"cache_top_rated_genre_ttl": c.Cache.TopRatedGenreTTL.String(),
		"omdb_enabled":              c.OMDB.APIKey != "",
		"mcp_address":               c.MCP.Host + ":" + c.MCP.Port,
	}
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
