// file: internal/config/config.go
// version: 1.1.0
// guid: 2c3d4e5f-6a7b-8c9d-0e1f-2a3b4c5d6e7f

package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	UpstreamURL   string
	CacheBackend  string // "memory" (default) or "redis"
	CacheKey      string
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	NonceSecret   string
	RateLimit     struct {
		RequestsPerMinute int
		Burst             int
	}
}

var AppConfig Config

// InitConfig initializes the application configuration
func InitConfig() {
	// Set defaults
	viper.SetDefault("upstream_url", "https://jsonplaceholder.typicode.com/users")
	viper.SetDefault("cache_backend", "memory")
	viper.SetDefault("cache_key", "users_table:all")
	viper.SetDefault("cache_ttl", "12h")
	viper.SetDefault("redis_addr", "localhost:6379")
	viper.SetDefault("rate_limit.requests_per_minute", 120)
	viper.SetDefault("rate_limit.burst", 30)

	AppConfig = Config{
		UpstreamURL:   viper.GetString("upstream_url"),
		CacheBackend:  viper.GetString("cache_backend"),
		CacheKey:      viper.GetString("cache_key"),
		CacheTTL:      viper.GetDuration("cache_ttl"),
		RedisAddr:     viper.GetString("redis_addr"),
		RedisPassword: viper.GetString("redis_password"),
		RedisDB:       viper.GetInt("redis_db"),
		NonceSecret:   viper.GetString("nonce_secret"),
	}

	AppConfig.RateLimit.RequestsPerMinute = viper.GetInt("rate_limit.requests_per_minute")
	AppConfig.RateLimit.Burst = viper.GetInt("rate_limit.burst")

	// Normalize
	if AppConfig.CacheBackend == "" {
		AppConfig.CacheBackend = "memory"
	}
	if AppConfig.CacheTTL <= 0 {
		AppConfig.CacheTTL = 12 * time.Hour
	}
}
