// file: cmd/root.go
// version: 1.1.0
// guid: 9c0d1e2f-3a4b-5c6d-7e8f-9a0b1c2d3e4f

package cmd

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/inpsyde/users-table/internal/config"
	"github.com/inpsyde/users-table/internal/kvstore"
	"github.com/inpsyde/users-table/internal/server"
	"github.com/inpsyde/users-table/internal/users"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string
var upstreamURL string
var cacheBackend string
var cacheKey string
var cacheTTL string
var redisAddr string
var nonceSecret string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "users-table",
	Short: "Serve a users table backed by a third-party directory API",
	Long: `Users Table serves an HTML table of users fetched from a third-party
REST API, with per-user detail lookups from the browser.

The upstream collection is held in a read-through cache so the external
service is contacted at most once per TTL window.`,
}

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long:  `Start the web server that renders the users table page and answers detail lookups.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := buildStore()
		if err != nil {
			return err
		}

		fmt.Printf("Using cache backend: %s (key %q, ttl %s)\n",
			config.AppConfig.CacheBackend, config.AppConfig.CacheKey, config.AppConfig.CacheTTL)
		fmt.Printf("Upstream: %s\n", config.AppConfig.UpstreamURL)

		client := users.NewClient(config.AppConfig.UpstreamURL)
		svc := users.NewService(client, store, config.AppConfig.CacheKey, config.AppConfig.CacheTTL)

		secret := config.AppConfig.NonceSecret
		if secret == "" {
			buf := make([]byte, 32)
			if _, err := rand.Read(buf); err != nil {
				return fmt.Errorf("failed to generate nonce secret: %w", err)
			}
			secret = hex.EncodeToString(buf)
			fmt.Println("No nonce secret configured, generated an ephemeral one (tokens won't survive restarts)")
		}

		srv := server.NewServer(svc, server.Options{
			NonceSecret:     secret,
			NonceLifetime:   2 * config.AppConfig.CacheTTL,
			RateLimitPerMin: config.AppConfig.RateLimit.RequestsPerMinute,
			RateLimitBurst:  config.AppConfig.RateLimit.Burst,
		})
		cfg := server.GetDefaultServerConfig()

		// Override with command line flags if provided
		if port := cmd.Flag("port").Value.String(); port != "" {
			cfg.Port = port
		}
		if host := cmd.Flag("host").Value.String(); host != "" {
			cfg.Host = host
		}
		if rt := cmd.Flag("read-timeout").Value.String(); rt != "" {
			if d, err := time.ParseDuration(rt); err == nil {
				cfg.ReadTimeout = d
			}
		}
		if wt := cmd.Flag("write-timeout").Value.String(); wt != "" {
			if d, err := time.ParseDuration(wt); err == nil {
				cfg.WriteTimeout = d
			}
		}
		if it := cmd.Flag("idle-timeout").Value.String(); it != "" {
			if d, err := time.ParseDuration(it); err == nil {
				cfg.IdleTimeout = d
			}
		}

		return srv.Start(cfg)
	},
}

// buildStore selects the cache store backend from configuration.
func buildStore() (kvstore.Store, error) {
	switch config.AppConfig.CacheBackend {
	case "", "memory":
		return kvstore.NewMemory(), nil
	case "redis":
		return kvstore.NewRedis(
			config.AppConfig.RedisAddr,
			config.AppConfig.RedisPassword,
			config.AppConfig.RedisDB,
		), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", config.AppConfig.CacheBackend)
	}
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.users-table.yaml)")
	rootCmd.PersistentFlags().StringVar(&upstreamURL, "upstream-url", users.DefaultUpstreamURL, "URL of the upstream users endpoint")
	rootCmd.PersistentFlags().StringVar(&cacheBackend, "cache-backend", "memory", "cache backend: memory (default) or redis")
	rootCmd.PersistentFlags().StringVar(&cacheKey, "cache-key", users.DefaultCacheKey, "cache key the user snapshot is stored under")
	rootCmd.PersistentFlags().StringVar(&cacheTTL, "cache-ttl", "12h", "time-to-live of the cached user snapshot")
	rootCmd.PersistentFlags().StringVar(&redisAddr, "redis-addr", "localhost:6379", "redis address when cache-backend is redis")
	rootCmd.PersistentFlags().StringVar(&nonceSecret, "nonce-secret", "", "secret for anti-forgery tokens (random per start if empty)")

	viper.BindPFlag("upstream_url", rootCmd.PersistentFlags().Lookup("upstream-url"))
	viper.BindPFlag("cache_backend", rootCmd.PersistentFlags().Lookup("cache-backend"))
	viper.BindPFlag("cache_key", rootCmd.PersistentFlags().Lookup("cache-key"))
	viper.BindPFlag("cache_ttl", rootCmd.PersistentFlags().Lookup("cache-ttl"))
	viper.BindPFlag("redis_addr", rootCmd.PersistentFlags().Lookup("redis-addr"))
	viper.BindPFlag("nonce_secret", rootCmd.PersistentFlags().Lookup("nonce-secret"))

	rootCmd.AddCommand(serveCmd)

	// Add serve command specific flags
	serveCmd.Flags().String("port", "8080", "port to run the web server on")
	serveCmd.Flags().String("host", "localhost", "host to bind the web server to")
	serveCmd.Flags().String("read-timeout", "15s", "read timeout (e.g. 15s, 1m)")
	serveCmd.Flags().String("write-timeout", "15s", "write timeout (e.g. 15s, 1m)")
	serveCmd.Flags().String("idle-timeout", "60s", "idle timeout (e.g. 60s, 2m)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".users-table")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}

	config.InitConfig()
}
