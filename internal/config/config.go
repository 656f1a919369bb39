// Package config defines the top-level configuration for the position
// watcher and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/alanyoungcy/positionwatch/internal/domain"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by POSWATCH_* environment variables.
type Config struct {
	Tracker    TrackerConfig    `toml:"tracker"`
	Polymarket PolymarketConfig `toml:"polymarket"`
	State      StateConfig      `toml:"state"`
	Supabase   SupabaseConfig   `toml:"supabase"`
	Redis      RedisConfig      `toml:"redis"`
	S3         S3Config         `toml:"s3"`
	Notify     NotifyConfig     `toml:"notify"`
	LogLevel   string           `toml:"log_level"`
}

// TrackerConfig describes the account being watched.
type TrackerConfig struct {
	// Handle is the public username to track, without the leading "@".
	Handle string `toml:"handle"`
	// ProxyWallet pins the account address and skips identity resolution.
	ProxyWallet string `toml:"proxy_wallet"`
	// Epsilon is the size tolerance for updates; 0 compares exactly.
	Epsilon float64 `toml:"epsilon"`
	SiteURL string  `toml:"site_url"`
}

// PolymarketConfig holds Polymarket API endpoints and request parameters.
type PolymarketConfig struct {
	GammaHost     string   `toml:"gamma_host"`
	DataHost      string   `toml:"data_host"`
	SearchLimit   int      `toml:"search_limit"`
	SizeThreshold float64  `toml:"size_threshold"`
	Timeout       duration `toml:"timeout"`
}

// StateConfig selects where state is persisted between runs.
type StateConfig struct {
	// Backend is one of "file", "s3", "redis", "postgres".
	Backend string `toml:"backend"`
	// Path is the state file location for the file backend.
	Path string `toml:"path"`
	// Key overrides the object key (s3) or Redis key (redis).
	Key string `toml:"key"`
}

// SupabaseConfig holds PostgreSQL / Supabase connection parameters.
type SupabaseConfig struct {
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr         string `toml:"addr"`
	Password     string `toml:"password"`
	DB           int    `toml:"db"`
	PoolSize     int    `toml:"pool_size"`
	MaxRetries   int    `toml:"max_retries"`
	TLSEnabled   bool   `toml:"tls_enabled"`
	StreamMaxLen int    `toml:"stream_max_len"`
}

// S3Config holds S3-compatible object storage parameters.
type S3Config struct {
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	DiscordWebhookURL string `toml:"discord_webhook_url"`
	TelegramToken     string `toml:"telegram_token"`
	TelegramChatID    string `toml:"telegram_chat_id"`
	// RedisStream, when set, appends every report to this Redis stream.
	RedisStream string `toml:"redis_stream"`
	// Events lists the change kinds to report: opened, updated, closed.
	Events []string `toml:"events"`
}

// duration is a wrapper around time.Duration that supports TOML string decoding
// (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
func Defaults() Config {
	return Config{
		Tracker: TrackerConfig{
			Epsilon: 1e-6,
			SiteURL: "https://polymarket.com",
		},
		Polymarket: PolymarketConfig{
			GammaHost:     "https://gamma-api.polymarket.com",
			DataHost:      "https://data-api.polymarket.com",
			SearchLimit:   5,
			SizeThreshold: 0,
			Timeout:       duration{15 * time.Second},
		},
		State: StateConfig{
			Backend: "file",
			Path:    "state.json",
		},
		Supabase: SupabaseConfig{
			Host:          "localhost",
			Port:          5432,
			Database:      "postgres",
			User:          "postgres",
			SSLMode:       "disable",
			PoolMaxConns:  2,
			PoolMinConns:  0,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			Addr:         "localhost:6379",
			PoolSize:     2,
			MaxRetries:   0,
			StreamMaxLen: 10000,
		},
		S3: S3Config{
			Region:         "us-east-1",
			Bucket:         "positionwatch",
			UseSSL:         true,
			ForcePathStyle: true,
		},
		Notify: NotifyConfig{
			Events: []string{"opened", "updated", "closed"},
		},
		LogLevel: "info",
	}
}

// StateKey returns the configured state key or the backend default derived
// from the tracked handle.
func (c *Config) StateKey() string {
	if c.State.Key != "" {
		return c.State.Key
	}
	switch c.State.Backend {
	case "redis":
		return "positionwatch:state:" + c.Tracker.Handle
	case "postgres":
		return c.Tracker.Handle
	default:
		return "positionwatch/" + c.Tracker.Handle + ".json"
	}
}

// NeedsRedis reports whether any component needs a Redis connection.
func (c *Config) NeedsRedis() bool {
	return c.State.Backend == "redis" || c.Notify.RedisStream != ""
}

// validBackends enumerates the accepted values for StateConfig.Backend.
var validBackends = map[string]bool{
	"file":     true,
	"s3":       true,
	"redis":    true,
	"postgres": true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validEvents enumerates the accepted values for NotifyConfig.Events.
var validEvents = map[string]bool{
	"opened":  true,
	"updated": true,
	"closed":  true,
}

// Validate checks Config for obviously invalid or missing values and returns a
// combined error wrapping domain.ErrConfiguration that describes every
// problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Tracker
	if strings.TrimSpace(c.Tracker.Handle) == "" {
		errs = append(errs, "tracker: handle must not be empty")
	}
	if strings.HasPrefix(c.Tracker.Handle, "@") {
		errs = append(errs, "tracker: handle must not start with @")
	}
	if c.Tracker.ProxyWallet != "" && !common.IsHexAddress(c.Tracker.ProxyWallet) {
		errs = append(errs, fmt.Sprintf("tracker: proxy_wallet %q is not a hex address", c.Tracker.ProxyWallet))
	}
	if c.Tracker.Epsilon < 0 {
		errs = append(errs, "tracker: epsilon must be >= 0")
	}

	// Polymarket endpoints
	if c.Polymarket.GammaHost == "" && c.Tracker.ProxyWallet == "" {
		errs = append(errs, "polymarket: gamma_host must not be empty")
	}
	if c.Polymarket.DataHost == "" {
		errs = append(errs, "polymarket: data_host must not be empty")
	}
	if c.Polymarket.SizeThreshold < 0 {
		errs = append(errs, "polymarket: size_threshold must be >= 0")
	}

	// State backend
	switch {
	case !validBackends[c.State.Backend]:
		errs = append(errs, fmt.Sprintf("state: unknown backend %q (valid: file, s3, redis, postgres)", c.State.Backend))
	case c.State.Backend == "file" && c.State.Path == "":
		errs = append(errs, "state: path must not be empty for the file backend")
	case c.State.Backend == "s3":
		if c.S3.Bucket == "" {
			errs = append(errs, "s3: bucket must not be empty")
		}
		if c.S3.Region == "" {
			errs = append(errs, "s3: region must not be empty")
		}
	case c.State.Backend == "postgres":
		if strings.TrimSpace(c.Supabase.DSN) == "" {
			if c.Supabase.Host == "" {
				errs = append(errs, "supabase: host must not be empty (or set supabase.dsn)")
			}
			if c.Supabase.Port <= 0 || c.Supabase.Port > 65535 {
				errs = append(errs, fmt.Sprintf("supabase: port must be 1-65535, got %d", c.Supabase.Port))
			}
			if c.Supabase.Database == "" {
				errs = append(errs, "supabase: database must not be empty")
			}
		}
		if c.Supabase.PoolMinConns > c.Supabase.PoolMaxConns {
			errs = append(errs, "supabase: pool_min_conns must not exceed pool_max_conns")
		}
	}

	// Redis
	if c.NeedsRedis() {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
	}

	// Notify: at least one channel, otherwise changes go nowhere.
	if c.Notify.DiscordWebhookURL == "" && c.Notify.TelegramToken == "" && c.Notify.RedisStream == "" {
		errs = append(errs, "notify: discord_webhook_url is required (or configure telegram / redis_stream)")
	}
	if (c.Notify.TelegramToken == "") != (c.Notify.TelegramChatID == "") {
		errs = append(errs, "notify: telegram_token and telegram_chat_id must be set together")
	}
	for _, e := range c.Notify.Events {
		if !validEvents[strings.ToLower(strings.TrimSpace(e))] {
			errs = append(errs, fmt.Sprintf("notify: unknown event %q (valid: opened, updated, closed)", e))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n  - %s", domain.ErrConfiguration, strings.Join(errs, "\n  - "))
	}
	return nil
}
