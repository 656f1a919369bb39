package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies POSWATCH_* environment variable overrides, and
// returns the final Config. A missing file is not an error: scheduled jobs
// are often configured through the environment alone. The returned Config
// has NOT been validated; the caller should invoke Config.Validate() after
// Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known POSWATCH_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Tracker ──
	setStr(&cfg.Tracker.Handle, "POSWATCH_TRACKER_HANDLE")
	setStr(&cfg.Tracker.ProxyWallet, "POSWATCH_TRACKER_PROXY_WALLET")
	setFloat64(&cfg.Tracker.Epsilon, "POSWATCH_TRACKER_EPSILON")
	setStr(&cfg.Tracker.SiteURL, "POSWATCH_TRACKER_SITE_URL")

	// ── Polymarket ──
	setStr(&cfg.Polymarket.GammaHost, "POSWATCH_POLYMARKET_GAMMA_HOST")
	setStr(&cfg.Polymarket.DataHost, "POSWATCH_POLYMARKET_DATA_HOST")
	setInt(&cfg.Polymarket.SearchLimit, "POSWATCH_POLYMARKET_SEARCH_LIMIT")
	setFloat64(&cfg.Polymarket.SizeThreshold, "POSWATCH_POLYMARKET_SIZE_THRESHOLD")
	setDuration(&cfg.Polymarket.Timeout, "POSWATCH_POLYMARKET_TIMEOUT")

	// ── State ──
	setStr(&cfg.State.Backend, "POSWATCH_STATE_BACKEND")
	setStr(&cfg.State.Path, "POSWATCH_STATE_PATH")
	setStr(&cfg.State.Key, "POSWATCH_STATE_KEY")

	// ── Supabase ──
	setStr(&cfg.Supabase.DSN, "DATABASE_URL") // compatibility alias
	setStr(&cfg.Supabase.DSN, "POSWATCH_SUPABASE_DSN")
	setStr(&cfg.Supabase.Host, "POSWATCH_SUPABASE_HOST")
	setInt(&cfg.Supabase.Port, "POSWATCH_SUPABASE_PORT")
	setStr(&cfg.Supabase.Database, "POSWATCH_SUPABASE_DATABASE")
	setStr(&cfg.Supabase.User, "POSWATCH_SUPABASE_USER")
	setStr(&cfg.Supabase.Password, "POSWATCH_SUPABASE_PASSWORD")
	setStr(&cfg.Supabase.SSLMode, "POSWATCH_SUPABASE_SSL_MODE")
	setBool(&cfg.Supabase.RunMigrations, "POSWATCH_SUPABASE_RUN_MIGRATIONS")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "POSWATCH_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "POSWATCH_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "POSWATCH_REDIS_DB")
	setBool(&cfg.Redis.TLSEnabled, "POSWATCH_REDIS_TLS_ENABLED")

	// ── S3 ──
	setStr(&cfg.S3.Endpoint, "POSWATCH_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "POSWATCH_S3_REGION")
	setStr(&cfg.S3.Bucket, "POSWATCH_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "POSWATCH_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "POSWATCH_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "POSWATCH_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "POSWATCH_S3_FORCE_PATH_STYLE")

	// ── Notify ──
	setStr(&cfg.Notify.DiscordWebhookURL, "DISCORD_WEBHOOK") // compatibility alias
	setStr(&cfg.Notify.DiscordWebhookURL, "POSWATCH_NOTIFY_DISCORD_WEBHOOK_URL")
	setStr(&cfg.Notify.TelegramToken, "POSWATCH_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "POSWATCH_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.RedisStream, "POSWATCH_NOTIFY_REDIS_STREAM")
	setStringSlice(&cfg.Notify.Events, "POSWATCH_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.LogLevel, "POSWATCH_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
