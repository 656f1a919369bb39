package app

import (
	"context"
	"fmt"
	"log/slog"

	s3blob "github.com/alanyoungcy/positionwatch/internal/blob/s3"
	"github.com/alanyoungcy/positionwatch/internal/cache/redis"
	"github.com/alanyoungcy/positionwatch/internal/config"
	"github.com/alanyoungcy/positionwatch/internal/domain"
	"github.com/alanyoungcy/positionwatch/internal/notify"
	"github.com/alanyoungcy/positionwatch/internal/platform/polymarket"
	"github.com/alanyoungcy/positionwatch/internal/service"
	"github.com/alanyoungcy/positionwatch/internal/store/file"
	"github.com/alanyoungcy/positionwatch/internal/store/postgres"
)

// Dependencies bundles everything a watch run needs. It is constructed by
// Wire and torn down by the returned cleanup function.
type Dependencies struct {
	// Platform clients
	Gamma *polymarket.GammaClient
	Data  *polymarket.DataClient

	// Persistence
	StateStore domain.StateStore
	AuditStore domain.AuditStore // nil unless the postgres backend is active

	// Messaging
	SignalBus domain.SignalBus // nil unless Redis is configured

	// Notifications
	Notifier *notify.Notifier

	// Service
	Watch *service.WatchService
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- Redis (state backend and/or stream notifications) ---
	var redisClient *redis.Client
	if cfg.NeedsRedis() {
		c, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = c.Close() })
		redisClient = c

		streamMaxLen := int64(10000)
		if cfg.Redis.StreamMaxLen > 0 {
			streamMaxLen = int64(cfg.Redis.StreamMaxLen)
		}
		deps.SignalBus = redis.NewSignalBus(redisClient, streamMaxLen)
	}

	// --- State backend ---
	key := cfg.StateKey()
	switch cfg.State.Backend {
	case "file":
		deps.StateStore = file.NewStateStore(cfg.State.Path)

	case "s3":
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		deps.StateStore = s3blob.NewStateStore(s3blob.NewReader(s3Client), s3blob.NewWriter(s3Client), key)

	case "redis":
		deps.StateStore = redis.NewStateStore(redisClient, key)

	case "postgres":
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Supabase.DSN,
			Host:     cfg.Supabase.Host,
			Port:     cfg.Supabase.Port,
			Database: cfg.Supabase.Database,
			User:     cfg.Supabase.User,
			Password: cfg.Supabase.Password,
			SSLMode:  cfg.Supabase.SSLMode,
			MaxConns: cfg.Supabase.PoolMaxConns,
			MinConns: cfg.Supabase.PoolMinConns,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres: %w", err)
		}
		closers = append(closers, pgClient.Close)

		// Run migrations if enabled.
		if cfg.Supabase.RunMigrations {
			if err := pgClient.RunMigrations(ctx); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
			}
		}

		pool := pgClient.Pool()
		deps.StateStore = postgres.NewStateStore(pool, key)
		deps.AuditStore = postgres.NewAuditStore(pool)

	default:
		cleanup()
		return nil, nil, fmt.Errorf("wire: state backend %q: %w", cfg.State.Backend, domain.ErrConfiguration)
	}

	// --- Polymarket ---
	timeout := cfg.Polymarket.Timeout.Duration
	deps.Gamma = polymarket.NewGammaClient(cfg.Polymarket.GammaHost, cfg.Polymarket.SearchLimit, timeout)
	deps.Data = polymarket.NewDataClient(cfg.Polymarket.DataHost, cfg.Polymarket.SizeThreshold, timeout)

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	if cfg.Notify.RedisStream != "" && deps.SignalBus != nil {
		senders = append(senders, notify.NewStreamSender(deps.SignalBus, cfg.Notify.RedisStream))
	}
	deps.Notifier = notify.NewNotifier(senders, logger)

	kinds, err := notify.ParseKinds(cfg.Notify.Events)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: %w", err)
	}

	// --- Service ---
	deps.Watch = service.NewWatchService(
		service.WatchConfig{
			Handle:       cfg.Tracker.Handle,
			PinnedWallet: cfg.Tracker.ProxyWallet,
			Epsilon:      cfg.Tracker.Epsilon,
			SiteURL:      cfg.Tracker.SiteURL,
			Kinds:        kinds,
		},
		deps.Gamma,
		deps.Data,
		deps.StateStore,
		deps.Notifier,
		deps.AuditStore,
		logger,
	)

	return deps, cleanup, nil
}
