// Package service implements the position watch run: resolve the tracked
// account, fetch its positions, diff them against the persisted snapshot,
// notify and persist.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/alanyoungcy/positionwatch/internal/domain"
	"github.com/alanyoungcy/positionwatch/internal/notify"
	"github.com/alanyoungcy/positionwatch/internal/tracker"
)

// ProfileSearcher looks up public profiles matching a query.
type ProfileSearcher interface {
	SearchProfiles(ctx context.Context, query string) ([]domain.Profile, error)
}

// PositionFetcher lists the open positions held by a proxy wallet.
type PositionFetcher interface {
	GetPositions(ctx context.Context, user string) ([]domain.RawPosition, error)
}

// Notifier delivers a rendered report.
type Notifier interface {
	NotifyAll(ctx context.Context, title, message string) error
}

// WatchConfig carries the per-account settings of a run.
type WatchConfig struct {
	Handle string
	// PinnedWallet skips identity resolution when set.
	PinnedWallet string
	// Epsilon is the size tolerance. Zero compares sizes exactly; a
	// negative value selects tracker.DefaultEpsilon.
	Epsilon float64
	SiteURL string
	Kinds   []domain.ChangeKind
}

// RunResult summarises one completed run.
type RunResult struct {
	RunID       string
	ProxyWallet string
	Positions   int
	Initial     bool
	Changes     domain.ChangeSet
	Notified    bool
	NotifyErr   error
}

// WatchService runs one poll/diff/notify/persist cycle per call to Run.
type WatchService struct {
	cfg      WatchConfig
	profiles ProfileSearcher
	fetcher  PositionFetcher
	state    domain.StateStore
	notifier Notifier
	audit    domain.AuditStore // optional
	logger   *slog.Logger
}

// NewWatchService creates a WatchService. audit may be nil.
func NewWatchService(
	cfg WatchConfig,
	profiles ProfileSearcher,
	fetcher PositionFetcher,
	state domain.StateStore,
	notifier Notifier,
	audit domain.AuditStore,
	logger *slog.Logger,
) *WatchService {
	if cfg.Epsilon < 0 {
		cfg.Epsilon = tracker.DefaultEpsilon
	}
	return &WatchService{
		cfg:      cfg,
		profiles: profiles,
		fetcher:  fetcher,
		state:    state,
		notifier: notifier,
		audit:    audit,
		logger:   logger.With(slog.String("component", "watch_service")),
	}
}

// Run executes one cycle. Identity resolution and position fetch failures
// abort the run before anything is written. A notification failure is logged
// and recorded in the result; state is persisted regardless.
func (s *WatchService) Run(ctx context.Context) (RunResult, error) {
	res := RunResult{RunID: uuid.NewString()}
	logger := s.logger.With(
		slog.String("run_id", res.RunID),
		slog.String("handle", s.cfg.Handle),
	)

	state, err := s.state.Load(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrCorruptState) {
			return res, fmt.Errorf("watch_service: load state: %w", err)
		}
		logger.WarnContext(ctx, "persisted state unreadable, starting over",
			slog.String("error", err.Error()),
		)
		state = domain.State{}
	}

	wallet, err := s.identity(ctx, state)
	if err != nil {
		return res, err
	}
	res.ProxyWallet = wallet

	raw, err := s.fetcher.GetPositions(ctx, wallet)
	if err != nil {
		return res, fmt.Errorf("watch_service: fetch positions: %w", err)
	}
	current := tracker.Normalize(raw)
	res.Positions = len(current)

	changes := tracker.Diff(state.Positions, current, s.cfg.Epsilon)
	res.Changes = changes
	res.Initial = changes.Initial

	switch {
	case changes.Initial:
		logger.InfoContext(ctx, "initialized state",
			slog.String("proxy_wallet", wallet),
			slog.Int("positions", len(current)),
		)
		s.record(ctx, logger, "state_initialized", map[string]any{
			"run_id":       res.RunID,
			"handle":       s.cfg.Handle,
			"proxy_wallet": wallet,
			"positions":    len(current),
		})
	case changes.Empty():
		logger.InfoContext(ctx, "no position changes",
			slog.Int("positions", len(current)),
		)
	default:
		res.Notified, res.NotifyErr = s.notify(ctx, changes, state.Positions, current)
		logger.InfoContext(ctx, "position changes detected",
			slog.Int("opened", len(changes.Opened)),
			slog.Int("updated", len(changes.Updated)),
			slog.Int("closed", len(changes.Closed)),
			slog.Bool("notified", res.Notified),
		)
		s.record(ctx, logger, "positions_changed", map[string]any{
			"run_id":   res.RunID,
			"handle":   s.cfg.Handle,
			"opened":   keyStrings(changes.Opened),
			"updated":  keyStrings(changes.Updated),
			"closed":   keyStrings(changes.Closed),
			"notified": res.Notified,
		})
		if res.NotifyErr != nil {
			logger.ErrorContext(ctx, "notification failed",
				slog.String("error", res.NotifyErr.Error()),
			)
			s.record(ctx, logger, "notify_failed", map[string]any{
				"run_id": res.RunID,
				"handle": s.cfg.Handle,
				"error":  res.NotifyErr.Error(),
			})
		}
	}

	next := domain.State{ProxyWallet: wallet, Positions: current}
	if err := s.state.Save(ctx, next); err != nil {
		return res, fmt.Errorf("watch_service: save state: %w", err)
	}
	return res, nil
}

// identity returns the pinned wallet, the cached wallet, or a freshly
// resolved one, in that order of preference.
func (s *WatchService) identity(ctx context.Context, state domain.State) (string, error) {
	if s.cfg.PinnedWallet != "" {
		return s.cfg.PinnedWallet, nil
	}
	if state.ProxyWallet != "" {
		return state.ProxyWallet, nil
	}
	if s.profiles == nil {
		return "", fmt.Errorf("watch_service: no profile searcher for @%s: %w", s.cfg.Handle, domain.ErrConfiguration)
	}

	profiles, err := s.profiles.SearchProfiles(ctx, s.cfg.Handle)
	if err != nil {
		return "", fmt.Errorf("watch_service: search profiles: %w", err)
	}
	wallet, err := tracker.ResolveIdentifier(s.cfg.Handle, profiles)
	if err != nil {
		return "", fmt.Errorf("watch_service: %w", err)
	}
	s.logger.InfoContext(ctx, "resolved proxy wallet",
		slog.String("handle", s.cfg.Handle),
		slog.String("proxy_wallet", wallet),
	)
	return wallet, nil
}

// notify renders and delivers the report. It reports false with a nil error
// when the event filter leaves nothing to send.
func (s *WatchService) notify(ctx context.Context, changes domain.ChangeSet, prev, curr domain.Snapshot) (bool, error) {
	report := notify.Report{
		Handle:   s.cfg.Handle,
		SiteURL:  s.cfg.SiteURL,
		Changes:  changes,
		Previous: prev,
		Current:  curr,
		Kinds:    s.cfg.Kinds,
	}
	title, message, ok := report.Render()
	if !ok {
		return false, nil
	}
	if err := s.notifier.NotifyAll(ctx, title, message); err != nil {
		return false, err
	}
	return true, nil
}

// record appends an audit row. Failures are logged only.
func (s *WatchService) record(ctx context.Context, logger *slog.Logger, event string, detail map[string]any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Log(ctx, event, detail); err != nil {
		logger.WarnContext(ctx, "audit log failed",
			slog.String("event", event),
			slog.String("error", err.Error()),
		)
	}
}

func keyStrings(keys []domain.PositionKey) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	return out
}
