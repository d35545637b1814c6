// Package scheduler runs periodic maintenance jobs: purging expired sessions
// and pruning old audit rows.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	authdomain "github.com/momta/momta/internal/auth/domain"
	"github.com/momta/momta/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrInvalidConfig = errors.New("scheduler: invalid configuration")

type Config struct {
	// RunInterval is the pause between maintenance passes.
	RunInterval time.Duration
	// JobTimeout bounds a single job execution.
	JobTimeout time.Duration
	// AuditRetention is how long audit rows are kept.
	AuditRetention time.Duration
}

func (c Config) withDefaults() Config {
	if c.RunInterval <= 0 {
		c.RunInterval = time.Hour
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = 5 * time.Minute
	}
	if c.AuditRetention <= 0 {
		c.AuditRetention = 90 * 24 * time.Hour
	}
	return c
}

func ProvideConfig() Config {
	return Config{}.withDefaults()
}

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Clock       clock.Clock
	SessionRepo authdomain.SessionRepository
	Config      Config `optional:"true"`
}

type Scheduler struct {
	db          *gorm.DB
	log         *zap.Logger
	cfg         Config
	clock       clock.Clock
	sessionRepo authdomain.SessionRepository
}

func New(p Params) (*Scheduler, error) {
	if p.DB == nil || p.Log == nil || p.Clock == nil || p.SessionRepo == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		db:          p.DB,
		log:         p.Log.Named("scheduler"),
		cfg:         p.Config.withDefaults(),
		clock:       p.Clock,
		sessionRepo: p.SessionRepo,
	}, nil
}

func (s *Scheduler) RunOnce(parent context.Context) error {
	var err error
	err = errors.Join(err, s.runJob(parent, "purge_sessions", s.PurgeSessionsJob))
	err = errors.Join(err, s.runJob(parent, "prune_audit_log", s.PruneAuditLogJob))
	return err
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) runJob(parent context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, s.cfg.JobTimeout)
	defer cancel()

	err := fn(ctx)
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.log.Warn("job timed out", zap.String("job", name), zap.Error(err))
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}

// PurgeSessionsJob deletes sessions past their expiry. Revoked but unexpired
// sessions stay until expiry so an admin can still see recent revocations.
func (s *Scheduler) PurgeSessionsJob(ctx context.Context) error {
	removed, err := s.sessionRepo.DeleteExpired(ctx, s.clock.Now())
	if err != nil {
		return err
	}
	if removed > 0 {
		s.log.Info("expired sessions purged", zap.Int64("removed", removed))
	}
	return nil
}

// PruneAuditLogJob drops audit rows older than the retention horizon.
func (s *Scheduler) PruneAuditLogJob(ctx context.Context) error {
	horizon := s.clock.Now().Add(-s.cfg.AuditRetention)
	tx := s.db.WithContext(ctx).Exec(`DELETE FROM audit_log WHERE created_at < ?`, horizon)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected > 0 {
		s.log.Info("audit rows pruned", zap.Int64("removed", tx.RowsAffected))
	}
	return nil
}
