package workers

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/callwatch/callwatch/internal/cache"
	"github.com/callwatch/callwatch/internal/services"
)

const ingestLockTTL = 15 * time.Minute

// UserSource lists the users the poller iterates over on each tick.
type UserSource interface {
	UserIDs(ctx context.Context) ([]string, error)
}

// IngestPoller periodically runs ingestion for every user that has settings.
// A per-user lock keeps a manual sync and the poller (or a second instance)
// from ingesting the same user's calls concurrently.
type IngestPoller struct {
	Users    UserSource
	Ingest   services.IngestService
	Locker   cache.Locker
	Interval time.Duration
	Logger   *logrus.Logger
}

func (p *IngestPoller) Start(ctx context.Context) error {
	if p.Users == nil || p.Ingest == nil {
		return errors.New("IngestPoller missing dependency: Users/Ingest must be set")
	}
	if p.Interval <= 0 {
		p.Interval = intervalFromEnv()
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}

	go p.run(ctx)
	return nil
}

func (p *IngestPoller) run(ctx context.Context) {
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	p.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *IngestPoller) tick(ctx context.Context) {
	userIDs, err := p.Users.UserIDs(ctx)
	if err != nil {
		p.Logger.WithError(err).Error("failed to list users for ingestion")
		return
	}

	for _, userID := range userIDs {
		select {
		case <-ctx.Done():
			return
		default:
		}
		p.ingestUser(ctx, userID)
	}
}

func (p *IngestPoller) ingestUser(ctx context.Context, userID string) {
	log := p.Logger.WithField("user_id", userID)

	if p.Locker != nil {
		key := "ingest:lock:" + userID
		acquired, err := p.Locker.AcquireLock(ctx, key, ingestLockTTL)
		if err != nil {
			log.WithError(err).Warn("failed to acquire ingest lock")
			return
		}
		if !acquired {
			log.Debug("ingest already running for user, skipping")
			return
		}
		defer func() { _ = p.Locker.ReleaseLock(ctx, key) }()
	}

	report, err := p.Ingest.Run(ctx, userID)
	if err != nil {
		log.WithError(err).Error("scheduled ingestion failed")
		return
	}
	log.WithFields(logrus.Fields{
		"processed": report.Processed,
		"skipped":   report.Skipped,
		"failed":    report.Failed,
	}).Info("scheduled ingestion finished")
}

func intervalFromEnv() time.Duration {
	if v := os.Getenv("INGEST_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return 10 * time.Minute
}
