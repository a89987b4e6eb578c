package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/callwatch/callwatch/internal/models"
	pgrepo "github.com/callwatch/callwatch/internal/repositories/postgres"
	"github.com/callwatch/callwatch/internal/utils"
)

type SettingsService interface {
	Latest(ctx context.Context, userID string) (*models.UserSettings, error)
	// Submit replaces the user's settings, resyncs the official script of
	// every tracked agent, kicks off a background ingestion run and returns
	// how many syncs succeeded. Per-agent sync failures are logged, not
	// raised.
	Submit(ctx context.Context, userID, apiKey string, agentIDs []string) (scriptsUpdated int, err error)
}

type settingsService struct {
	settings pgrepo.SettingsRepo
	scripts  ScriptSyncer
	ingest   IngestService
	log      *logrus.Logger
}

// ScriptSyncer pulls one agent's name and prompt from the platform into the
// official_scripts table.
type ScriptSyncer interface {
	SyncScript(ctx context.Context, userID, apiKey, agentID string) error
}

func NewSettingsService(settings pgrepo.SettingsRepo, scripts ScriptSyncer, ingest IngestService, log *logrus.Logger) SettingsService {
	if log == nil {
		log = logrus.New()
	}
	return &settingsService{settings: settings, scripts: scripts, ingest: ingest, log: log}
}

func (s *settingsService) Latest(ctx context.Context, userID string) (*models.UserSettings, error) {
	const op = "SettingsService.Latest"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	row, err := s.settings.Latest(ctx, userID)
	if errors.Is(err, utils.ErrNotFound) {
		// No settings yet is a valid state; callers render empty defaults.
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load settings", err)
	}
	return row, nil
}

func (s *settingsService) Submit(ctx context.Context, userID, apiKey string, agentIDs []string) (int, error) {
	const op = "SettingsService.Submit"

	if userID == "" {
		return 0, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	if agentIDs == nil {
		return 0, utils.E(utils.CodeInvalidArgument, op, "agent_ids must be a list", nil)
	}

	row := &models.UserSettings{
		ID:           uuid.NewString(),
		UserID:       userID,
		RetellAPIKey: apiKey,
		AgentIDs:     pq.StringArray(agentIDs),
	}
	if err := s.settings.Replace(ctx, row); err != nil {
		return 0, utils.E(utils.CodeInternal, op, "failed to save settings", err)
	}

	updated := 0
	for _, agentID := range agentIDs {
		if err := s.scripts.SyncScript(ctx, userID, apiKey, agentID); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"user_id":  userID,
				"agent_id": agentID,
			}).Warn("failed to sync agent script")
			continue
		}
		updated++
	}

	// New credentials should show data right away rather than waiting for
	// the next poller tick. The request context may be gone by then, so the
	// run gets its own.
	if s.ingest != nil {
		go func() {
			if _, err := s.ingest.Run(context.Background(), userID); err != nil {
				s.log.WithError(err).WithField("user_id", userID).Warn("post-settings ingestion failed")
			}
		}()
	}
	return updated, nil
}
