package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/callwatch/callwatch/internal/cache"
	"github.com/callwatch/callwatch/internal/models"
	mongorepo "github.com/callwatch/callwatch/internal/repositories/mongo"
	pgrepo "github.com/callwatch/callwatch/internal/repositories/postgres"
	"github.com/callwatch/callwatch/internal/retell"
	"github.com/callwatch/callwatch/internal/utils"
)

const dailyStatsCacheTTL = 60 * time.Second

// AgentFetcher is the slice of the telephony client the script sync needs.
type AgentFetcher interface {
	GetAgent(ctx context.Context, apiKey, agentID string) (*retell.Agent, error)
	GetLLM(ctx context.Context, apiKey, llmID string) (*retell.LLM, error)
}

// AgentService serves the reporting reads over ingested data and keeps the
// official scripts in sync with the platform.
type AgentService interface {
	AgentNames(ctx context.Context, userID string) (map[string]string, error)
	DailyStats(ctx context.Context, userID, agentID string, from, to time.Time) ([]models.DailyStatsAgent, error)
	Calls(ctx context.Context, userID, agentID string, startMs, endMs int64) ([]models.Call, error)
	CallDetails(ctx context.Context, userID, callID string) (*models.Call, error)
	// RawCall returns the archived upstream payload for a call, for
	// debugging discrepancies between stored rows and the platform.
	RawCall(ctx context.Context, userID, callID string) (*models.RawCallDocument, error)
	SyncScript(ctx context.Context, userID, apiKey, agentID string) error
}

type agentService struct {
	settings pgrepo.SettingsRepo
	scripts  pgrepo.ScriptRepo
	calls    pgrepo.CallRepo
	stats    StatsService
	fetcher  AgentFetcher
	archive  mongorepo.RawCallRepository // optional
	cache    cache.Cache                 // optional
}

func NewAgentService(
	settings pgrepo.SettingsRepo,
	scripts pgrepo.ScriptRepo,
	calls pgrepo.CallRepo,
	stats StatsService,
	fetcher AgentFetcher,
	archive mongorepo.RawCallRepository,
	c cache.Cache,
) AgentService {
	return &agentService{
		settings: settings,
		scripts:  scripts,
		calls:    calls,
		stats:    stats,
		fetcher:  fetcher,
		archive:  archive,
		cache:    c,
	}
}

func (s *agentService) AgentNames(ctx context.Context, userID string) (map[string]string, error) {
	const op = "AgentService.AgentNames"

	settings, err := s.settings.Latest(ctx, userID)
	if errors.Is(err, utils.ErrNotFound) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load settings", err)
	}

	scripts, err := s.scripts.ListByAgentIDs(ctx, userID, settings.AgentIDs)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list scripts", err)
	}

	names := make(map[string]string, len(scripts))
	for _, sc := range scripts {
		names[sc.AgentID] = sc.AgentName
	}
	return names, nil
}

func (s *agentService) DailyStats(ctx context.Context, userID, agentID string, from, to time.Time) ([]models.DailyStatsAgent, error) {
	const op = "AgentService.DailyStats"

	key := fmt.Sprintf("daily-stats:%s:%s:%s:%s",
		userID, agentID, from.Format("2006-01-02"), to.Format("2006-01-02"))

	if s.cache != nil {
		var cached []models.DailyStatsAgent
		if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	rows, err := s.stats.ListRange(ctx, userID, agentID, from, to)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, key, rows, dailyStatsCacheTTL)
	}
	return rows, nil
}

func (s *agentService) Calls(ctx context.Context, userID, agentID string, startMs, endMs int64) ([]models.Call, error) {
	const op = "AgentService.Calls"

	if agentID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "agent_id is required", nil)
	}

	rows, err := s.calls.ListByAgentRange(ctx, userID, agentID, startMs, endMs)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list calls", err)
	}
	return rows, nil
}

func (s *agentService) CallDetails(ctx context.Context, userID, callID string) (*models.Call, error) {
	const op = "AgentService.CallDetails"

	row, err := s.calls.GetByCallID(ctx, userID, callID)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeNotFound, op, "call not found", err)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load call", err)
	}
	return row, nil
}

func (s *agentService) RawCall(ctx context.Context, userID, callID string) (*models.RawCallDocument, error) {
	const op = "AgentService.RawCall"

	if s.archive == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "raw call archive is not configured", nil)
	}

	doc, err := s.archive.Get(ctx, userID, callID)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeNotFound, op, "raw call not found", err)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load raw call", err)
	}
	return doc, nil
}

// SyncScript resolves the agent's display name and backing prompt from the
// platform and upserts them. Agents without an LLM websocket URL keep their
// name but no script content.
func (s *agentService) SyncScript(ctx context.Context, userID, apiKey, agentID string) error {
	const op = "AgentService.SyncScript"

	agent, err := s.fetcher.GetAgent(ctx, apiKey, agentID)
	if err != nil {
		return utils.E(utils.CodeUpstream, op, "failed to fetch agent", err)
	}

	script := &models.OfficialScript{
		ID:        uuid.NewString(),
		UserID:    userID,
		AgentID:   agentID,
		AgentName: agent.AgentName,
	}

	if llmID := retell.LLMIDFromWebsocketURL(agent.LLMWebsocketURL); llmID != "" {
		llm, err := s.fetcher.GetLLM(ctx, apiKey, llmID)
		if err != nil {
			return utils.E(utils.CodeUpstream, op, "failed to fetch agent llm", err)
		}
		script.ScriptContent = llm.GeneralPrompt
	}

	if err := s.scripts.Upsert(ctx, script); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to upsert script", err)
	}
	return nil
}
