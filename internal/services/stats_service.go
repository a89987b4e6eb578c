package services

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/callwatch/callwatch/internal/analysis"
	"github.com/callwatch/callwatch/internal/models"
	pgrepo "github.com/callwatch/callwatch/internal/repositories/postgres"
	"github.com/callwatch/callwatch/internal/utils"
)

// StatsService maintains the per-(user, agent, day) running counters. Apply
// must be called exactly once per processed call.
type StatsService interface {
	Apply(ctx context.Context, userID, agentID string, startMs, endMs int64, csatScore *int) error
	ListRange(ctx context.Context, userID, agentID string, from, to time.Time) ([]models.DailyStatsAgent, error)
}

type statsService struct {
	stats pgrepo.DailyStatsRepo

	// Serializes the read-modify-write on a daily row. Rows are keyed per
	// (user, agent, date); a single writer at a time keeps the running
	// averages from losing updates.
	mu sync.Mutex
}

func NewStatsService(stats pgrepo.DailyStatsRepo) StatsService {
	return &statsService{stats: stats}
}

func (s *statsService) Apply(ctx context.Context, userID, agentID string, startMs, endMs int64, csatScore *int) error {
	const op = "StatsService.Apply"

	if userID == "" || agentID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "user_id and agent_id are required", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	date := dayOf(startMs)
	durationSeconds := float64(endMs-startMs) / 1000.0

	row, err := s.stats.Get(ctx, userID, agentID, date)
	switch {
	case errors.Is(err, utils.ErrNotFound):
		return s.create(ctx, userID, agentID, date, durationSeconds, csatScore)
	case err != nil:
		return utils.E(utils.CodeInternal, op, "failed to load daily stats", err)
	default:
		return s.update(ctx, row, durationSeconds, csatScore)
	}
}

func (s *statsService) create(ctx context.Context, userID, agentID string, date time.Time, durationSeconds float64, csatScore *int) error {
	const op = "StatsService.Apply"

	row := &models.DailyStatsAgent{
		ID:              uuid.NewString(),
		UserID:          userID,
		AgentID:         agentID,
		Date:            date,
		TotalCalls:      1,
		TotalDuration:   int64(math.Round(durationSeconds)),
		AverageDuration: round2(durationSeconds),
	}

	if csatScore != nil {
		avg := float64(*csatScore)
		row.ScoredCalls = 1
		row.AverageCsatScore = &avg
		if *csatScore >= analysis.CsatThreshold {
			row.SuccessfulCalls = 1
		} else {
			row.FailedCalls = 1
		}
	} else {
		// A call that cannot be scored counts as failed.
		row.FailedCalls = 1
	}

	if err := s.stats.Create(ctx, row); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to create daily stats", err)
	}
	return nil
}

func (s *statsService) update(ctx context.Context, row *models.DailyStatsAgent, durationSeconds float64, csatScore *int) error {
	const op = "StatsService.Apply"

	row.TotalCalls++
	row.TotalDuration += int64(math.Round(durationSeconds))
	row.AverageDuration = round2(float64(row.TotalDuration) / float64(row.TotalCalls))

	// A nil score leaves every other counter untouched on this path; only
	// the create path counts an unscored call as failed. Inherited quirk,
	// kept deliberately.
	if csatScore != nil {
		previousTotal := 0.0
		if row.AverageCsatScore != nil {
			previousTotal = *row.AverageCsatScore * float64(row.ScoredCalls)
		}
		row.ScoredCalls++
		avg := round2((previousTotal + float64(*csatScore)) / float64(row.ScoredCalls))
		row.AverageCsatScore = &avg

		if *csatScore >= analysis.CsatThreshold {
			row.SuccessfulCalls++
		} else {
			row.FailedCalls++
		}
	}

	if err := s.stats.Update(ctx, row); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to update daily stats", err)
	}
	return nil
}

func (s *statsService) ListRange(ctx context.Context, userID, agentID string, from, to time.Time) ([]models.DailyStatsAgent, error) {
	const op = "StatsService.ListRange"

	if userID == "" || agentID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and agent_id are required", nil)
	}

	rows, err := s.stats.ListRange(ctx, userID, agentID, from, to)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list daily stats", err)
	}
	return rows, nil
}

// dayOf maps an epoch-ms call start to its UTC calendar day.
func dayOf(startMs int64) time.Time {
	t := time.UnixMilli(startMs).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
