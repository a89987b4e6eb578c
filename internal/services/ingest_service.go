package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/callwatch/callwatch/internal/analysis"
	"github.com/callwatch/callwatch/internal/models"
	mongorepo "github.com/callwatch/callwatch/internal/repositories/mongo"
	pgrepo "github.com/callwatch/callwatch/internal/repositories/postgres"
	"github.com/callwatch/callwatch/internal/retell"
	"github.com/callwatch/callwatch/internal/utils"
)

const (
	checkpointLookback = 30 * 24 * time.Hour
	fetchLimit         = 100
	callStatusEnded    = "ended"
)

// CallLister is the slice of the telephony client the coordinator needs.
type CallLister interface {
	ListCalls(ctx context.Context, apiKey string, req retell.ListCallsRequest) ([]retell.CallResource, error)
}

// CallFailure records one call that could not be processed in a run.
type CallFailure struct {
	CallID string `json:"call_id"`
	Error  string `json:"error"`
}

// AgentReport is the per-agent outcome of an ingestion run.
type AgentReport struct {
	AgentID    string        `json:"agent_id"`
	Fetched    int           `json:"fetched"`
	Processed  int           `json:"processed"`
	Skipped    int           `json:"skipped"`
	Failed     int           `json:"failed"`
	FetchError string        `json:"fetch_error,omitempty"`
	Failures   []CallFailure `json:"failures,omitempty"`
}

// BatchReport aggregates an ingestion run across all of a user's agents.
type BatchReport struct {
	Agents    []AgentReport `json:"agents"`
	Processed int           `json:"processed"`
	Skipped   int           `json:"skipped"`
	Failed    int           `json:"failed"`
}

// IngestService polls the telephony platform for newly ended calls and
// drives each through normalization, detection, scoring, persistence and
// daily-stats aggregation.
type IngestService interface {
	// Run ingests new calls for every agent tracked by the user. A fetch
	// failure aborts only that agent's iteration; a processing failure
	// skips only that call. Both are reported, not raised.
	Run(ctx context.Context, userID string) (*BatchReport, error)
}

type ingestService struct {
	settings pgrepo.SettingsRepo
	calls    pgrepo.CallRepo
	stats    StatsService
	lister   CallLister
	archive  mongorepo.RawCallRepository // optional
	log      *logrus.Logger

	now func() time.Time
}

func NewIngestService(
	settings pgrepo.SettingsRepo,
	calls pgrepo.CallRepo,
	stats StatsService,
	lister CallLister,
	archive mongorepo.RawCallRepository,
	log *logrus.Logger,
) IngestService {
	if log == nil {
		log = logrus.New()
	}
	return &ingestService{
		settings: settings,
		calls:    calls,
		stats:    stats,
		lister:   lister,
		archive:  archive,
		log:      log,
		now:      time.Now,
	}
}

func (s *ingestService) Run(ctx context.Context, userID string) (*BatchReport, error) {
	const op = "IngestService.Run"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	settings, err := s.settings.Latest(ctx, userID)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeNotFound, op, "no settings found for user", err)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load settings", err)
	}

	report := &BatchReport{}
	for _, agentID := range settings.AgentIDs {
		agentReport := s.runAgent(ctx, userID, settings.RetellAPIKey, agentID)
		report.Agents = append(report.Agents, agentReport)
		report.Processed += agentReport.Processed
		report.Skipped += agentReport.Skipped
		report.Failed += agentReport.Failed
	}
	return report, nil
}

func (s *ingestService) runAgent(ctx context.Context, userID, apiKey, agentID string) AgentReport {
	report := AgentReport{AgentID: agentID}
	log := s.log.WithFields(logrus.Fields{"user_id": userID, "agent_id": agentID})

	after := s.checkpoint(ctx, userID, agentID)
	log.WithField("after_start_timestamp", after).Debug("fetching calls")

	fetched, err := s.lister.ListCalls(ctx, apiKey, retell.ListCallsRequest{
		AgentIDs:            []string{agentID},
		AfterStartTimestamp: after,
		SortOrder:           retell.SortAscending,
		Limit:               fetchLimit,
	})
	if err != nil {
		// Abort this agent's iteration only; other agents still run.
		log.WithError(err).Error("failed to fetch calls")
		report.FetchError = err.Error()
		return report
	}
	report.Fetched = len(fetched)

	for _, call := range fetched {
		// Calls still in flight are left to be re-fetched once ended.
		if call.CallStatus != callStatusEnded || call.EndTimestamp == nil {
			report.Skipped++
			continue
		}

		exists, err := s.calls.Exists(ctx, userID, call.CallID)
		if err != nil {
			report.Failed++
			report.Failures = append(report.Failures, CallFailure{CallID: call.CallID, Error: err.Error()})
			continue
		}
		if exists {
			report.Skipped++
			continue
		}

		if err := s.processCall(ctx, userID, call); err != nil {
			log.WithError(err).WithField("call_id", call.CallID).Error("failed to process call")
			report.Failed++
			report.Failures = append(report.Failures, CallFailure{CallID: call.CallID, Error: err.Error()})
			continue
		}
		report.Processed++
	}

	log.WithFields(logrus.Fields{
		"fetched":   report.Fetched,
		"processed": report.Processed,
		"skipped":   report.Skipped,
		"failed":    report.Failed,
	}).Info("agent ingestion finished")
	return report
}

// checkpoint is the high-water mark for an agent: one millisecond past the
// latest persisted ended call's start, or a 30-day lookback on first run.
func (s *ingestService) checkpoint(ctx context.Context, userID, agentID string) int64 {
	latest, err := s.calls.LatestEnded(ctx, userID, agentID)
	if err != nil {
		return s.now().Add(-checkpointLookback).UnixMilli()
	}
	return latest.StartTimestamp + 1
}

func (s *ingestService) processCall(ctx context.Context, userID string, call retell.CallResource) error {
	const op = "IngestService.processCall"

	transcript := analysis.Normalize(call.TranscriptObject)
	signals := analysis.AnalyzeCall(transcript, call.DisconnectionReason)
	customerName := analysis.ExtractCustomerName(transcript)
	score, reasons := analysis.CsatScore(signals)

	status := models.CallStatusResolved
	if score < analysis.CsatThreshold {
		status = models.CallStatusUnresolved
	}

	row, err := s.buildCallRow(userID, call, transcript, signals, score, reasons, customerName, status)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to encode call row", err)
	}

	if err := s.calls.Insert(ctx, row); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to persist call", err)
	}

	// Raw payload archive is best-effort.
	if s.archive != nil && len(call.Raw) > 0 {
		if err := s.archive.Archive(ctx, userID, call.AgentID, call.CallID, call.Raw); err != nil {
			s.log.WithError(err).WithField("call_id", call.CallID).Warn("failed to archive raw payload")
		}
	}

	// The call row is already committed; if this write fails the day's
	// stats permanently under-count this call (tolerated, reported).
	if err := s.stats.Apply(ctx, userID, call.AgentID, call.StartTimestamp, *call.EndTimestamp, &score); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to update daily stats", err)
	}
	return nil
}

func (s *ingestService) buildCallRow(
	userID string,
	call retell.CallResource,
	transcript []analysis.Utterance,
	signals analysis.CallSignals,
	score int,
	reasons []string,
	customerName, status string,
) (*models.Call, error) {
	row := &models.Call{
		ID:                  uuid.NewString(),
		UserID:              userID,
		CallID:              call.CallID,
		AgentID:             call.AgentID,
		CallType:            call.CallType,
		FromNumber:          call.FromNumber,
		ToNumber:            call.ToNumber,
		Direction:           call.Direction,
		CallStatus:          call.CallStatus,
		StartTimestamp:      call.StartTimestamp,
		EndTimestamp:        call.EndTimestamp,
		Transcript:          call.Transcript,
		RecordingURL:        call.RecordingURL,
		PublicLogURL:        call.PublicLogURL,
		DisconnectionReason: call.DisconnectionReason,
		NoConversation:      signals.NoConversation,
		CsatScore:           &score,
		CsatReasons:         pq.StringArray(reasons),
		CustomerName:        customerName,
		Status:              status,
	}

	if len(call.Metadata) > 0 {
		row.Metadata = datatypes.JSON(call.Metadata)
	}
	if call.CallAnalysis != nil {
		row.CallSummary = call.CallAnalysis.CallSummary
		row.InVoicemail = call.CallAnalysis.InVoicemail
		row.UserSentiment = call.CallAnalysis.UserSentiment
		row.CallSuccessful = call.CallAnalysis.CallSuccessful
		if len(call.CallAnalysis.CustomAnalysisData) > 0 {
			row.CustomAnalysisData = datatypes.JSON(call.CallAnalysis.CustomAnalysisData)
		}
	}

	var err error
	if row.TranscriptObject, err = toJSON(call.TranscriptObject); err != nil {
		return nil, err
	}
	if row.TranscriptWithTimestamp, err = toJSON(transcript); err != nil {
		return nil, err
	}
	if row.LoopsDetection, err = toJSONIf(signals.Loops, len(signals.Loops) > 0); err != nil {
		return nil, err
	}
	if row.PrematureEnding, err = toJSONIf(signals.Premature, signals.Premature != nil); err != nil {
		return nil, err
	}
	if row.LongPauses, err = toJSONIf(signals.Pauses, len(signals.Pauses) > 0); err != nil {
		return nil, err
	}
	if row.OverlappingInterruptions, err = toJSONIf(signals.Interruptions, len(signals.Interruptions) > 0); err != nil {
		return nil, err
	}
	if row.SentimentAnalysis, err = toJSONIf(signals.Sentiment, signals.Sentiment != nil); err != nil {
		return nil, err
	}
	return row, nil
}

func toJSON(v any) (datatypes.JSON, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// toJSONIf keeps "not detected" as a NULL column instead of a JSON null.
func toJSONIf(v any, present bool) (datatypes.JSON, error) {
	if !present {
		return nil, nil
	}
	return toJSON(v)
}
