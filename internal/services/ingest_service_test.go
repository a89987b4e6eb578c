package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/callwatch/callwatch/internal/analysis"
	"github.com/callwatch/callwatch/internal/models"
	"github.com/callwatch/callwatch/internal/retell"
	"github.com/callwatch/callwatch/internal/utils"
)

type fakeSettingsRepo struct {
	settings *models.UserSettings
}

func (f *fakeSettingsRepo) Latest(_ context.Context, userID string) (*models.UserSettings, error) {
	if f.settings == nil || f.settings.UserID != userID {
		return nil, utils.ErrNotFound
	}
	return f.settings, nil
}

func (f *fakeSettingsRepo) Replace(_ context.Context, settings *models.UserSettings) error {
	f.settings = settings
	return nil
}

func (f *fakeSettingsRepo) UserIDs(_ context.Context) ([]string, error) {
	if f.settings == nil {
		return nil, nil
	}
	return []string{f.settings.UserID}, nil
}

type fakeCallRepo struct {
	calls     map[string]*models.Call
	insertErr error
}

func newFakeCallRepo() *fakeCallRepo {
	return &fakeCallRepo{calls: map[string]*models.Call{}}
}

func (f *fakeCallRepo) Insert(_ context.Context, call *models.Call) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.calls[call.UserID+"|"+call.CallID] = call
	return nil
}

func (f *fakeCallRepo) Exists(_ context.Context, userID, callID string) (bool, error) {
	_, ok := f.calls[userID+"|"+callID]
	return ok, nil
}

func (f *fakeCallRepo) GetByCallID(_ context.Context, userID, callID string) (*models.Call, error) {
	row, ok := f.calls[userID+"|"+callID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return row, nil
}

func (f *fakeCallRepo) LatestEnded(_ context.Context, userID, agentID string) (*models.Call, error) {
	var latest *models.Call
	for _, row := range f.calls {
		if row.UserID != userID || row.AgentID != agentID ||
			row.CallStatus != "ended" || row.EndTimestamp == nil {
			continue
		}
		if latest == nil || *row.EndTimestamp > *latest.EndTimestamp {
			latest = row
		}
	}
	if latest == nil {
		return nil, utils.ErrNotFound
	}
	return latest, nil
}

func (f *fakeCallRepo) ListByAgentRange(_ context.Context, userID, agentID string, startMs, endMs int64) ([]models.Call, error) {
	var out []models.Call
	for _, row := range f.calls {
		if row.UserID == userID && row.AgentID == agentID &&
			row.StartTimestamp >= startMs && row.StartTimestamp <= endMs {
			out = append(out, *row)
		}
	}
	return out, nil
}

type statsCall struct {
	userID, agentID  string
	startMs, endMs   int64
	csatScore        *int
}

type recordingStats struct {
	applied []statsCall
}

func (r *recordingStats) Apply(_ context.Context, userID, agentID string, startMs, endMs int64, csatScore *int) error {
	r.applied = append(r.applied, statsCall{userID, agentID, startMs, endMs, csatScore})
	return nil
}

func (r *recordingStats) ListRange(context.Context, string, string, time.Time, time.Time) ([]models.DailyStatsAgent, error) {
	return nil, nil
}

type fakeLister struct {
	byAgent  map[string][]retell.CallResource
	errAgent map[string]error
	requests []retell.ListCallsRequest
}

func (f *fakeLister) ListCalls(_ context.Context, _ string, req retell.ListCallsRequest) ([]retell.CallResource, error) {
	f.requests = append(f.requests, req)
	agentID := req.AgentIDs[0]
	if err := f.errAgent[agentID]; err != nil {
		return nil, err
	}
	return f.byAgent[agentID], nil
}

func i64Ptr(v int64) *int64 { return &v }

func greetingCall(callID, agentID string, startMs int64) retell.CallResource {
	return retell.CallResource{
		CallID:         callID,
		AgentID:        agentID,
		CallStatus:     "ended",
		StartTimestamp: startMs,
		EndTimestamp:   i64Ptr(startMs + 8_000),
		Transcript:     "Agent: Hello?\nUser: Hi",
		TranscriptObject: []analysis.RawEntry{
			{Role: analysis.RoleAgent, Content: "Hello?", Words: []analysis.Word{
				{Word: "Hello?", Start: 0.5, End: 1.0},
			}},
			{Role: analysis.RoleCustomer, Content: "Hi", Words: []analysis.Word{
				{Word: "Hi", Start: 2.0, End: 2.3},
			}},
		},
		DisconnectionReason: "user_hangup",
	}
}

func newTestIngest(settings *fakeSettingsRepo, calls *fakeCallRepo, stats *recordingStats, lister *fakeLister) *ingestService {
	return NewIngestService(settings, calls, stats, lister, nil, nil).(*ingestService)
}

func trackedUser(agentIDs ...string) *fakeSettingsRepo {
	return &fakeSettingsRepo{settings: &models.UserSettings{
		ID:           "s1",
		UserID:       "u1",
		RetellAPIKey: "key-1",
		AgentIDs:     pq.StringArray(agentIDs),
	}}
}

func TestIngestRunProcessesGreetingCall(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC).UnixMilli()
	calls := newFakeCallRepo()
	stats := &recordingStats{}
	lister := &fakeLister{byAgent: map[string][]retell.CallResource{
		"a1": {greetingCall("c1", "a1", start)},
	}}

	svc := newTestIngest(trackedUser("a1"), calls, stats, lister)
	report, err := svc.Run(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 0, report.Failed)

	row, err := calls.GetByCallID(context.Background(), "u1", "c1")
	require.NoError(t, err)
	require.NotNil(t, row.CsatScore)
	assert.Equal(t, 100, *row.CsatScore)
	assert.Empty(t, []string(row.CsatReasons))
	assert.Equal(t, models.CallStatusResolved, row.Status)

	require.Len(t, stats.applied, 1)
	require.NotNil(t, stats.applied[0].csatScore)
	assert.Equal(t, 100, *stats.applied[0].csatScore)
	assert.Equal(t, start, stats.applied[0].startMs)
}

func TestIngestRunSkipsCallsStillInFlight(t *testing.T) {
	start := time.Now().UnixMilli()
	ongoing := greetingCall("c2", "a1", start)
	ongoing.CallStatus = "ongoing"
	ongoing.EndTimestamp = nil

	calls := newFakeCallRepo()
	stats := &recordingStats{}
	lister := &fakeLister{byAgent: map[string][]retell.CallResource{"a1": {ongoing}}}

	svc := newTestIngest(trackedUser("a1"), calls, stats, lister)
	report, err := svc.Run(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, 0, report.Processed)
	assert.Equal(t, 1, report.Skipped)
	assert.Empty(t, calls.calls)
	assert.Empty(t, stats.applied)
}

func TestIngestRunIsIdempotent(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC).UnixMilli()
	calls := newFakeCallRepo()
	stats := &recordingStats{}
	lister := &fakeLister{byAgent: map[string][]retell.CallResource{
		"a1": {greetingCall("c1", "a1", start)},
	}}

	svc := newTestIngest(trackedUser("a1"), calls, stats, lister)
	ctx := context.Background()

	_, err := svc.Run(ctx, "u1")
	require.NoError(t, err)
	report, err := svc.Run(ctx, "u1")
	require.NoError(t, err)

	// Second run re-fetches the same call but does not reprocess it.
	assert.Equal(t, 0, report.Processed)
	assert.Equal(t, 1, report.Skipped)
	assert.Len(t, stats.applied, 1)
}

func TestIngestRunIsolatesAgentFetchFailure(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC).UnixMilli()
	calls := newFakeCallRepo()
	stats := &recordingStats{}
	lister := &fakeLister{
		byAgent:  map[string][]retell.CallResource{"a2": {greetingCall("c3", "a2", start)}},
		errAgent: map[string]error{"a1": errors.New("upstream down")},
	}

	svc := newTestIngest(trackedUser("a1", "a2"), calls, stats, lister)
	report, err := svc.Run(context.Background(), "u1")
	require.NoError(t, err)

	require.Len(t, report.Agents, 2)
	assert.Equal(t, "upstream down", report.Agents[0].FetchError)
	assert.Equal(t, 0, report.Agents[0].Processed)
	assert.Equal(t, 1, report.Agents[1].Processed)
	assert.Equal(t, 1, report.Processed)
}

func TestIngestRunIsolatesPerCallFailure(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC).UnixMilli()
	calls := newFakeCallRepo()
	calls.insertErr = errors.New("db write failed")
	stats := &recordingStats{}
	lister := &fakeLister{byAgent: map[string][]retell.CallResource{
		"a1": {greetingCall("c1", "a1", start), greetingCall("c2", "a1", start+60_000)},
	}}

	svc := newTestIngest(trackedUser("a1"), calls, stats, lister)
	report, err := svc.Run(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, 0, report.Processed)
	assert.Equal(t, 2, report.Failed)
	require.Len(t, report.Agents, 1)
	assert.Len(t, report.Agents[0].Failures, 2)
	assert.Empty(t, stats.applied)
}

func TestIngestCheckpointResumesAfterLatestCall(t *testing.T) {
	calls := newFakeCallRepo()
	end := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC).UnixMilli()
	calls.calls["u1|old"] = &models.Call{
		UserID:         "u1",
		CallID:         "old",
		AgentID:        "a1",
		CallStatus:     "ended",
		StartTimestamp: end - 60_000,
		EndTimestamp:   i64Ptr(end),
	}

	stats := &recordingStats{}
	lister := &fakeLister{byAgent: map[string][]retell.CallResource{}}

	svc := newTestIngest(trackedUser("a1"), calls, stats, lister)
	_, err := svc.Run(context.Background(), "u1")
	require.NoError(t, err)

	require.Len(t, lister.requests, 1)
	assert.Equal(t, end-60_000+1, lister.requests[0].AfterStartTimestamp)
	assert.Equal(t, retell.SortAscending, lister.requests[0].SortOrder)
	assert.Equal(t, 100, lister.requests[0].Limit)
}

func TestIngestCheckpointDefaultsToThirtyDayLookback(t *testing.T) {
	calls := newFakeCallRepo()
	stats := &recordingStats{}
	lister := &fakeLister{byAgent: map[string][]retell.CallResource{}}

	svc := newTestIngest(trackedUser("a1"), calls, stats, lister)
	now := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	_, err := svc.Run(context.Background(), "u1")
	require.NoError(t, err)

	require.Len(t, lister.requests, 1)
	assert.Equal(t, now.AddDate(0, 0, -30).UnixMilli(), lister.requests[0].AfterStartTimestamp)
}

func TestIngestRunRequiresSettings(t *testing.T) {
	svc := newTestIngest(&fakeSettingsRepo{}, newFakeCallRepo(), &recordingStats{}, &fakeLister{})
	_, err := svc.Run(context.Background(), "u1")
	assert.Error(t, err)
}
