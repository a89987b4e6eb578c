package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/callwatch/callwatch/internal/models"
	"github.com/callwatch/callwatch/internal/utils"
)

type fakeScriptRepo struct {
	scripts []models.OfficialScript
}

func (f *fakeScriptRepo) Upsert(_ context.Context, script *models.OfficialScript) error {
	f.scripts = append(f.scripts, *script)
	return nil
}

func (f *fakeScriptRepo) ListByAgentIDs(_ context.Context, userID string, agentIDs []string) ([]models.OfficialScript, error) {
	wanted := map[string]bool{}
	for _, id := range agentIDs {
		wanted[id] = true
	}
	var out []models.OfficialScript
	for _, s := range f.scripts {
		if s.UserID == userID && wanted[s.AgentID] {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeArchive struct {
	docs map[string]*models.RawCallDocument
}

func (f *fakeArchive) Archive(_ context.Context, userID, agentID, callID string, _ json.RawMessage) error {
	if f.docs == nil {
		f.docs = map[string]*models.RawCallDocument{}
	}
	f.docs[userID+"|"+callID] = &models.RawCallDocument{UserID: userID, AgentID: agentID, CallID: callID}
	return nil
}

func (f *fakeArchive) Get(_ context.Context, userID, callID string) (*models.RawCallDocument, error) {
	doc, ok := f.docs[userID+"|"+callID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return doc, nil
}

func TestAgentRawCall(t *testing.T) {
	archive := &fakeArchive{docs: map[string]*models.RawCallDocument{
		"u1|c1": {UserID: "u1", AgentID: "a1", CallID: "c1"},
	}}
	svc := NewAgentService(&fakeSettingsRepo{}, &fakeScriptRepo{}, newFakeCallRepo(), nil, nil, archive, nil)

	doc, err := svc.RawCall(context.Background(), "u1", "c1")
	require.NoError(t, err)
	assert.Equal(t, "a1", doc.AgentID)

	_, err = svc.RawCall(context.Background(), "u1", "missing")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestAgentRawCallWithoutArchive(t *testing.T) {
	svc := NewAgentService(&fakeSettingsRepo{}, &fakeScriptRepo{}, newFakeCallRepo(), nil, nil, nil, nil)

	_, err := svc.RawCall(context.Background(), "u1", "c1")
	assert.True(t, utils.IsCode(err, utils.CodeUnavailable))
}

func TestAgentNamesWithoutSettings(t *testing.T) {
	svc := NewAgentService(&fakeSettingsRepo{}, &fakeScriptRepo{}, newFakeCallRepo(), nil, nil, nil, nil)

	names, err := svc.AgentNames(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, names)
}
