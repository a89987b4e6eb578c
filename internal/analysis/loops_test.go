package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fourTurns(agentFirst, agentSecond string) []Utterance {
	return []Utterance{
		{Role: RoleAgent, Content: agentFirst, StartTimestamp: 0, EndTimestamp: 2},
		{Role: RoleCustomer, Content: "okay", StartTimestamp: 2, EndTimestamp: 3},
		{Role: RoleAgent, Content: agentSecond, StartTimestamp: 3, EndTimestamp: 5},
		{Role: RoleCustomer, Content: "right", StartTimestamp: 5, EndTimestamp: 6},
	}
}

func TestDetectLoopsIdenticalText(t *testing.T) {
	loops := DetectLoops(fourTurns("please hold the line", "please hold the line"))
	require.Len(t, loops, 1)
	assert.Equal(t, 0.0, loops[0].FirstStart)
	assert.Equal(t, 3.0, loops[0].SecondStart)
	assert.Equal(t, 1.0, loops[0].Similarity)
}

func TestDetectLoopsDisjointText(t *testing.T) {
	assert.Nil(t, DetectLoops(fourTurns("please hold the line", "thanks for calling today")))
}

func TestDetectLoopsCaseInsensitive(t *testing.T) {
	loops := DetectLoops(fourTurns("Please HOLD the Line", "please hold the line"))
	require.Len(t, loops, 1)
	assert.Equal(t, 1.0, loops[0].Similarity)
}

func TestDetectLoopsBelowThreshold(t *testing.T) {
	// 3 shared words of 5 total -> 0.6 similarity
	assert.Nil(t, DetectLoops(fourTurns("please hold the line", "please hold the phone")))
}

func TestDetectLoopsRequiresFourUtterances(t *testing.T) {
	transcript := []Utterance{
		{Role: RoleAgent, Content: "same words"},
		{Role: RoleAgent, Content: "same words"},
		{Role: RoleCustomer, Content: "ok"},
	}
	assert.Nil(t, DetectLoops(transcript))
}

func TestDetectLoopsRequiresTwoAgentUtterances(t *testing.T) {
	transcript := []Utterance{
		{Role: RoleAgent, Content: "hello there"},
		{Role: RoleCustomer, Content: "hello there"},
		{Role: RoleCustomer, Content: "hello there"},
		{Role: RoleCustomer, Content: "hello there"},
	}
	assert.Nil(t, DetectLoops(transcript))
}

func TestDetectLoopsAllPairs(t *testing.T) {
	transcript := []Utterance{
		{Role: RoleAgent, Content: "can you repeat that", StartTimestamp: 0},
		{Role: RoleCustomer, Content: "sure", StartTimestamp: 2},
		{Role: RoleAgent, Content: "can you repeat that", StartTimestamp: 4},
		{Role: RoleAgent, Content: "can you repeat that", StartTimestamp: 8},
	}
	// three qualifying unordered pairs
	assert.Len(t, DetectLoops(transcript), 3)
}

func TestJaccardSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, jaccardSimilarity("a b c", "c b a"))
	assert.Equal(t, 0.0, jaccardSimilarity("a b", "c d"))
	assert.Equal(t, 0.5, jaccardSimilarity("a b c", "a b d"))
}
