package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCsatScoreCleanCall(t *testing.T) {
	score, reasons := CsatScore(CallSignals{
		Sentiment: &SentimentReport{
			Entries: []SentimentEntry{{Sentiment: SentimentPositive, Score: 1}},
			Overall: SentimentPositive,
		},
	})
	assert.Equal(t, 100, score)
	assert.Empty(t, reasons)
}

func TestCsatScoreNoConversation(t *testing.T) {
	score, reasons := CsatScore(CallSignals{NoConversation: true})
	assert.Equal(t, 70, score)
	assert.Equal(t, []string{"No meaningful conversation detected"}, reasons)
}

func TestCsatScorePenaltyCaps(t *testing.T) {
	signals := CallSignals{
		Loops:         make([]Loop, 5),         // 50 capped to 30
		Pauses:        make([]Pause, 10),       // 50 capped to 20
		Interruptions: make([]Interruption, 9), // 45 capped to 20
	}
	score, reasons := CsatScore(signals)
	assert.Equal(t, 100-30-20-20, score)
	assert.Equal(t, []string{
		"Detected 5 conversation loops",
		"Detected 10 long pauses",
		"Detected 9 interruptions",
	}, reasons)
}

func TestCsatScorePrematureReasons(t *testing.T) {
	score, reasons := CsatScore(CallSignals{
		Premature: &PrematureEnding{AbruptDisconnection: true, IncompleteConversation: true},
	})
	assert.Equal(t, 80, score)
	assert.Equal(t, []string{"Call ended abruptly", "Conversation ended prematurely"}, reasons)
}

func TestCsatScoreSentiment(t *testing.T) {
	tests := []struct {
		overall string
		score   int
		reasons []string
	}{
		{SentimentNegative, 80, []string{"Overall negative customer sentiment"}},
		{SentimentNeutral, 90, []string{"Neutral customer sentiment"}},
		{SentimentPositive, 100, []string{}},
		{"", 100, []string{}},
	}

	for _, tt := range tests {
		t.Run("overall "+tt.overall, func(t *testing.T) {
			score, reasons := CsatScore(CallSignals{Sentiment: &SentimentReport{Overall: tt.overall}})
			assert.Equal(t, tt.score, score)
			assert.Equal(t, tt.reasons, reasons)
		})
	}
}

func TestCsatScoreClampedAtZero(t *testing.T) {
	score, _ := CsatScore(CallSignals{
		NoConversation: true,
		Loops:          make([]Loop, 3),
		Premature:      &PrematureEnding{AbruptDisconnection: true},
		Pauses:         make([]Pause, 4),
		Interruptions:  make([]Interruption, 4),
		Sentiment:      &SentimentReport{Overall: SentimentNegative},
	})
	// 100 - 30 - 30 - 20 - 20 - 20 - 20 would be negative
	assert.Equal(t, 0, score)
}

func TestCsatScoreReasonOrder(t *testing.T) {
	_, reasons := CsatScore(CallSignals{
		Loops:         make([]Loop, 1),
		Premature:     &PrematureEnding{IncompleteConversation: true},
		Pauses:        make([]Pause, 1),
		Interruptions: make([]Interruption, 1),
		Sentiment:     &SentimentReport{Overall: SentimentNeutral},
	})
	assert.Equal(t, []string{
		"Detected 1 conversation loops",
		"Conversation ended prematurely",
		"Detected 1 long pauses",
		"Detected 1 interruptions",
		"Neutral customer sentiment",
	}, reasons)
}

func TestAnalyzeCallEndToEnd(t *testing.T) {
	transcript := Normalize([]RawEntry{
		{Role: RoleAgent, Content: "Hello?", Words: []Word{{Word: "Hello?", Start: 0, End: 1}}},
		{Role: RoleCustomer, Content: "Hi", Words: []Word{{Word: "Hi", Start: 2, End: 3}}},
	})
	require.Len(t, transcript, 2)

	signals := AnalyzeCall(transcript, "user_hangup")
	assert.False(t, signals.NoConversation)
	assert.Nil(t, signals.Loops)
	assert.Nil(t, signals.Pauses)
	assert.Nil(t, signals.Interruptions)
	assert.Nil(t, signals.Premature)
	require.NotNil(t, signals.Sentiment)
	assert.Equal(t, SentimentNeutral, signals.Sentiment.Entries[0].Sentiment)
	assert.Equal(t, "", signals.Sentiment.Overall)

	score, reasons := CsatScore(signals)
	assert.Equal(t, 100, score)
	assert.Empty(t, reasons)
}
