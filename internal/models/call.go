package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Call statuses derived from the CSAT score.
const (
	CallStatusResolved   = "Resolved"
	CallStatusUnresolved = "Unresolved"
)

// Call is one ingested call with its upstream fields and the derived
// analysis results. Rows are append-only: created once per (user_id, call_id)
// at ingestion time and never mutated afterward.
type Call struct {
	ID      string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID  string `gorm:"column:user_id;type:uuid;uniqueIndex:uniq_user_call;index" json:"user_id"`
	CallID  string `gorm:"column:call_id;type:text;uniqueIndex:uniq_user_call" json:"call_id"`
	AgentID string `gorm:"column:agent_id;type:text;index" json:"agent_id"`

	// Pass-through upstream fields.
	CallType            string         `gorm:"column:call_type;type:text" json:"call_type"`
	FromNumber          string         `gorm:"column:from_number;type:text" json:"from_number"`
	ToNumber            string         `gorm:"column:to_number;type:text" json:"to_number"`
	Direction           string         `gorm:"column:direction;type:text" json:"direction"`
	CallStatus          string         `gorm:"column:call_status;type:text" json:"call_status"`
	Metadata            datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	StartTimestamp      int64          `gorm:"column:start_timestamp;index" json:"start_timestamp"` // epoch ms
	EndTimestamp        *int64         `gorm:"column:end_timestamp" json:"end_timestamp"`           // epoch ms
	Transcript          string         `gorm:"column:transcript;type:text" json:"transcript"`
	TranscriptObject    datatypes.JSON `gorm:"column:transcript_object;type:jsonb" json:"transcript_object,omitempty"`
	RecordingURL        string         `gorm:"column:recording_url;type:text" json:"recording_url"`
	PublicLogURL        string         `gorm:"column:public_log_url;type:text" json:"public_log_url"`
	DisconnectionReason string         `gorm:"column:disconnection_reason;type:text" json:"disconnection_reason"`

	// Upstream call_analysis fields.
	CallSummary        string         `gorm:"column:call_summary;type:text" json:"call_summary"`
	InVoicemail        *bool          `gorm:"column:in_voicemail" json:"in_voicemail,omitempty"`
	UserSentiment      string         `gorm:"column:user_sentiment;type:text" json:"user_sentiment"`
	CallSuccessful     *bool          `gorm:"column:call_successful" json:"call_successful,omitempty"`
	CustomAnalysisData datatypes.JSON `gorm:"column:custom_analysis_data;type:jsonb" json:"custom_analysis_data,omitempty"`

	// Derived fields.
	TranscriptWithTimestamp  datatypes.JSON `gorm:"column:transcript_with_timestamp;type:jsonb" json:"transcript_with_timestamp,omitempty"`
	NoConversation           bool           `gorm:"column:no_conversation" json:"no_conversation"`
	LoopsDetection           datatypes.JSON `gorm:"column:loops_detection;type:jsonb" json:"loops_detection,omitempty"`
	PrematureEnding          datatypes.JSON `gorm:"column:premature_ending;type:jsonb" json:"premature_ending,omitempty"`
	LongPauses               datatypes.JSON `gorm:"column:long_pauses;type:jsonb" json:"long_pauses,omitempty"`
	OverlappingInterruptions datatypes.JSON `gorm:"column:overlapping_interruptions;type:jsonb" json:"overlapping_interruptions,omitempty"`
	SentimentAnalysis        datatypes.JSON `gorm:"column:sentiment_analysis;type:jsonb" json:"sentiment_analysis,omitempty"`
	CsatScore                *int           `gorm:"column:csat_score" json:"csat_score"`
	CsatReasons              pq.StringArray `gorm:"column:csat_reasons;type:text[]" json:"csat_reasons"`
	CustomerName             string         `gorm:"column:customer_name;type:text" json:"customer_name"`
	Status                   string         `gorm:"column:status;type:text" json:"status"` // Resolved|Unresolved

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Call) TableName() string { return "calls" }

// DurationSeconds is the call length derived from the upstream epoch-ms
// timestamps; zero when the call has not ended.
func (c *Call) DurationSeconds() float64 {
	if c.EndTimestamp == nil {
		return 0
	}
	return float64(*c.EndTimestamp-c.StartTimestamp) / 1000.0
}
