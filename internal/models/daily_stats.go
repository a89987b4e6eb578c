package models

import "time"

// DailyStatsAgent holds running per-agent counters for one UTC calendar day.
// Invariants: successful_calls + failed_calls == total_calls,
// scored_calls <= total_calls, and average_csat_score is the mean of exactly
// the scored_calls CSAT scores.
type DailyStatsAgent struct {
	ID      string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID  string    `gorm:"column:user_id;type:uuid;uniqueIndex:uniq_user_agent_date" json:"user_id"`
	AgentID string    `gorm:"column:agent_id;type:text;uniqueIndex:uniq_user_agent_date" json:"agent_id"`
	Date    time.Time `gorm:"column:date;type:date;uniqueIndex:uniq_user_agent_date" json:"date"`

	TotalCalls       int      `gorm:"column:total_calls" json:"total_calls"`
	TotalDuration    int64    `gorm:"column:total_duration" json:"total_duration"` // seconds, integer-rounded
	AverageDuration  float64  `gorm:"column:average_duration" json:"average_duration"`
	SuccessfulCalls  int      `gorm:"column:successful_calls" json:"successful_calls"`
	FailedCalls      int      `gorm:"column:failed_calls" json:"failed_calls"`
	ScoredCalls      int      `gorm:"column:scored_calls" json:"scored_calls"`
	AverageCsatScore *float64 `gorm:"column:average_csat_score" json:"average_csat_score"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (DailyStatsAgent) TableName() string { return "daily_stats_agents" }
