package models

import (
	"time"

	"github.com/lib/pq"
)

// UserSettings stores the telephony platform credential and the agent IDs
// tracked for a user. Submitting settings replaces the user's rows, so the
// latest row by updated_at is authoritative.
type UserSettings struct {
	ID           string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID       string         `gorm:"column:user_id;type:uuid;index" json:"user_id"`
	RetellAPIKey string         `gorm:"column:retell_api_key;type:text" json:"retell_api_key"`
	AgentIDs     pq.StringArray `gorm:"column:agent_ids;type:text[]" json:"agent_ids"`
	CreatedAt    time.Time      `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (UserSettings) TableName() string { return "user_settings" }

// OfficialScript is the prompt configured for an agent on the telephony
// platform, synced when settings are submitted and used for display names.
type OfficialScript struct {
	ID            string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID        string    `gorm:"column:user_id;type:uuid;uniqueIndex:uniq_user_agent_script" json:"user_id"`
	AgentID       string    `gorm:"column:agent_id;type:text;uniqueIndex:uniq_user_agent_script" json:"agent_id"`
	AgentName     string    `gorm:"column:agent_name;type:text" json:"agent_name"`
	ScriptContent string    `gorm:"column:script_content;type:text" json:"script_content"`
	CreatedAt     time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (OfficialScript) TableName() string { return "official_scripts" }
