package postgres

import (
	"context"

	"github.com/callwatch/callwatch/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ScriptRepo interface {
	Upsert(ctx context.Context, script *models.OfficialScript) error
	ListByAgentIDs(ctx context.Context, userID string, agentIDs []string) ([]models.OfficialScript, error)
}

type scriptRepo struct {
	db *gorm.DB
}

func NewScriptRepo(db *gorm.DB) ScriptRepo {
	return &scriptRepo{db: db}
}

func (r *scriptRepo) Upsert(ctx context.Context, script *models.OfficialScript) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "agent_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"agent_name", "script_content", "updated_at",
			}),
		}).
		Create(script).Error
}

func (r *scriptRepo) ListByAgentIDs(ctx context.Context, userID string, agentIDs []string) ([]models.OfficialScript, error) {
	if len(agentIDs) == 0 {
		return nil, nil
	}
	var rows []models.OfficialScript
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND agent_id IN ?", userID, agentIDs).
		Find(&rows).Error
	return rows, err
}
