package postgres

import (
	"context"
	"errors"

	"github.com/callwatch/callwatch/internal/models"
	"github.com/callwatch/callwatch/internal/utils"
	"gorm.io/gorm"
)

type CallRepo interface {
	Insert(ctx context.Context, call *models.Call) error
	Exists(ctx context.Context, userID, callID string) (bool, error)
	GetByCallID(ctx context.Context, userID, callID string) (*models.Call, error)
	// LatestEnded returns the most recent ended call (by end timestamp) for
	// an agent, or utils.ErrNotFound when the agent has none on record.
	LatestEnded(ctx context.Context, userID, agentID string) (*models.Call, error)
	ListByAgentRange(ctx context.Context, userID, agentID string, startMs, endMs int64) ([]models.Call, error)
}

type callRepo struct {
	db *gorm.DB
}

func NewCallRepo(db *gorm.DB) CallRepo {
	return &callRepo{db: db}
}

func (r *callRepo) Insert(ctx context.Context, call *models.Call) error {
	return r.db.WithContext(ctx).Create(call).Error
}

func (r *callRepo) Exists(ctx context.Context, userID, callID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Call{}).
		Where("user_id = ? AND call_id = ?", userID, callID).
		Count(&count).Error
	return count > 0, err
}

func (r *callRepo) GetByCallID(ctx context.Context, userID, callID string) (*models.Call, error) {
	var row models.Call
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND call_id = ?", userID, callID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *callRepo) LatestEnded(ctx context.Context, userID, agentID string) (*models.Call, error) {
	var row models.Call
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND agent_id = ? AND call_status = ? AND end_timestamp IS NOT NULL",
			userID, agentID, "ended").
		Order("end_timestamp DESC").
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *callRepo) ListByAgentRange(ctx context.Context, userID, agentID string, startMs, endMs int64) ([]models.Call, error) {
	var rows []models.Call
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND agent_id = ? AND start_timestamp >= ? AND start_timestamp <= ?",
			userID, agentID, startMs, endMs).
		Order("start_timestamp DESC").
		Find(&rows).Error
	return rows, err
}
