package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/callwatch/callwatch/internal/models"
	"github.com/callwatch/callwatch/internal/utils"
	"gorm.io/gorm"
)

type DailyStatsRepo interface {
	Get(ctx context.Context, userID, agentID string, date time.Time) (*models.DailyStatsAgent, error)
	Create(ctx context.Context, row *models.DailyStatsAgent) error
	Update(ctx context.Context, row *models.DailyStatsAgent) error
	ListRange(ctx context.Context, userID, agentID string, from, to time.Time) ([]models.DailyStatsAgent, error)
}

type dailyStatsRepo struct {
	db *gorm.DB
}

func NewDailyStatsRepo(db *gorm.DB) DailyStatsRepo {
	return &dailyStatsRepo{db: db}
}

func (r *dailyStatsRepo) Get(ctx context.Context, userID, agentID string, date time.Time) (*models.DailyStatsAgent, error) {
	var row models.DailyStatsAgent
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND agent_id = ? AND date = ?", userID, agentID, date).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *dailyStatsRepo) Create(ctx context.Context, row *models.DailyStatsAgent) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *dailyStatsRepo) Update(ctx context.Context, row *models.DailyStatsAgent) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *dailyStatsRepo) ListRange(ctx context.Context, userID, agentID string, from, to time.Time) ([]models.DailyStatsAgent, error) {
	var rows []models.DailyStatsAgent
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND agent_id = ? AND date >= ? AND date <= ?", userID, agentID, from, to).
		Order("date ASC").
		Find(&rows).Error
	return rows, err
}
