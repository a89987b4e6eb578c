package postgres

import (
	"context"
	"errors"

	"github.com/callwatch/callwatch/internal/models"
	"github.com/callwatch/callwatch/internal/utils"
	"gorm.io/gorm"
)

type SettingsRepo interface {
	Latest(ctx context.Context, userID string) (*models.UserSettings, error)
	// Replace removes the user's previous settings rows and inserts the new
	// one in a single transaction.
	Replace(ctx context.Context, settings *models.UserSettings) error
	// UserIDs lists every user that has settings, for the ingest poller.
	UserIDs(ctx context.Context) ([]string, error)
}

type settingsRepo struct {
	db *gorm.DB
}

func NewSettingsRepo(db *gorm.DB) SettingsRepo {
	return &settingsRepo{db: db}
}

func (r *settingsRepo) Latest(ctx context.Context, userID string) (*models.UserSettings, error) {
	var row models.UserSettings
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *settingsRepo) Replace(ctx context.Context, settings *models.UserSettings) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", settings.UserID).
			Delete(&models.UserSettings{}).Error; err != nil {
			return err
		}
		return tx.Create(settings).Error
	})
}

func (r *settingsRepo) UserIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.UserSettings{}).
		Distinct("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}
