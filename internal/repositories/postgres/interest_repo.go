package postgres

import (
	"context"

	"github.com/callwatch/callwatch/internal/models"
	"gorm.io/gorm"
)

type InterestRepo interface {
	Insert(ctx context.Context, submission *models.InterestSubmission) error
	List(ctx context.Context) ([]models.InterestSubmission, error)
}

type interestRepo struct {
	db *gorm.DB
}

func NewInterestRepo(db *gorm.DB) InterestRepo {
	return &interestRepo{db: db}
}

func (r *interestRepo) Insert(ctx context.Context, submission *models.InterestSubmission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *interestRepo) List(ctx context.Context) ([]models.InterestSubmission, error) {
	var rows []models.InterestSubmission
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error
	return rows, err
}
