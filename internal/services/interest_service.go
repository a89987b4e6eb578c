package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/callwatch/callwatch/internal/models"
	pgrepo "github.com/callwatch/callwatch/internal/repositories/postgres"
	"github.com/callwatch/callwatch/internal/utils"
)

type InterestService interface {
	Submit(ctx context.Context, name, email, company, message string) (*models.InterestSubmission, error)
	List(ctx context.Context) ([]models.InterestSubmission, error)
}

type interestService struct {
	interests pgrepo.InterestRepo
}

func NewInterestService(interests pgrepo.InterestRepo) InterestService {
	return &interestService{interests: interests}
}

func (s *interestService) Submit(ctx context.Context, name, email, company, message string) (*models.InterestSubmission, error) {
	const op = "InterestService.Submit"

	if name == "" || email == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "name and email are required", nil)
	}

	row := &models.InterestSubmission{
		ID:      uuid.NewString(),
		Name:    name,
		Email:   email,
		Company: company,
		Message: message,
	}
	if err := s.interests.Insert(ctx, row); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to store submission", err)
	}
	return row, nil
}

func (s *interestService) List(ctx context.Context) ([]models.InterestSubmission, error) {
	const op = "InterestService.List"

	rows, err := s.interests.List(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list submissions", err)
	}
	return rows, nil
}
