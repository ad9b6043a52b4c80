package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/foodbridge-api/internal/models"
	"github.com/foodbridge-api/internal/repository"
	"github.com/foodbridge-api/internal/validation"
	apperrors "github.com/foodbridge-api/pkg/errors"
)

// beneficiaryService is the concrete implementation of BeneficiaryService
type beneficiaryService struct {
	repo repository.BeneficiaryRepository
	log  zerolog.Logger
}

func newBeneficiaryService(repo repository.BeneficiaryRepository, log zerolog.Logger) *beneficiaryService {
	return &beneficiaryService{
		repo: repo,
		log:  log.With().Str("service", "beneficiary").Logger(),
	}
}

// Add registers a household as an active beneficiary with no meals received
func (s *beneficiaryService) Add(ctx context.Context, input *models.BeneficiaryInput) (*models.Beneficiary, error) {
	if errs := validation.ValidateBeneficiary(input); len(errs) > 0 {
		return nil, apperrors.NewValidationError(validation.Summary(errs))
	}

	now := time.Now()
	b := &models.Beneficiary{
		ID:                 uuid.New().String(),
		Name:               input.Name,
		Email:              input.Email,
		Phone:              input.Phone,
		Address:            input.Address,
		FamilySize:         input.FamilySize,
		SpecialNeeds:       input.SpecialNeeds,
		Notes:              input.Notes,
		Status:             models.BeneficiaryStatusActive,
		TotalMealsReceived: 0,
		LastServed:         now,
		AddedDate:          now,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, apperrors.NewInternalError("failed to store beneficiary", err)
	}

	s.log.Info().Str("beneficiary_id", b.ID).Int("family_size", b.FamilySize).Msg("Beneficiary added")
	return b, nil
}

// List returns beneficiaries matching search, or all when search is empty
func (s *beneficiaryService) List(ctx context.Context, search string) ([]*models.Beneficiary, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if search == "" {
		return all, nil
	}

	matched := make([]*models.Beneficiary, 0, len(all))
	for _, b := range all {
		if b.MatchesSearch(search) {
			matched = append(matched, b)
		}
	}
	return matched, nil
}

func (s *beneficiaryService) Update(ctx context.Context, id string, upd *models.BeneficiaryUpdate) (*models.Beneficiary, error) {
	if upd.FamilySize != nil && *upd.FamilySize < 1 {
		return nil, apperrors.NewValidationError("family_size must be at least 1")
	}

	b, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperrors.NewNotFoundError("beneficiary not found")
	}
	return b, nil
}

func (s *beneficiaryService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
