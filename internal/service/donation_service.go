package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/foodbridge-api/internal/events"
	"github.com/foodbridge-api/internal/models"
	"github.com/foodbridge-api/internal/repository"
	"github.com/foodbridge-api/internal/validation"
	apperrors "github.com/foodbridge-api/pkg/errors"
)

const errDonationNotFound = "donation not found"

// donationService is the concrete implementation of DonationService
type donationService struct {
	repo      repository.DonationRepository
	publisher events.Publisher
	log       zerolog.Logger
}

func newDonationService(repo repository.DonationRepository, publisher events.Publisher, log zerolog.Logger) *donationService {
	return &donationService{
		repo:      repo,
		publisher: publisher,
		log:       log.With().Str("service", "donation").Logger(),
	}
}

// Post lists a new donation owned by owner
func (s *donationService) Post(ctx context.Context, owner *models.User, input *models.DonationInput) (*models.Donation, error) {
	if owner == nil {
		return nil, apperrors.NewUnauthorizedError("authentication required")
	}
	if errs := validation.ValidateDonation(input); len(errs) > 0 {
		return nil, apperrors.NewValidationError(validation.Summary(errs))
	}

	donation := &models.Donation{
		ID:                  uuid.New().String(),
		DonorID:             owner.ID,
		DonorName:           owner.DisplayName(),
		Title:               input.Title,
		Description:         input.Description,
		FoodType:            input.FoodType,
		Quantity:            input.Quantity,
		Unit:                input.Unit,
		ExpiryDate:          input.ExpiryDate,
		PickupAddress:       input.PickupAddress,
		PickupTime:          input.PickupTime,
		Status:              models.DonationStatusAvailable,
		Images:              input.Images,
		DietaryInfo:         input.DietaryInfo,
		SpecialInstructions: input.SpecialInstructions,
		CreatedAt:           time.Now(),
	}

	if err := s.repo.Create(ctx, donation); err != nil {
		return nil, apperrors.NewInternalError("failed to store donation", err)
	}

	s.log.Info().Str("donation_id", donation.ID).Str("donor_id", owner.ID).Msg("Donation posted")
	publish(ctx, s.publisher, s.log, events.TypeDonationPosted, donation)
	return donation, nil
}

// ListByOwner returns the donations posted by ownerID
func (s *donationService) ListByOwner(ctx context.Context, ownerID string) ([]*models.Donation, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// ListAll returns every donation passing filter
func (s *donationService) ListAll(ctx context.Context, filter models.DonationFilter) ([]*models.Donation, error) {
	if filter.Status != "" && !models.ValidDonationStatuses[filter.Status] {
		return nil, apperrors.NewValidationError("invalid status filter: " + string(filter.Status))
	}
	return s.repo.List(ctx, filter)
}

// Get returns one donation
func (s *donationService) Get(ctx context.Context, id string) (*models.Donation, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperrors.NewNotFoundError(errDonationNotFound)
	}
	return d, nil
}

// Update merges upd into the donation
func (s *donationService) Update(ctx context.Context, id string, upd *models.DonationUpdate) (*models.Donation, error) {
	if upd.Status != nil && !models.ValidDonationStatuses[*upd.Status] {
		return nil, apperrors.NewValidationError("invalid status: " + string(*upd.Status))
	}
	if upd.FoodType != nil && !models.ValidFoodTypes[*upd.FoodType] {
		return nil, apperrors.NewValidationError("invalid food_type: " + *upd.FoodType)
	}

	d, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperrors.NewNotFoundError(errDonationNotFound)
	}
	return d, nil
}

// Delete removes the donation; unknown ids are ignored
func (s *donationService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
