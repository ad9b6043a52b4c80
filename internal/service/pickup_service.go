package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/foodbridge-api/internal/events"
	"github.com/foodbridge-api/internal/models"
	"github.com/foodbridge-api/internal/repository"
	"github.com/foodbridge-api/internal/validation"
	apperrors "github.com/foodbridge-api/pkg/errors"
)

const errRequestNotFound = "pickup request not found"

// pickupRequestedPayload is published with pickup.requested
type pickupRequestedPayload struct {
	Request  *models.PickupRequest `json:"request"`
	Donation *models.Donation      `json:"donation,omitempty"`
}

// pickupService is the concrete implementation of PickupService
type pickupService struct {
	repo      repository.RequestRepository
	publisher events.Publisher
	log       zerolog.Logger
}

func newPickupService(repo repository.RequestRepository, publisher events.Publisher, log zerolog.Logger) *pickupService {
	return &pickupService{
		repo:      repo,
		publisher: publisher,
		log:       log.With().Str("service", "pickup").Logger(),
	}
}

// RequestPickup stores a pending request and claims the referenced donation
// for activist in one step. A donation that does not exist is not an error.
func (s *pickupService) RequestPickup(ctx context.Context, activist *models.User, input *models.PickupRequestInput) (*models.PickupRequest, error) {
	if activist == nil {
		return nil, apperrors.NewUnauthorizedError("authentication required")
	}
	if errs := validation.ValidatePickupRequest(input); len(errs) > 0 {
		return nil, apperrors.NewValidationError(validation.Summary(errs))
	}

	req := &models.PickupRequest{
		ID:                     uuid.New().String(),
		DonationID:             input.DonationID,
		Title:                  input.Title,
		Donor:                  input.Donor,
		DonorPhone:             input.DonorPhone,
		DonorEmail:             input.DonorEmail,
		Quantity:               input.Quantity,
		PickupTime:             input.PickupTime,
		PickupAddress:          input.PickupAddress,
		Notes:                  input.Notes,
		EstimatedBeneficiaries: input.EstimatedBeneficiaries,
		Status:                 models.RequestStatusPending,
		RequestDate:            time.Now(),
		ActivistID:             activist.ID,
		ActivistName:           activist.Name,
	}

	claim := models.DonationClaim{
		DonationID:    input.DonationID,
		RequestedBy:   activist.ID,
		ActivistName:  activist.Name,
		ActivistPhone: activist.Phone,
	}

	donation, err := s.repo.CreateWithClaim(ctx, req, claim)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to request pickup", fmt.Errorf("request %s: %w", req.ID, err))
	}

	if donation == nil {
		s.log.Warn().Str("request_id", req.ID).Str("donation_id", input.DonationID).Msg("Pickup requested for unknown donation")
	} else {
		s.log.Info().Str("request_id", req.ID).Str("donation_id", donation.ID).Msg("Pickup requested")
	}

	publish(ctx, s.publisher, s.log, events.TypePickupRequested, pickupRequestedPayload{Request: req, Donation: donation})
	return req, nil
}

// ListByOwner returns the requests made by activistID
func (s *pickupService) ListByOwner(ctx context.Context, activistID string) ([]*models.PickupRequest, error) {
	return s.repo.ListByOwner(ctx, activistID)
}

// ListAll returns every request
func (s *pickupService) ListAll(ctx context.Context) ([]*models.PickupRequest, error) {
	return s.repo.List(ctx)
}

// Update merges upd into the request. The claimed donation is not touched.
func (s *pickupService) Update(ctx context.Context, id string, upd *models.PickupRequestUpdate) (*models.PickupRequest, error) {
	if upd.Status != nil && !validRequestStatus(*upd.Status) {
		return nil, apperrors.NewValidationError("invalid status: " + string(*upd.Status))
	}

	req, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, apperrors.NewNotFoundError(errRequestNotFound)
	}
	return req, nil
}

// Delete removes the request; unknown ids are ignored
func (s *pickupService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Cancel marks the request cancelled with reason, or the default reason
func (s *pickupService) Cancel(ctx context.Context, id, reason string) (*models.PickupRequest, error) {
	if reason == "" {
		reason = models.DefaultCancelReason
	}
	status := models.RequestStatusCancelled

	req, err := s.Update(ctx, id, &models.PickupRequestUpdate{Status: &status, CancelReason: &reason})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, s.log, events.TypeRequestCancelled, req)
	return req, nil
}

func validRequestStatus(status models.RequestStatus) bool {
	switch status {
	case models.RequestStatusPending, models.RequestStatusConfirmed,
		models.RequestStatusCompleted, models.RequestStatusCancelled:
		return true
	}
	return false
}
