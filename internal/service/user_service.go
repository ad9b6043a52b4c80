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

const errUserNotFound = "user not found"

// userService is the concrete implementation of UserService.
// It manages the users registry only; the login directory is separate.
type userService struct {
	repo repository.UserRepository
	log  zerolog.Logger
}

func newUserService(repo repository.UserRepository, log zerolog.Logger) *userService {
	return &userService{
		repo: repo,
		log:  log.With().Str("service", "user").Logger(),
	}
}

func (s *userService) List(ctx context.Context) ([]*models.User, error) {
	return s.repo.List(ctx)
}

func (s *userService) Add(ctx context.Context, input *models.UserInput) (*models.User, error) {
	if errs := validation.ValidateUserInput(input); len(errs) > 0 {
		return nil, apperrors.NewValidationError(validation.Summary(errs))
	}

	now := time.Now()
	user := &models.User{
		ID:               uuid.New().String(),
		Email:            input.Email,
		Name:             input.Name,
		Role:             input.Role,
		Phone:            input.Phone,
		Address:          input.Address,
		RestaurantName:   input.RestaurantName,
		OrganizationName: input.OrganizationName,
		Status:           models.UserStatusActive,
		IsActive:         true,
		CreatedAt:        now,
		JoinDate:         now,
		LastActive:       now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, apperrors.NewInternalError("failed to store user", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("User added")
	return user, nil
}

func (s *userService) Update(ctx context.Context, id string, upd *models.UserUpdate) (*models.User, error) {
	if upd.Role != nil && !models.ValidRoles[*upd.Role] {
		return nil, apperrors.NewValidationError("invalid role: " + *upd.Role)
	}

	user, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NewNotFoundError(errUserNotFound)
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Approve activates a pending account
func (s *userService) Approve(ctx context.Context, id string) (*models.User, error) {
	return s.setStatus(ctx, id, models.UserStatusActive, true)
}

func (s *userService) Suspend(ctx context.Context, id string) (*models.User, error) {
	return s.setStatus(ctx, id, models.UserStatusSuspended, false)
}

func (s *userService) Reject(ctx context.Context, id string) (*models.User, error) {
	return s.setStatus(ctx, id, models.UserStatusRejected, false)
}

func (s *userService) setStatus(ctx context.Context, id, status string, active bool) (*models.User, error) {
	user, err := s.Update(ctx, id, &models.UserUpdate{Status: &status, IsActive: &active})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", id).Str("status", status).Msg("User status changed")
	return user, nil
}
