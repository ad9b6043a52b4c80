package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/foodbridge-api/internal/events"
	"github.com/foodbridge-api/internal/models"
	"github.com/foodbridge-api/internal/repository"
	"github.com/foodbridge-api/internal/session"
	"github.com/foodbridge-api/internal/validation"
	apperrors "github.com/foodbridge-api/pkg/errors"
)

// authService is the concrete implementation of AuthService
type authService struct {
	store     *session.Store
	users     repository.UserRepository
	publisher events.Publisher
	log       zerolog.Logger
}

func newAuthService(store *session.Store, users repository.UserRepository, publisher events.Publisher, log zerolog.Logger) *authService {
	return &authService{
		store:     store,
		users:     users,
		publisher: publisher,
		log:       log.With().Str("service", "auth").Logger(),
	}
}

// Login authenticates against the directory by exact (email, role)
func (s *authService) Login(ctx context.Context, sessionID string, req *models.LoginRequest) (*models.User, error) {
	return s.store.Login(ctx, sessionID, req.Email, req.Password, req.Role)
}

// Register creates an account, makes it current and adds it to the users registry
func (s *authService) Register(ctx context.Context, sessionID string, req *models.RegisterRequest) (*models.User, error) {
	if errs := validation.ValidateRegistration(req); len(errs) > 0 {
		return nil, apperrors.NewValidationError(validation.Summary(errs))
	}

	user, err := s.store.Register(ctx, sessionID, req)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.NewInternalError("failed to store user", fmt.Errorf("create user %s: %w", user.ID, err))
	}

	publish(ctx, s.publisher, s.log, events.TypeUserRegistered, user)
	return user, nil
}

// Logout clears the session
func (s *authService) Logout(ctx context.Context, sessionID string) error {
	return s.store.Logout(ctx, sessionID)
}

// Current restores the session user, nil when signed out
func (s *authService) Current(ctx context.Context, sessionID string) (*models.User, error) {
	return s.store.Current(ctx, sessionID)
}
