package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/foodbridge-api/internal/models"
	apperrors "github.com/foodbridge-api/pkg/errors"
)

// StorageKey is the application key the current user is persisted under
const StorageKey = "foodbridge_user"

var (
	// ErrInvalidCredentials is returned when no directory entry matches (email, role)
	ErrInvalidCredentials = apperrors.NewUnauthorizedError("Invalid credentials")

	// ErrUserExists is returned when registering an email already in the directory
	ErrUserExists = apperrors.NewConflictError("User with this email already exists")
)

// KeyFor returns the storage key for a session id. An empty id maps to the
// bare application key.
func KeyFor(sessionID string) string {
	if sessionID == "" {
		return StorageKey
	}
	return StorageKey + ":" + sessionID
}

// Options configures a Store
type Options struct {
	LoginDelay    time.Duration
	RegisterDelay time.Duration
}

// DefaultOptions matches the latency the demo UI was built against
func DefaultOptions() Options {
	return Options{
		LoginDelay:    time.Second,
		RegisterDelay: 1500 * time.Millisecond,
	}
}

// Store holds the current user per session and persists it to Storage
type Store struct {
	storage   Storage
	directory *Directory
	opts      Options
	log       zerolog.Logger
}

// NewStore creates a session store
func NewStore(storage Storage, directory *Directory, opts Options, log zerolog.Logger) *Store {
	return &Store{
		storage:   storage,
		directory: directory,
		opts:      opts,
		log:       log.With().Str("component", "session").Logger(),
	}
}

// Directory returns the directory login is checked against
func (s *Store) Directory() *Directory {
	return s.directory
}

// Login authenticates by exact (email, role). The password is accepted but
// never checked. A failed attempt leaves any existing session untouched.
func (s *Store) Login(ctx context.Context, sessionID, email, password, role string) (*models.User, error) {
	if err := wait(ctx, s.opts.LoginDelay); err != nil {
		return nil, err
	}

	user := s.directory.Find(email, role)
	if user == nil {
		s.log.Debug().Str("email", email).Str("role", role).Msg("Login rejected")
		return nil, ErrInvalidCredentials
	}

	if err := s.persist(ctx, sessionID, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("User logged in")
	return user, nil
}

// Register creates a directory entry and makes it the current session user
func (s *Store) Register(ctx context.Context, sessionID string, req *models.RegisterRequest) (*models.User, error) {
	if err := wait(ctx, s.opts.RegisterDelay); err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		ID:               uuid.New().String(),
		Email:            req.Email,
		Name:             req.Name,
		Role:             req.Role,
		Phone:            req.Phone,
		Address:          req.Address,
		RestaurantName:   req.RestaurantName,
		OrganizationName: req.OrganizationName,
		Status:           models.UserStatusActive,
		IsActive:         true,
		CreatedAt:        now,
		JoinDate:         now,
		LastActive:       now,
	}

	if !s.directory.AddIfAbsent(user) {
		return nil, ErrUserExists
	}

	if err := s.persist(ctx, sessionID, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("User registered")
	return user, nil
}

// Logout removes the persisted user for the session
func (s *Store) Logout(ctx context.Context, sessionID string) error {
	if err := s.storage.RemoveItem(ctx, KeyFor(sessionID)); err != nil {
		return apperrors.NewInternalError("failed to clear session", err)
	}
	return nil
}

// Current restores the persisted user. It returns (nil, nil) when the
// session has no entry; a value that does not parse is an error.
func (s *Store) Current(ctx context.Context, sessionID string) (*models.User, error) {
	raw, ok, err := s.storage.GetItem(ctx, KeyFor(sessionID))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read session", err)
	}
	if !ok {
		return nil, nil
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, apperrors.NewInternalError("stored session is malformed", err)
	}
	return &user, nil
}

func (s *Store) persist(ctx context.Context, sessionID string, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return apperrors.NewInternalError("failed to encode session", err)
	}
	if err := s.storage.SetItem(ctx, KeyFor(sessionID), string(data)); err != nil {
		return apperrors.NewInternalError("failed to persist session", fmt.Errorf("set %s: %w", KeyFor(sessionID), err))
	}
	return nil
}

// wait blocks for d or until ctx is done
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
