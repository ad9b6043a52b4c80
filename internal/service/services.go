package service

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/foodbridge-api/internal/config"
	"github.com/foodbridge-api/internal/events"
	"github.com/foodbridge-api/internal/models"
	"github.com/foodbridge-api/internal/repository"
	"github.com/foodbridge-api/internal/session"
)

// AuthService defines the interface for session operations
type AuthService interface {
	Login(ctx context.Context, sessionID string, req *models.LoginRequest) (*models.User, error)
	Register(ctx context.Context, sessionID string, req *models.RegisterRequest) (*models.User, error)
	Logout(ctx context.Context, sessionID string) error
	Current(ctx context.Context, sessionID string) (*models.User, error)
}

// DonationService defines the interface for donation listings
type DonationService interface {
	Post(ctx context.Context, owner *models.User, input *models.DonationInput) (*models.Donation, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Donation, error)
	ListAll(ctx context.Context, filter models.DonationFilter) ([]*models.Donation, error)
	Get(ctx context.Context, id string) (*models.Donation, error)
	Update(ctx context.Context, id string, upd *models.DonationUpdate) (*models.Donation, error)
	Delete(ctx context.Context, id string) error
}

// PickupService defines the interface for pickup requests
type PickupService interface {
	RequestPickup(ctx context.Context, activist *models.User, input *models.PickupRequestInput) (*models.PickupRequest, error)
	ListByOwner(ctx context.Context, activistID string) ([]*models.PickupRequest, error)
	ListAll(ctx context.Context) ([]*models.PickupRequest, error)
	Update(ctx context.Context, id string, upd *models.PickupRequestUpdate) (*models.PickupRequest, error)
	Delete(ctx context.Context, id string) error
	Cancel(ctx context.Context, id, reason string) (*models.PickupRequest, error)
}

// UserService defines the interface for user administration
type UserService interface {
	List(ctx context.Context) ([]*models.User, error)
	Add(ctx context.Context, input *models.UserInput) (*models.User, error)
	Update(ctx context.Context, id string, upd *models.UserUpdate) (*models.User, error)
	Delete(ctx context.Context, id string) error
	Approve(ctx context.Context, id string) (*models.User, error)
	Suspend(ctx context.Context, id string) (*models.User, error)
	Reject(ctx context.Context, id string) (*models.User, error)
}

// BeneficiaryService defines the interface for beneficiary records
type BeneficiaryService interface {
	Add(ctx context.Context, input *models.BeneficiaryInput) (*models.Beneficiary, error)
	List(ctx context.Context, search string) ([]*models.Beneficiary, error)
	Update(ctx context.Context, id string, upd *models.BeneficiaryUpdate) (*models.Beneficiary, error)
	Delete(ctx context.Context, id string) error
}

// StatsService defines the interface for dashboard figures
type StatsService interface {
	Dashboard(ctx context.Context) (*models.DashboardStats, error)
	Counts(ctx context.Context) (*models.RegistryCounts, error)
}

// ExportService defines the interface for export operations
type ExportService interface {
	Export(ctx context.Context, w io.Writer, resource, format string) (int, error)
}

// ExpiryService defines the interface for the donation expiry sweeper
type ExpiryService interface {
	StartProcessor(ctx context.Context)
	StopProcessor()
	SweepOnce(ctx context.Context) (int, error)
}

// Services holds all service interfaces
type Services struct {
	Auth        AuthService
	Donation    DonationService
	Pickup      PickupService
	User        UserService
	Beneficiary BeneficiaryService
	Stats       StatsService
	Export      ExportService
	Expiry      ExpiryService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, store *session.Store, publisher events.Publisher, cfg *config.Config, log zerolog.Logger) *Services {
	return &Services{
		Auth:        newAuthService(store, repos.User, publisher, log),
		Donation:    newDonationService(repos.Donation, publisher, log),
		Pickup:      newPickupService(repos.Request, publisher, log),
		User:        newUserService(repos.User, log),
		Beneficiary: newBeneficiaryService(repos.Beneficiary, log),
		Stats:       newStatsService(repos),
		Export:      newExportService(repos, log),
		Expiry:      newExpiryService(repos.Donation, publisher, cfg.Expiry.Interval, log),
	}
}

// publish announces an event. The state change has already happened, so a
// delivery failure is logged and not returned.
func publish(ctx context.Context, publisher events.Publisher, log zerolog.Logger, eventType string, payload any) {
	if err := publisher.Publish(ctx, events.NewEvent(eventType, payload)); err != nil {
		log.Warn().Err(err).Str("event_type", eventType).Msg("Failed to publish event")
	}
}
