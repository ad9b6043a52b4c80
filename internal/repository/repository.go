package repository

import (
	"context"
	"time"

	"github.com/foodbridge-api/internal/database"
	"github.com/foodbridge-api/internal/models"
)

// Registries are plain lists: List returns records in insertion order,
// Update returns (nil, nil) for an unknown id and Delete of an unknown id
// is a no-op.

// UserRepository defines the interface for the users registry
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, id string, upd *models.UserUpdate) (*models.User, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	StreamAll(ctx context.Context, callback func(*models.User) error) error
}

// DonationRepository defines the interface for the donations registry
type DonationRepository interface {
	Create(ctx context.Context, donation *models.Donation) error
	GetByID(ctx context.Context, id string) (*models.Donation, error)
	List(ctx context.Context, filter models.DonationFilter) ([]*models.Donation, error)
	ListByOwner(ctx context.Context, donorID string) ([]*models.Donation, error)
	Update(ctx context.Context, id string, upd *models.DonationUpdate) (*models.Donation, error)
	Delete(ctx context.Context, id string) error
	ExpireBefore(ctx context.Context, cutoff time.Time) (int, error)
	Count(ctx context.Context) (int, error)
	StreamAll(ctx context.Context, callback func(*models.Donation) error) error
}

// RequestRepository defines the interface for the pickup requests registry
type RequestRepository interface {
	Create(ctx context.Context, request *models.PickupRequest) error
	// CreateWithClaim appends the request and writes the claim onto the
	// referenced donation as one unit. It returns the claimed donation, or
	// nil when the donation does not exist (the request is still stored).
	CreateWithClaim(ctx context.Context, request *models.PickupRequest, claim models.DonationClaim) (*models.Donation, error)
	GetByID(ctx context.Context, id string) (*models.PickupRequest, error)
	List(ctx context.Context) ([]*models.PickupRequest, error)
	ListByOwner(ctx context.Context, activistID string) ([]*models.PickupRequest, error)
	Update(ctx context.Context, id string, upd *models.PickupRequestUpdate) (*models.PickupRequest, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	StreamAll(ctx context.Context, callback func(*models.PickupRequest) error) error
}

// BeneficiaryRepository defines the interface for the beneficiaries registry
type BeneficiaryRepository interface {
	Create(ctx context.Context, beneficiary *models.Beneficiary) error
	GetByID(ctx context.Context, id string) (*models.Beneficiary, error)
	List(ctx context.Context) ([]*models.Beneficiary, error)
	Update(ctx context.Context, id string, upd *models.BeneficiaryUpdate) (*models.Beneficiary, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	StreamAll(ctx context.Context, callback func(*models.Beneficiary) error) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	User        UserRepository
	Donation    DonationRepository
	Request     RequestRepository
	Beneficiary BeneficiaryRepository
}

// NewPostgres creates all repositories backed by the given database connection
func NewPostgres(db *database.DB) *Repositories {
	return &Repositories{
		User:        NewUserRepo(db),
		Donation:    NewDonationRepo(db),
		Request:     NewRequestRepo(db),
		Beneficiary: NewBeneficiaryRepo(db),
	}
}
