package service

import (
	"context"
	"strings"

	"github.com/foodbridge-api/internal/models"
	"github.com/foodbridge-api/internal/repository"
)

// statsService is the concrete implementation of StatsService
type statsService struct {
	repos *repository.Repositories
}

func newStatsService(repos *repository.Repositories) *statsService {
	return &statsService{repos: repos}
}

// Dashboard computes the headline figures from the registries
func (s *statsService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}

	err := s.repos.Donation.StreamAll(ctx, func(d *models.Donation) error {
		stats.TotalDonations++
		switch d.Status {
		case models.DonationStatusAvailable, models.DonationStatusRequested:
			stats.ActiveDonations++
		case models.DonationStatusPickedUp:
			if strings.EqualFold(d.Unit, "kg") {
				stats.WasteReduced += d.Quantity
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = s.repos.Request.StreamAll(ctx, func(r *models.PickupRequest) error {
		if r.Status == models.RequestStatusCompleted {
			stats.CompletedPickups++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	stats.TotalBeneficiaries, err = s.repos.Beneficiary.Count(ctx)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// Counts returns the size of each registry
func (s *statsService) Counts(ctx context.Context) (*models.RegistryCounts, error) {
	var counts models.RegistryCounts
	var err error

	if counts.Users, err = s.repos.User.Count(ctx); err != nil {
		return nil, err
	}
	if counts.Donations, err = s.repos.Donation.Count(ctx); err != nil {
		return nil, err
	}
	if counts.Requests, err = s.repos.Request.Count(ctx); err != nil {
		return nil, err
	}
	if counts.Beneficiaries, err = s.repos.Beneficiary.Count(ctx); err != nil {
		return nil, err
	}
	return &counts, nil
}
