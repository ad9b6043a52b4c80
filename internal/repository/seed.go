package repository

import (
	"time"

	"github.com/foodbridge-api/internal/models"
)

// Seed is the initial state of an in-memory store
type Seed struct {
	Users         []*models.User
	Donations     []*models.Donation
	Requests      []*models.PickupRequest
	Beneficiaries []*models.Beneficiary
}

// DemoUsers returns the four demo accounts, one per role.
// Every call returns fresh copies.
func DemoUsers() []*models.User {
	now := time.Now()
	return []*models.User{
		{
			ID:             "1",
			Email:          "restaurant@demo.com",
			Name:           "Green Bistro",
			Role:           models.RoleRestaurant,
			RestaurantName: "Green Bistro",
			Address:        "123 Main St, City",
			Phone:          "+1234567890",
			Status:         models.UserStatusActive,
			IsActive:       true,
			CreatedAt:      now,
			JoinDate:       time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			LastActive:     now,
		},
		{
			ID:               "2",
			Email:            "activist@demo.com",
			Name:             "Sarah Johnson",
			Role:             models.RoleActivist,
			OrganizationName: "Community Food Network",
			Address:          "456 Oak Ave, City",
			Phone:            "+1987654321",
			Status:           models.UserStatusActive,
			IsActive:         true,
			CreatedAt:        now,
			JoinDate:         time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC),
			LastActive:       now,
		},
		{
			ID:         "3",
			Email:      "admin@demo.com",
			Name:       "Admin User",
			Role:       models.RoleAdmin,
			Status:     models.UserStatusActive,
			IsActive:   true,
			CreatedAt:  now,
			JoinDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			LastActive: now,
		},
		{
			ID:         "4",
			Email:      "donor@demo.com",
			Name:       "John Smith",
			Role:       models.RoleDonor,
			Address:    "789 Pine St, City",
			Phone:      "+1122334455",
			Status:     models.UserStatusActive,
			IsActive:   true,
			CreatedAt:  now,
			JoinDate:   time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			LastActive: now,
		},
	}
}

// DemoDonationShelfLife is how long the seeded listing stays available
// after the seed is built
const DemoDonationShelfLife = 24 * time.Hour

// DemoDonations returns the listing the demo restaurant starts with. Its
// expiry is relative to now so the expiry sweeper leaves it available.
func DemoDonations() []*models.Donation {
	now := time.Now()
	return []*models.Donation{
		{
			ID:            "1",
			Title:         "Fresh Sandwiches & Salads",
			Description:   "Assorted fresh sandwiches and garden salads from our lunch menu",
			FoodType:      "prepared",
			Quantity:      15,
			Unit:          "meals",
			Status:        models.DonationStatusAvailable,
			ExpiryDate:    now.Add(DemoDonationShelfLife),
			PickupAddress: "123 Main St, Downtown",
			PickupTime:    models.PickupWindow{Start: "17:00", End: "19:00"},
			Images:        []string{"https://images.pexels.com/photos/1640777/pexels-photo-1640777.jpeg?auto=compress&cs=tinysrgb&w=400"},
			CreatedAt:     now,
			DonorID:       "1",
			DonorName:     "Green Bistro",
		},
	}
}

// DemoSeed is the state a fresh demo deployment starts from
func DemoSeed() Seed {
	return Seed{
		Users:     DemoUsers(),
		Donations: DemoDonations(),
	}
}
