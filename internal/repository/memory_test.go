package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodbridge-api/internal/models"
	"github.com/foodbridge-api/internal/repository"
)

func TestNewMemory_DemoSeed(t *testing.T) {
	repos := repository.NewMemory(repository.DemoSeed())
	ctx := context.Background()

	users, err := repos.User.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 4)
	assert.Equal(t, "restaurant@demo.com", users[0].Email)
	assert.Equal(t, "donor@demo.com", users[3].Email)

	donations, err := repos.Donation.ListByOwner(ctx, "1")
	require.NoError(t, err)
	require.Len(t, donations, 1)
	assert.Equal(t, "Fresh Sandwiches & Salads", donations[0].Title)
	assert.Equal(t, models.DonationStatusAvailable, donations[0].Status)
	assert.Equal(t, models.PickupWindow{Start: "17:00", End: "19:00"}, donations[0].PickupTime)
}

func TestNewMemory_StoresAreIsolated(t *testing.T) {
	ctx := context.Background()
	a := repository.NewMemory(repository.DemoSeed())
	b := repository.NewMemory(repository.DemoSeed())

	require.NoError(t, a.Beneficiary.Create(ctx, &models.Beneficiary{ID: "b1", Name: "Family"}))
	require.NoError(t, a.User.Delete(ctx, "1"))

	countA, _ := a.Beneficiary.Count(ctx)
	countB, _ := b.Beneficiary.Count(ctx)
	assert.Equal(t, 1, countA)
	assert.Equal(t, 0, countB)

	usersB, _ := b.User.Count(ctx)
	assert.Equal(t, 4, usersB)
}

func TestMemory_ReturnsCopies(t *testing.T) {
	repos := repository.NewMemory(repository.DemoSeed())
	ctx := context.Background()

	d, err := repos.Donation.GetByID(ctx, "1")
	require.NoError(t, err)
	d.Title = "changed"
	d.Images[0] = "changed"

	again, _ := repos.Donation.GetByID(ctx, "1")
	assert.Equal(t, "Fresh Sandwiches & Salads", again.Title)
	assert.NotEqual(t, "changed", again.Images[0])

	input := &models.Beneficiary{ID: "b1", Name: "Before"}
	require.NoError(t, repos.Beneficiary.Create(ctx, input))
	input.Name = "After"
	stored, _ := repos.Beneficiary.GetByID(ctx, "b1")
	assert.Equal(t, "Before", stored.Name)
}

func TestMemoryDonation_UpdateMergesFields(t *testing.T) {
	repos := repository.NewMemory(repository.DemoSeed())
	ctx := context.Background()

	qty := 20.0
	updated, err := repos.Donation.Update(ctx, "1", &models.DonationUpdate{Quantity: &qty})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 20.0, updated.Quantity)
	assert.Equal(t, "Fresh Sandwiches & Salads", updated.Title)
	assert.Equal(t, "meals", updated.Unit)
}

func TestMemory_UpdateUnknownIDIsNoop(t *testing.T) {
	repos := repository.NewMemory(repository.DemoSeed())
	ctx := context.Background()

	name := "ghost"
	u, err := repos.User.Update(ctx, "missing", &models.UserUpdate{Name: &name})
	assert.NoError(t, err)
	assert.Nil(t, u)

	status := models.RequestStatusConfirmed
	r, err := repos.Request.Update(ctx, "missing", &models.PickupRequestUpdate{Status: &status})
	assert.NoError(t, err)
	assert.Nil(t, r)

	users, _ := repos.User.List(ctx)
	for _, u := range users {
		assert.NotEqual(t, "ghost", u.Name)
	}
}

func TestMemory_DeleteUnknownIDIsNoop(t *testing.T) {
	repos := repository.NewMemory(repository.DemoSeed())
	ctx := context.Background()

	before, _ := repos.Donation.List(ctx, models.DonationFilter{})
	require.NoError(t, repos.Donation.Delete(ctx, "nonexistent"))
	after, _ := repos.Donation.List(ctx, models.DonationFilter{})
	assert.Equal(t, before, after)
}

func TestMemory_DeleteKeepsOrder(t *testing.T) {
	repos := repository.NewMemory(repository.Seed{})
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		require.NoError(t, repos.Beneficiary.Create(ctx, &models.Beneficiary{ID: fmt.Sprintf("b%d", i)}))
	}
	require.NoError(t, repos.Beneficiary.Delete(ctx, "b2"))

	list, _ := repos.Beneficiary.List(ctx)
	ids := make([]string, 0, len(list))
	for _, b := range list {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []string{"b1", "b3", "b4"}, ids)
}

func TestMemoryRequest_CreateWithClaim(t *testing.T) {
	repos := repository.NewMemory(repository.DemoSeed())
	ctx := context.Background()

	req := &models.PickupRequest{ID: "r1", DonationID: "1", ActivistID: "2", ActivistName: "Sarah Johnson", Status: models.RequestStatusPending}
	claimed, err := repos.Request.CreateWithClaim(ctx, req, models.DonationClaim{
		DonationID:    "1",
		RequestedBy:   "2",
		ActivistName:  "Sarah Johnson",
		ActivistPhone: "+1987654321",
	})
	require.NoError(t, err)
	require.NotNil(t, claimed)
	assert.Equal(t, models.DonationStatusRequested, claimed.Status)
	assert.Equal(t, "2", claimed.RequestedBy)

	stored, _ := repos.Donation.GetByID(ctx, "1")
	assert.Equal(t, models.DonationStatusRequested, stored.Status)
	assert.Equal(t, "Sarah Johnson", stored.ActivistName)
	assert.Equal(t, "+1987654321", stored.ActivistPhone)

	mine, _ := repos.Request.ListByOwner(ctx, "2")
	require.Len(t, mine, 1)
	assert.Equal(t, "r1", mine[0].ID)
}

func TestMemoryRequest_CreateWithClaimMissingDonation(t *testing.T) {
	repos := repository.NewMemory(repository.DemoSeed())
	ctx := context.Background()

	claimed, err := repos.Request.CreateWithClaim(ctx,
		&models.PickupRequest{ID: "r1", DonationID: "nope", ActivistID: "2"},
		models.DonationClaim{DonationID: "nope", RequestedBy: "2"},
	)
	require.NoError(t, err)
	assert.Nil(t, claimed)

	count, _ := repos.Request.Count(ctx)
	assert.Equal(t, 1, count)

	d, _ := repos.Donation.GetByID(ctx, "1")
	assert.Equal(t, models.DonationStatusAvailable, d.Status)
}

func TestMemoryRequest_ClaimIsAtomicUnderConcurrency(t *testing.T) {
	repos := repository.NewMemory(repository.DemoSeed())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("r%d", i)
			_, _ = repos.Request.CreateWithClaim(ctx,
				&models.PickupRequest{ID: id, DonationID: "1", ActivistID: id},
				models.DonationClaim{DonationID: "1", RequestedBy: id},
			)
		}(i)
	}
	wg.Wait()

	count, _ := repos.Request.Count(ctx)
	assert.Equal(t, 50, count)

	d, _ := repos.Donation.GetByID(ctx, "1")
	assert.Equal(t, models.DonationStatusRequested, d.Status)
	// The last claim wins, and it always belongs to one of the stored requests.
	found, _ := repos.Request.GetByID(ctx, d.RequestedBy)
	assert.NotNil(t, found)
}

func TestMemoryDonation_ListFilter(t *testing.T) {
	repos := repository.NewMemory(repository.Seed{Donations: []*models.Donation{
		{ID: "a", FoodType: "bakery", Status: models.DonationStatusAvailable},
		{ID: "b", FoodType: "fresh", Status: models.DonationStatusAvailable},
		{ID: "c", FoodType: "bakery", Status: models.DonationStatusPickedUp},
	}})
	ctx := context.Background()

	all, _ := repos.Donation.List(ctx, models.DonationFilter{})
	assert.Len(t, all, 3)

	bakery, _ := repos.Donation.List(ctx, models.DonationFilter{FoodType: "bakery"})
	assert.Len(t, bakery, 2)

	available, _ := repos.Donation.List(ctx, models.DonationFilter{Status: models.DonationStatusAvailable, FoodType: "bakery"})
	require.Len(t, available, 1)
	assert.Equal(t, "a", available[0].ID)
}

func TestMemoryDonation_ExpireBefore(t *testing.T) {
	now := time.Now()
	repos := repository.NewMemory(repository.Seed{Donations: []*models.Donation{
		{ID: "past", Status: models.DonationStatusAvailable, ExpiryDate: now.Add(-time.Hour)},
		{ID: "future", Status: models.DonationStatusAvailable, ExpiryDate: now.Add(time.Hour)},
		{ID: "claimed", Status: models.DonationStatusRequested, ExpiryDate: now.Add(-time.Hour)},
		{ID: "undated", Status: models.DonationStatusAvailable},
	}})
	ctx := context.Background()

	n, err := repos.Donation.ExpireBefore(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	past, _ := repos.Donation.GetByID(ctx, "past")
	assert.Equal(t, models.DonationStatusExpired, past.Status)
	claimed, _ := repos.Donation.GetByID(ctx, "claimed")
	assert.Equal(t, models.DonationStatusRequested, claimed.Status)
	undated, _ := repos.Donation.GetByID(ctx, "undated")
	assert.Equal(t, models.DonationStatusAvailable, undated.Status)
}

func TestMemory_StreamAllStopsOnCallbackError(t *testing.T) {
	repos := repository.NewMemory(repository.DemoSeed())
	ctx := context.Background()

	seen := 0
	stop := fmt.Errorf("stop")
	err := repos.User.StreamAll(ctx, func(u *models.User) error {
		seen++
		if seen == 2 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 2, seen)
}
