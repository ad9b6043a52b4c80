package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodbridge-api/internal/config"
	"github.com/foodbridge-api/internal/events"
	"github.com/foodbridge-api/internal/mocks"
	"github.com/foodbridge-api/internal/models"
	"github.com/foodbridge-api/internal/repository"
	"github.com/foodbridge-api/internal/service"
	"github.com/foodbridge-api/internal/session"
	apperrors "github.com/foodbridge-api/pkg/errors"
)

type testEnv struct {
	services  *service.Services
	repos     *repository.Repositories
	publisher *mocks.MockPublisher
}

func setupServices(t *testing.T, seed repository.Seed) *testEnv {
	t.Helper()
	repos := repository.NewMemory(seed)
	store := session.NewStore(session.NewMemoryStorage(), session.NewDemoDirectory(), session.Options{}, zerolog.Nop())
	publisher := mocks.NewMockPublisher()
	cfg := &config.Config{Expiry: config.ExpiryConfig{Interval: 10 * time.Millisecond}}

	return &testEnv{
		services:  service.NewServices(repos, store, publisher, cfg, zerolog.Nop()),
		repos:     repos,
		publisher: publisher,
	}
}

func demoUser(t *testing.T, id string) *models.User {
	t.Helper()
	for _, u := range repository.DemoUsers() {
		if u.ID == id {
			return u
		}
	}
	t.Fatalf("no demo user %s", id)
	return nil
}

func validDonationInput() *models.DonationInput {
	return &models.DonationInput{
		Title:         "Bread rolls",
		FoodType:      "bakery",
		Quantity:      40,
		Unit:          "pieces",
		ExpiryDate:    time.Now().Add(24 * time.Hour),
		PickupAddress: "1 Baker St",
		PickupTime:    models.PickupWindow{Start: "18:00", End: "20:00"},
	}
}

// --- auth ---

func TestAuth_RegisterAddsToRegistryAndPublishes(t *testing.T) {
	env := setupServices(t, repository.DemoSeed())
	ctx := context.Background()

	user, err := env.services.Auth.Register(ctx, "s1", &models.RegisterRequest{
		Email:    "new@demo.com",
		Password: "secret",
		Name:     "New Person",
		Role:     models.RoleActivist,
	})
	require.NoError(t, err)

	current, err := env.services.Auth.Current(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, user.ID, current.ID)

	stored, _ := env.repos.User.GetByID(ctx, user.ID)
	require.NotNil(t, stored)
	assert.Equal(t, "new@demo.com", stored.Email)

	assert.Equal(t, []string{events.TypeUserRegistered}, env.publisher.Types())
}

func TestAuth_RegisterValidation(t *testing.T) {
	env := setupServices(t, repository.DemoSeed())

	_, err := env.services.Auth.Register(context.Background(), "s1", &models.RegisterRequest{
		Email: "not-an-email",
		Role:  "chef",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))

	count, _ := env.repos.User.Count(context.Background())
	assert.Equal(t, 4, count)
	assert.Empty(t, env.publisher.Events)
}

func TestAuth_RegisterDuplicateDoesNotTouchRegistry(t *testing.T) {
	env := setupServices(t, repository.DemoSeed())

	_, err := env.services.Auth.Register(context.Background(), "s1", &models.RegisterRequest{
		Email:    "donor@demo.com",
		Password: "pw",
		Name:     "Dup",
		Role:     models.RoleDonor,
	})
	assert.ErrorIs(t, err, session.ErrUserExists)

	count, _ := env.repos.User.Count(context.Background())
	assert.Equal(t, 4, count)
}

func TestAuth_LoginScenarios(t *testing.T) {
	env := setupServices(t, repository.DemoSeed())
	ctx := context.Background()

	user, err := env.services.Auth.Login(ctx, "s1", &models.LoginRequest{Email: "activist@demo.com", Role: models.RoleActivist})
	require.NoError(t, err)
	assert.Equal(t, models.RoleActivist, user.Role)

	_, err = env.services.Auth.Login(ctx, "s2", &models.LoginRequest{Email: "activist@demo.com", Role: models.RoleDonor})
	assert.ErrorIs(t, err, session.ErrInvalidCredentials)

	require.NoError(t, env.services.Auth.Logout(ctx, "s1"))
	current, err := env.services.Auth.Current(ctx, "s1")
	assert.NoError(t, err)
	assert.Nil(t, current)
}

// --- donations ---

func TestDonation_PostStampsOwnerAndStatus(t *testing.T) {
	env := setupServices(t, repository.DemoSeed())
	ctx := context.Background()
	owner := demoUser(t, "1")

	before := time.Now()
	d, err := env.services.Donation.Post(ctx, owner, validDonationInput())
	require.NoError(t, err)

	assert.NotEmpty(t, d.ID)
	assert.Equal(t, "1", d.DonorID)
	assert.Equal(t, "Green Bistro", d.DonorName)
	assert.Equal(t, models.DonationStatusAvailable, d.Status)
	assert.False(t, d.CreatedAt.Before(before))

	mine, err := env.services.Donation.ListByOwner(ctx, "1")
	require.NoError(t, err)
	var found *models.Donation
	for _, m := range mine {
		if m.ID == d.ID {
			found = m
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, models.DonationStatusAvailable, found.Status)
	assert.False(t, found.CreatedAt.Before(before))

	other, _ := env.services.Donation.ListByOwner(ctx, "4")
	assert.Empty(t, other)

	assert.Equal(t, []string{events.TypeDonationPosted}, env.publisher.Types())
}

func TestDonation_PostRejectsInvalidInput(t *testing.T) {
	env := setupServices(t, repository.DemoSeed())

	input := validDonationInput()
	input.Quantity = 0
	input.FoodType = "soup"

	_, err := env.services.Donation.Post(context.Background(), demoUser(t, "1"), input)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
}

func TestDonation_PostRequiresOwner(t *testing.T) {
	env := setupServices(t, repository.DemoSeed())

	_, err := env.services.Donation.Post(context.Background(), nil, validDonationInput())
	assert.Equal(t, apperrors.ErrorTypeUnauthorized, apperrors.TypeOf(err))
}

func TestDonation_AdminViewReadsSameRegistry(t *testing.T) {
	env := setupServices(t, repository.DemoSeed())
	ctx := context.Background()

	posted, err := env.services.Donation.Post(ctx, demoUser(t, "4"), validDonationInput())
	require.NoError(t, err)

	all, err := env.services.Donation.ListAll(ctx, models.DonationFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, posted.ID, all[1].ID)

	bakery, _ := env.services.Donation.ListAll(ctx, models.DonationFilter{FoodType: "bakery"})
	assert.Len(t, bakery, 1)

	_, err = env.services.Donation.ListAll(ctx, models.DonationFilter{Status: "gone"})
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
}

func TestDonation_DeleteAndDeleteNonexistent(t *testing.T) {
	env := setupServices(t, repository.DemoSeed())
	ctx := context.Background()

	require.NoError(t, env.services.Donation.Delete(ctx, "does-not-exist"))
	mine, _ := env.services.Donation.ListByOwner(ctx, "1")
	assert.Len(t, mine, 1)

	require.NoError(t, env.services.Donation.Delete(ctx, "1"))
	mine, _ = env.services.Donation.ListByOwner(ctx, "1")
	assert.Empty(t, mine)

	_, err := env.services.Donation.Get(ctx, "1")
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.TypeOf(err))
}

func TestDonation_UpdateMergesAndReportsMissing(t *testing.T) {
	env := setupServices(t, repository.DemoSeed())
	ctx := context.Background()

	status := models.DonationStatusPickedUp
	d, err := env.services.Donation.Update(ctx, "1", &models.DonationUpdate{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.DonationStatusPickedUp, d.Status)
	assert.Equal(t, "Fresh Sandwiches & Salads", d.Title)

	_, err = env.services.Donation.Update(ctx, "missing", &models.DonationUpdate{Status: &status})
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.TypeOf(err))

	bad := models.DonationStatus("eaten")
	_, err = env.services.Donation.Update(ctx, "1", &models.DonationUpdate{Status: &bad})
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
}

// --- pickups ---

func TestPickup_RequestClaimsDonationTogether(t *testing.T) {
	env := setupServices(t, repository.DemoSeed())
	ctx := context.Background()
	activist := demoUser(t, "2")

	req, err := env.services.Pickup.RequestPickup(ctx, activist, &models.PickupRequestInput{
		DonationID:             "1",
		Title:                  "Fresh Sandwiches & Salads",
		Donor:                  "Green Bistro",
		Quantity:               "15 meals",
		EstimatedBeneficiaries: 15,
	})
	require.NoError(t, err)

	requests, err := env.services.Pickup.ListByOwner(ctx, "2")
	require.NoError(t, err)
	donation, err := env.services.Donation.Get(ctx, "1")
	require.NoError(t, err)

	require.Len(t, requests, 1)
	assert.Equal(t, req.ID, requests[0].ID)
	assert.Equal(t, models.RequestStatusPending, requests[0].Status)
	assert.Equal(t, "Sarah Johnson", requests[0].ActivistName)
	assert.Equal(t, models.DonationStatusRequested, donation.Status)
	assert.Equal(t, "2", donation.RequestedBy)
	assert.Equal(t, "Sarah Johnson", donation.ActivistName)
	assert.Equal(t, "+1987654321", donation.ActivistPhone)

	assert.Equal(t, []string{events.TypePickupRequested}, env.publisher.Types())
}

func TestPickup_RequestForMissingDonationStillStored(t *testing.T) {
	env := setupServices(t, repository.DemoSeed())
	ctx := context.Background()

	_, err := env.services.Pickup.RequestPickup(ctx, demoUser(t, "2"), &models.PickupRequestInput{DonationID: "ghost"})
	require.NoError(t, err)

	all, _ := env.services.Pickup.ListAll(ctx)
	assert.Len(t, all, 1)

	d, _ := env.services.Donation.Get(ctx, "1")
	assert.Equal(t, models.DonationStatusAvailable, d.Status)
}

func TestPickup_CancelUsesDefaultReason(t *testing.T) {
	env := setupServices(t, repository.DemoSeed())
	ctx := context.Background()

	req, err := env.services.Pickup.RequestPickup(ctx, demoUser(t, "2"), &models.PickupRequestInput{DonationID: "1"})
	require.NoError(t, err)

	cancelled, err := env.services.Pickup.Cancel(ctx, req.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusCancelled, cancelled.Status)
	assert.Equal(t, "Cancelled by activist", cancelled.CancelReason)

	// the donation is not reconciled
	d, _ := env.services.Donation.Get(ctx, "1")
	assert.Equal(t, models.DonationStatusRequested, d.Status)

	withReason, err := env.services.Pickup.Cancel(ctx, req.ID, "Van broke down")
	require.NoError(t, err)
	assert.Equal(t, "Van broke down", withReason.CancelReason)

	_, err = env.services.Pickup.Cancel(ctx, "missing", "")
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.TypeOf(err))

	assert.Equal(t, []string{events.TypePickupRequested, events.TypeRequestCancelled, events.TypeRequestCancelled}, env.publisher.Types())
}

func TestPickup_PublishFailureDoesNotFailRequest(t *testing.T) {
	env := setupServices(t, repository.DemoSeed())
	env.publisher.PublishErr = errors.New("broker down")

	req, err := env.services.Pickup.RequestPickup(context.Background(), demoUser(t, "2"), &models.PickupRequestInput{DonationID: "1"})
	require.NoError(t, err)
	assert.NotEmpty(t, req.ID)
}

// --- users ---

func TestUser_AddTouchesRegistryOnly(t *testing.T) {
	env := setupServices(t, repository.DemoSeed())
	ctx := context.Background()

	u, err := env.services.User.Add(ctx, &models.UserInput{Email: "staff@demo.com", Name: "Staff", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusActive, u.Status)
	assert.True(t, u.IsActive)

	users, _ := env.services.User.List(ctx)
	assert.Len(t, users, 5)

	// the login directory is separate
	_, err = env.services.Auth.Login(ctx, "s1", &models.LoginRequest{Email: "staff@demo.com", Role: models.RoleAdmin})
	assert.ErrorIs(t, err, session.ErrInvalidCredentials)
}

func TestUser_StatusHelpers(t *testing.T) {
	env := setupServices(t, repository.DemoSeed())
	ctx := context.Background()

	u, err := env.services.User.Suspend(ctx, "4")
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusSuspended, u.Status)
	assert.False(t, u.IsActive)

	u, err = env.services.User.Approve(ctx, "4")
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusActive, u.Status)
	assert.True(t, u.IsActive)

	u, err = env.services.User.Reject(ctx, "4")
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusRejected, u.Status)

	_, err = env.services.User.Approve(ctx, "missing")
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.TypeOf(err))

	require.NoError(t, env.services.User.Delete(ctx, "4"))
	users, _ := env.services.User.List(ctx)
	assert.Len(t, users, 3)
}

// --- beneficiaries ---

func TestBeneficiary_AddFamilyOfFour(t *testing.T) {
	env := setupServices(t, repository.DemoSeed())
	ctx := context.Background()

	b, err := env.services.Beneficiary.Add(ctx, &models.BeneficiaryInput{
		Name:       "Garcia Family",
		Email:      "garcia@example.com",
		Phone:      "+15550001",
		Address:    "12 Elm St",
		FamilySize: 4,
	})
	require.NoError(t, err)

	list, err := env.services.Beneficiary.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, models.BeneficiaryStatusActive, list[0].Status)
	assert.Equal(t, 0, list[0].TotalMealsReceived)
	assert.Equal(t, 4, list[0].FamilySize)
	assert.False(t, list[0].AddedDate.IsZero())
}

func TestBeneficiary_SearchAndUpdate(t *testing.T) {
	env := setupServices(t, repository.DemoSeed())
	ctx := context.Background()

	for _, name := range []string{"Garcia Family", "Nguyen Family", "Okafor Household"} {
		_, err := env.services.Beneficiary.Add(ctx, &models.BeneficiaryInput{Name: name, Phone: "1", Address: "Main St", FamilySize: 2})
		require.NoError(t, err)
	}

	found, _ := env.services.Beneficiary.List(ctx, "family")
	assert.Len(t, found, 2)

	found, _ = env.services.Beneficiary.List(ctx, "okafor")
	require.Len(t, found, 1)

	size := 0
	_, err := env.services.Beneficiary.Update(ctx, found[0].ID, &models.BeneficiaryUpdate{FamilySize: &size})
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))

	status := models.BeneficiaryStatusInactive
	b, err := env.services.Beneficiary.Update(ctx, found[0].ID, &models.BeneficiaryUpdate{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.BeneficiaryStatusInactive, b.Status)
}

// --- stats ---

func TestStats_Dashboard(t *testing.T) {
	env := setupServices(t, repository.Seed{
		Donations: []*models.Donation{
			{ID: "a", Status: models.DonationStatusAvailable},
			{ID: "b", Status: models.DonationStatusRequested},
			{ID: "c", Status: models.DonationStatusPickedUp, Quantity: 12.5, Unit: "kg"},
			{ID: "d", Status: models.DonationStatusPickedUp, Quantity: 30, Unit: "meals"},
			{ID: "e", Status: models.DonationStatusExpired},
		},
		Requests: []*models.PickupRequest{
			{ID: "r1", Status: models.RequestStatusCompleted},
			{ID: "r2", Status: models.RequestStatusPending},
		},
		Beneficiaries: []*models.Beneficiary{{ID: "b1"}, {ID: "b2"}},
	})

	stats, err := env.services.Stats.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &models.DashboardStats{
		TotalDonations:     5,
		ActiveDonations:    2,
		CompletedPickups:   1,
		TotalBeneficiaries: 2,
		WasteReduced:       12.5,
	}, stats)

	counts, err := env.services.Stats.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &models.RegistryCounts{Users: 0, Donations: 5, Requests: 2, Beneficiaries: 2}, counts)
}

// --- export ---

func TestExport_NDJSON(t *testing.T) {
	env := setupServices(t, repository.DemoSeed())
	var buf bytes.Buffer

	n, err := env.services.Export.Export(context.Background(), &buf, "users", "ndjson")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	var first models.User
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "restaurant@demo.com", first.Email)
}

func TestExport_JSONArray(t *testing.T) {
	env := setupServices(t, repository.DemoSeed())
	var buf bytes.Buffer

	n, err := env.services.Export.Export(context.Background(), &buf, "donations", "json")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var donations []models.Donation
	require.NoError(t, json.Unmarshal(buf.Bytes(), &donations))
	require.Len(t, donations, 1)
	assert.Equal(t, "Fresh Sandwiches & Salads", donations[0].Title)

	buf.Reset()
	n, err = env.services.Export.Export(context.Background(), &buf, "requests", "json")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, "[]", buf.String())
}

func TestExport_CSV(t *testing.T) {
	env := setupServices(t, repository.DemoSeed())
	var buf bytes.Buffer

	n, err := env.services.Export.Export(context.Background(), &buf, "donations", "csv")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "id", records[0][0])
	assert.Equal(t, "Fresh Sandwiches & Salads", records[1][1])
	assert.Equal(t, "15", records[1][5])
}

func TestExport_RejectsUnknownResourceAndFormat(t *testing.T) {
	env := setupServices(t, repository.DemoSeed())
	var buf bytes.Buffer
	ctx := context.Background()

	_, err := env.services.Export.Export(ctx, &buf, "articles", "json")
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))

	_, err = env.services.Export.Export(ctx, &buf, "users", "xml")
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))

	_, err = env.services.Export.Export(ctx, &buf, "requests", "csv")
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
}

// --- expiry ---

func TestExpiry_SweepOnce(t *testing.T) {
	env := setupServices(t, repository.Seed{Donations: []*models.Donation{
		{ID: "old", Status: models.DonationStatusAvailable, ExpiryDate: time.Now().Add(-time.Minute)},
		{ID: "new", Status: models.DonationStatusAvailable, ExpiryDate: time.Now().Add(time.Hour)},
	}})
	ctx := context.Background()

	n, err := env.services.Expiry.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{events.TypeDonationsExpired}, env.publisher.Types())

	n, err = env.services.Expiry.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Len(t, env.publisher.Events, 1)
}

func TestExpiry_ProcessorStartStop(t *testing.T) {
	env := setupServices(t, repository.Seed{Donations: []*models.Donation{
		{ID: "old", Status: models.DonationStatusAvailable, ExpiryDate: time.Now().Add(-time.Minute)},
	}})
	ctx := context.Background()

	go env.services.Expiry.StartProcessor(ctx)

	require.Eventually(t, func() bool {
		d, _ := env.repos.Donation.GetByID(ctx, "old")
		return d.Status == models.DonationStatusExpired
	}, time.Second, 5*time.Millisecond)

	env.services.Expiry.StopProcessor()
	env.services.Expiry.StopProcessor()
}

func TestExpiry_StopBeforeStartPreventsLoop(t *testing.T) {
	env := setupServices(t, repository.Seed{Donations: []*models.Donation{
		{ID: "old", Status: models.DonationStatusAvailable, ExpiryDate: time.Now().Add(-time.Minute)},
	}})
	ctx := context.Background()

	env.services.Expiry.StopProcessor()

	returned := make(chan struct{})
	go func() {
		env.services.Expiry.StartProcessor(ctx)
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("StartProcessor kept running after StopProcessor")
	}

	d, err := env.repos.Donation.GetByID(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, models.DonationStatusAvailable, d.Status)
}

func TestExpiry_ProcessorExitsWhenContextCancelled(t *testing.T) {
	env := setupServices(t, repository.Seed{})
	ctx, cancel := context.WithCancel(context.Background())

	returned := make(chan struct{})
	go func() {
		env.services.Expiry.StartProcessor(ctx)
		close(returned)
	}()
	cancel()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("StartProcessor did not return after cancellation")
	}
}

func TestExpiry_DemoDonationStaysAvailable(t *testing.T) {
	env := setupServices(t, repository.DemoSeed())
	ctx := context.Background()

	n, err := env.services.Expiry.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	d, err := env.repos.Donation.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, models.DonationStatusAvailable, d.Status)
	assert.True(t, d.ExpiryDate.After(time.Now()))
}
