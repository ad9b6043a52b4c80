package repository

import (
	"context"
	"sync"
	"time"

	"github.com/foodbridge-api/internal/models"
)

// memoryStore keeps all four registries behind one lock so that a pickup
// request and its donation claim are written together. Records are copied
// on the way in and on the way out.
type memoryStore struct {
	mu            sync.RWMutex
	users         []*models.User
	donations     []*models.Donation
	requests      []*models.PickupRequest
	beneficiaries []*models.Beneficiary
}

// NewMemory creates in-memory repositories pre-populated with seed
func NewMemory(seed Seed) *Repositories {
	s := &memoryStore{}
	for _, u := range seed.Users {
		s.users = append(s.users, copyUser(u))
	}
	for _, d := range seed.Donations {
		s.donations = append(s.donations, d.Clone())
	}
	for _, r := range seed.Requests {
		s.requests = append(s.requests, copyRequest(r))
	}
	for _, b := range seed.Beneficiaries {
		s.beneficiaries = append(s.beneficiaries, copyBeneficiary(b))
	}

	return &Repositories{
		User:        &memoryUserRepo{s: s},
		Donation:    &memoryDonationRepo{s: s},
		Request:     &memoryRequestRepo{s: s},
		Beneficiary: &memoryBeneficiaryRepo{s: s},
	}
}

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

func copyRequest(r *models.PickupRequest) *models.PickupRequest {
	c := *r
	return &c
}

func copyBeneficiary(b *models.Beneficiary) *models.Beneficiary {
	c := *b
	return &c
}

// --- users ---

type memoryUserRepo struct {
	s *memoryStore
}

func (r *memoryUserRepo) Create(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users = append(r.s.users, copyUser(user))
	return nil
}

func (r *memoryUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.ID == id {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepo) List(ctx context.Context) ([]*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, copyUser(u))
	}
	return out, nil
}

func (r *memoryUserRepo) Update(ctx context.Context, id string, upd *models.UserUpdate) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.ID == id {
			u.Apply(upd)
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.users[:0]
	for _, u := range r.s.users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	r.s.users = kept
	return nil
}

func (r *memoryUserRepo) Count(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.users), nil
}

func (r *memoryUserRepo) StreamAll(ctx context.Context, callback func(*models.User) error) error {
	users, _ := r.List(ctx)
	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := callback(u); err != nil {
			return err
		}
	}
	return nil
}

// --- donations ---

type memoryDonationRepo struct {
	s *memoryStore
}

func (r *memoryDonationRepo) Create(ctx context.Context, donation *models.Donation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.donations = append(r.s.donations, donation.Clone())
	return nil
}

func (r *memoryDonationRepo) GetByID(ctx context.Context, id string) (*models.Donation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if d := r.s.findDonation(id); d != nil {
		return d.Clone(), nil
	}
	return nil, nil
}

func (r *memoryDonationRepo) List(ctx context.Context, filter models.DonationFilter) ([]*models.Donation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*models.Donation, 0, len(r.s.donations))
	for _, d := range r.s.donations {
		if filter.Matches(d) {
			out = append(out, d.Clone())
		}
	}
	return out, nil
}

func (r *memoryDonationRepo) ListByOwner(ctx context.Context, donorID string) ([]*models.Donation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*models.Donation, 0)
	for _, d := range r.s.donations {
		if d.DonorID == donorID {
			out = append(out, d.Clone())
		}
	}
	return out, nil
}

func (r *memoryDonationRepo) Update(ctx context.Context, id string, upd *models.DonationUpdate) (*models.Donation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d := r.s.findDonation(id)
	if d == nil {
		return nil, nil
	}
	d.Apply(upd)
	return d.Clone(), nil
}

func (r *memoryDonationRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.donations[:0]
	for _, d := range r.s.donations {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	r.s.donations = kept
	return nil
}

func (r *memoryDonationRepo) ExpireBefore(ctx context.Context, cutoff time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	expired := 0
	for _, d := range r.s.donations {
		if d.Status == models.DonationStatusAvailable && !d.ExpiryDate.IsZero() && d.ExpiryDate.Before(cutoff) {
			d.Status = models.DonationStatusExpired
			expired++
		}
	}
	return expired, nil
}

func (r *memoryDonationRepo) Count(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.donations), nil
}

func (r *memoryDonationRepo) StreamAll(ctx context.Context, callback func(*models.Donation) error) error {
	donations, _ := r.List(ctx, models.DonationFilter{})
	for _, d := range donations {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := callback(d); err != nil {
			return err
		}
	}
	return nil
}

// findDonation must be called with the lock held
func (s *memoryStore) findDonation(id string) *models.Donation {
	for _, d := range s.donations {
		if d.ID == id {
			return d
		}
	}
	return nil
}

// --- pickup requests ---

type memoryRequestRepo struct {
	s *memoryStore
}

func (r *memoryRequestRepo) Create(ctx context.Context, request *models.PickupRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.requests = append(r.s.requests, copyRequest(request))
	return nil
}

func (r *memoryRequestRepo) CreateWithClaim(ctx context.Context, request *models.PickupRequest, claim models.DonationClaim) (*models.Donation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.requests = append(r.s.requests, copyRequest(request))

	d := r.s.findDonation(claim.DonationID)
	if d == nil {
		return nil, nil
	}
	d.Apply(claim.Update())
	return d.Clone(), nil
}

func (r *memoryRequestRepo) GetByID(ctx context.Context, id string) (*models.PickupRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, req := range r.s.requests {
		if req.ID == id {
			return copyRequest(req), nil
		}
	}
	return nil, nil
}

func (r *memoryRequestRepo) List(ctx context.Context) ([]*models.PickupRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*models.PickupRequest, 0, len(r.s.requests))
	for _, req := range r.s.requests {
		out = append(out, copyRequest(req))
	}
	return out, nil
}

func (r *memoryRequestRepo) ListByOwner(ctx context.Context, activistID string) ([]*models.PickupRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*models.PickupRequest, 0)
	for _, req := range r.s.requests {
		if req.ActivistID == activistID {
			out = append(out, copyRequest(req))
		}
	}
	return out, nil
}

func (r *memoryRequestRepo) Update(ctx context.Context, id string, upd *models.PickupRequestUpdate) (*models.PickupRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, req := range r.s.requests {
		if req.ID == id {
			req.Apply(upd)
			return copyRequest(req), nil
		}
	}
	return nil, nil
}

func (r *memoryRequestRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.requests[:0]
	for _, req := range r.s.requests {
		if req.ID != id {
			kept = append(kept, req)
		}
	}
	r.s.requests = kept
	return nil
}

func (r *memoryRequestRepo) Count(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.requests), nil
}

func (r *memoryRequestRepo) StreamAll(ctx context.Context, callback func(*models.PickupRequest) error) error {
	requests, _ := r.List(ctx)
	for _, req := range requests {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := callback(req); err != nil {
			return err
		}
	}
	return nil
}

// --- beneficiaries ---

type memoryBeneficiaryRepo struct {
	s *memoryStore
}

func (r *memoryBeneficiaryRepo) Create(ctx context.Context, beneficiary *models.Beneficiary) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.beneficiaries = append(r.s.beneficiaries, copyBeneficiary(beneficiary))
	return nil
}

func (r *memoryBeneficiaryRepo) GetByID(ctx context.Context, id string) (*models.Beneficiary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, b := range r.s.beneficiaries {
		if b.ID == id {
			return copyBeneficiary(b), nil
		}
	}
	return nil, nil
}

func (r *memoryBeneficiaryRepo) List(ctx context.Context) ([]*models.Beneficiary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*models.Beneficiary, 0, len(r.s.beneficiaries))
	for _, b := range r.s.beneficiaries {
		out = append(out, copyBeneficiary(b))
	}
	return out, nil
}

func (r *memoryBeneficiaryRepo) Update(ctx context.Context, id string, upd *models.BeneficiaryUpdate) (*models.Beneficiary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.beneficiaries {
		if b.ID == id {
			b.Apply(upd)
			return copyBeneficiary(b), nil
		}
	}
	return nil, nil
}

func (r *memoryBeneficiaryRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.beneficiaries[:0]
	for _, b := range r.s.beneficiaries {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	r.s.beneficiaries = kept
	return nil
}

func (r *memoryBeneficiaryRepo) Count(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.beneficiaries), nil
}

func (r *memoryBeneficiaryRepo) StreamAll(ctx context.Context, callback func(*models.Beneficiary) error) error {
	beneficiaries, _ := r.List(ctx)
	for _, b := range beneficiaries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := callback(b); err != nil {
			return err
		}
	}
	return nil
}
