package models

import (
	"strings"
	"time"
)

// Beneficiary status values
const (
	BeneficiaryStatusActive   = "active"
	BeneficiaryStatusInactive = "inactive"
)

// Beneficiary is a recipient household tracked by an activist. It is not
// linked to any pickup; TotalMealsReceived and LastServed are never updated
// by a pickup flow.
type Beneficiary struct {
	ID                 string    `json:"id" db:"id"`
	Name               string    `json:"name" db:"name"`
	Email              string    `json:"email" db:"email"`
	Phone              string    `json:"phone" db:"phone"`
	Address            string    `json:"address" db:"address"`
	FamilySize         int       `json:"family_size" db:"family_size"`
	SpecialNeeds       string    `json:"special_needs,omitempty" db:"special_needs"`
	Notes              string    `json:"notes,omitempty" db:"notes"`
	Status             string    `json:"status" db:"status"`
	TotalMealsReceived int       `json:"total_meals_received" db:"total_meals_received"`
	LastServed         time.Time `json:"last_served" db:"last_served"`
	AddedDate          time.Time `json:"added_date" db:"added_date"`
}

// BeneficiaryInput is the "add beneficiary" form
type BeneficiaryInput struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	FamilySize   int    `json:"family_size"`
	SpecialNeeds string `json:"special_needs,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// BeneficiaryUpdate is a partial update; nil fields are left untouched
type BeneficiaryUpdate struct {
	Name               *string    `json:"name,omitempty"`
	Email              *string    `json:"email,omitempty"`
	Phone              *string    `json:"phone,omitempty"`
	Address            *string    `json:"address,omitempty"`
	FamilySize         *int       `json:"family_size,omitempty"`
	SpecialNeeds       *string    `json:"special_needs,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
	Status             *string    `json:"status,omitempty"`
	TotalMealsReceived *int       `json:"total_meals_received,omitempty"`
	LastServed         *time.Time `json:"last_served,omitempty"`
}

// Apply merges the non-nil fields of upd into b
func (b *Beneficiary) Apply(upd *BeneficiaryUpdate) {
	if upd == nil {
		return
	}
	setString(&b.Name, upd.Name)
	setString(&b.Email, upd.Email)
	setString(&b.Phone, upd.Phone)
	setString(&b.Address, upd.Address)
	if upd.FamilySize != nil {
		b.FamilySize = *upd.FamilySize
	}
	setString(&b.SpecialNeeds, upd.SpecialNeeds)
	setString(&b.Notes, upd.Notes)
	setString(&b.Status, upd.Status)
	if upd.TotalMealsReceived != nil {
		b.TotalMealsReceived = *upd.TotalMealsReceived
	}
	if upd.LastServed != nil {
		b.LastServed = *upd.LastServed
	}
}

// MatchesSearch does a case-insensitive match on name, email and address
func (b *Beneficiary) MatchesSearch(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(b.Name), term) ||
		strings.Contains(strings.ToLower(b.Email), term) ||
		strings.Contains(strings.ToLower(b.Address), term)
}
