package models

import (
	"time"
)

// DonationStatus represents where a donation is in its lifecycle
type DonationStatus string

const (
	DonationStatusAvailable DonationStatus = "available"
	DonationStatusRequested DonationStatus = "requested"
	DonationStatusPickedUp  DonationStatus = "picked-up"
	DonationStatusExpired   DonationStatus = "expired"
)

// ValidDonationStatuses defines allowed donation statuses
var ValidDonationStatuses = map[DonationStatus]bool{
	DonationStatusAvailable: true,
	DonationStatusRequested: true,
	DonationStatusPickedUp:  true,
	DonationStatusExpired:   true,
}

// ValidFoodTypes defines allowed food types
var ValidFoodTypes = map[string]bool{
	"prepared": true,
	"packaged": true,
	"fresh":    true,
	"bakery":   true,
	"other":    true,
}

// PickupWindow is a wall-clock window such as 17:00-19:00. It is not
// checked against the expiry date.
type PickupWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Donation is a surplus-food listing posted by a donor
type Donation struct {
	ID                  string         `json:"id" db:"id"`
	DonorID             string         `json:"donor_id" db:"donor_id"`
	DonorName           string         `json:"donor_name" db:"donor_name"`
	Title               string         `json:"title" db:"title"`
	Description         string         `json:"description" db:"description"`
	FoodType            string         `json:"food_type" db:"food_type"`
	Quantity            float64        `json:"quantity" db:"quantity"`
	Unit                string         `json:"unit" db:"unit"`
	ExpiryDate          time.Time      `json:"expiry_date" db:"expiry_date"`
	PickupAddress       string         `json:"pickup_address" db:"pickup_address"`
	PickupTime          PickupWindow   `json:"pickup_time" db:"-"`
	Status              DonationStatus `json:"status" db:"status"`
	Images              []string       `json:"images,omitempty" db:"-"`
	DietaryInfo         []string       `json:"dietary_info,omitempty" db:"-"`
	SpecialInstructions string         `json:"special_instructions,omitempty" db:"special_instructions"`
	CreatedAt           time.Time      `json:"created_at" db:"created_at"`
	RequestedBy         string         `json:"requested_by,omitempty" db:"requested_by"`
	ActivistName        string         `json:"activist_name,omitempty" db:"activist_name"`
	ActivistPhone       string         `json:"activist_phone,omitempty" db:"activist_phone"`
}

// DonationInput is the "post donation" form
type DonationInput struct {
	Title               string       `json:"title"`
	Description         string       `json:"description"`
	FoodType            string       `json:"food_type"`
	Quantity            float64      `json:"quantity"`
	Unit                string       `json:"unit"`
	ExpiryDate          time.Time    `json:"expiry_date"`
	PickupAddress       string       `json:"pickup_address"`
	PickupTime          PickupWindow `json:"pickup_time"`
	Images              []string     `json:"images,omitempty"`
	DietaryInfo         []string     `json:"dietary_info,omitempty"`
	SpecialInstructions string       `json:"special_instructions,omitempty"`
}

// DonationUpdate is a partial update; nil fields are left untouched
type DonationUpdate struct {
	Title               *string         `json:"title,omitempty"`
	Description         *string         `json:"description,omitempty"`
	FoodType            *string         `json:"food_type,omitempty"`
	Quantity            *float64        `json:"quantity,omitempty"`
	Unit                *string         `json:"unit,omitempty"`
	ExpiryDate          *time.Time      `json:"expiry_date,omitempty"`
	PickupAddress       *string         `json:"pickup_address,omitempty"`
	PickupTime          *PickupWindow   `json:"pickup_time,omitempty"`
	Status              *DonationStatus `json:"status,omitempty"`
	Images              []string        `json:"images,omitempty"`
	DietaryInfo         []string        `json:"dietary_info,omitempty"`
	SpecialInstructions *string         `json:"special_instructions,omitempty"`
	RequestedBy         *string         `json:"requested_by,omitempty"`
	ActivistName        *string         `json:"activist_name,omitempty"`
	ActivistPhone       *string         `json:"activist_phone,omitempty"`
}

// Apply merges the non-nil fields of upd into d
func (d *Donation) Apply(upd *DonationUpdate) {
	if upd == nil {
		return
	}
	setString(&d.Title, upd.Title)
	setString(&d.Description, upd.Description)
	setString(&d.FoodType, upd.FoodType)
	if upd.Quantity != nil {
		d.Quantity = *upd.Quantity
	}
	setString(&d.Unit, upd.Unit)
	if upd.ExpiryDate != nil {
		d.ExpiryDate = *upd.ExpiryDate
	}
	setString(&d.PickupAddress, upd.PickupAddress)
	if upd.PickupTime != nil {
		d.PickupTime = *upd.PickupTime
	}
	if upd.Status != nil {
		d.Status = *upd.Status
	}
	if upd.Images != nil {
		d.Images = append([]string(nil), upd.Images...)
	}
	if upd.DietaryInfo != nil {
		d.DietaryInfo = append([]string(nil), upd.DietaryInfo...)
	}
	setString(&d.SpecialInstructions, upd.SpecialInstructions)
	setString(&d.RequestedBy, upd.RequestedBy)
	setString(&d.ActivistName, upd.ActivistName)
	setString(&d.ActivistPhone, upd.ActivistPhone)
}

// Clone returns a deep copy of d
func (d *Donation) Clone() *Donation {
	c := *d
	c.Images = append([]string(nil), d.Images...)
	c.DietaryInfo = append([]string(nil), d.DietaryInfo...)
	return &c
}

// DonationFilter narrows the all-donations listing
type DonationFilter struct {
	Status   DonationStatus
	FoodType string
}

// Matches reports whether d passes the filter
func (f DonationFilter) Matches(d *Donation) bool {
	if f.Status != "" && d.Status != f.Status {
		return false
	}
	if f.FoodType != "" && d.FoodType != f.FoodType {
		return false
	}
	return true
}

// DonationClaim is the requester identity written onto a donation when a
// pickup is requested
type DonationClaim struct {
	DonationID    string
	RequestedBy   string
	ActivistName  string
	ActivistPhone string
}

// Update converts the claim into the donation patch it implies
func (c DonationClaim) Update() *DonationUpdate {
	status := DonationStatusRequested
	return &DonationUpdate{
		Status:        &status,
		RequestedBy:   &c.RequestedBy,
		ActivistName:  &c.ActivistName,
		ActivistPhone: &c.ActivistPhone,
	}
}
