package models

import (
	"time"
)

// RequestStatus represents the state of a pickup request
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusConfirmed RequestStatus = "confirmed"
	RequestStatusCompleted RequestStatus = "completed"
	RequestStatusCancelled RequestStatus = "cancelled"
)

// DefaultCancelReason is recorded when an activist cancels without a reason
const DefaultCancelReason = "Cancelled by activist"

// PickupRequest is an activist's claim on a donation. Donor details are a
// snapshot taken at creation time.
type PickupRequest struct {
	ID                     string        `json:"id" db:"id"`
	DonationID             string        `json:"donation_id" db:"donation_id"`
	Title                  string        `json:"title" db:"title"`
	Donor                  string        `json:"donor" db:"donor"`
	DonorPhone             string        `json:"donor_phone,omitempty" db:"donor_phone"`
	DonorEmail             string        `json:"donor_email,omitempty" db:"donor_email"`
	Quantity               string        `json:"quantity" db:"quantity"`
	PickupTime             time.Time     `json:"pickup_time" db:"pickup_time"`
	PickupAddress          string        `json:"pickup_address" db:"pickup_address"`
	Notes                  string        `json:"notes,omitempty" db:"notes"`
	EstimatedBeneficiaries int           `json:"estimated_beneficiaries" db:"estimated_beneficiaries"`
	Status                 RequestStatus `json:"status" db:"status"`
	CancelReason           string        `json:"cancel_reason,omitempty" db:"cancel_reason"`
	RequestDate            time.Time     `json:"request_date" db:"request_date"`
	ActivistID             string        `json:"activist_id" db:"activist_id"`
	ActivistName           string        `json:"activist_name" db:"activist_name"`
}

// PickupRequestInput is what the browse screen submits
type PickupRequestInput struct {
	DonationID             string    `json:"donation_id"`
	Title                  string    `json:"title"`
	Donor                  string    `json:"donor"`
	DonorPhone             string    `json:"donor_phone,omitempty"`
	DonorEmail             string    `json:"donor_email,omitempty"`
	Quantity               string    `json:"quantity"`
	PickupTime             time.Time `json:"pickup_time"`
	PickupAddress          string    `json:"pickup_address"`
	Notes                  string    `json:"notes,omitempty"`
	EstimatedBeneficiaries int       `json:"estimated_beneficiaries"`
}

// PickupRequestUpdate is a partial update; nil fields are left untouched
type PickupRequestUpdate struct {
	Status                 *RequestStatus `json:"status,omitempty"`
	CancelReason           *string        `json:"cancel_reason,omitempty"`
	PickupTime             *time.Time     `json:"pickup_time,omitempty"`
	PickupAddress          *string        `json:"pickup_address,omitempty"`
	Notes                  *string        `json:"notes,omitempty"`
	EstimatedBeneficiaries *int           `json:"estimated_beneficiaries,omitempty"`
}

// Apply merges the non-nil fields of upd into r
func (r *PickupRequest) Apply(upd *PickupRequestUpdate) {
	if upd == nil {
		return
	}
	if upd.Status != nil {
		r.Status = *upd.Status
	}
	setString(&r.CancelReason, upd.CancelReason)
	if upd.PickupTime != nil {
		r.PickupTime = *upd.PickupTime
	}
	setString(&r.PickupAddress, upd.PickupAddress)
	setString(&r.Notes, upd.Notes)
	if upd.EstimatedBeneficiaries != nil {
		r.EstimatedBeneficiaries = *upd.EstimatedBeneficiaries
	}
}
