package models

import (
	"time"
)

// Role values
const (
	RoleRestaurant = "restaurant"
	RoleDonor      = "donor"
	RoleActivist   = "activist"
	RoleAdmin      = "admin"
)

// ValidRoles defines allowed user roles
var ValidRoles = map[string]bool{
	RoleRestaurant: true,
	RoleDonor:      true,
	RoleActivist:   true,
	RoleAdmin:      true,
}

// User status values. Screens in the original product disagree on this
// enumeration, so it is stored as a free string.
const (
	UserStatusActive    = "active"
	UserStatusPending   = "pending"
	UserStatusSuspended = "suspended"
	UserStatusRejected  = "rejected"
)

// User represents an identity record
type User struct {
	ID               string    `json:"id" db:"id"`
	Email            string    `json:"email" db:"email"`
	Name             string    `json:"name" db:"name"`
	Role             string    `json:"role" db:"role"`
	Phone            string    `json:"phone,omitempty" db:"phone"`
	Address          string    `json:"address,omitempty" db:"address"`
	RestaurantName   string    `json:"restaurant_name,omitempty" db:"restaurant_name"`
	OrganizationName string    `json:"organization_name,omitempty" db:"organization_name"`
	Status           string    `json:"status,omitempty" db:"status"`
	IsActive         bool      `json:"is_active" db:"is_active"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	JoinDate         time.Time `json:"join_date" db:"join_date"`
	LastActive       time.Time `json:"last_active" db:"last_active"`
}

// DisplayName is the name shown on records the user owns
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.RestaurantName
}

// RegisterRequest is the self-service registration form
type RegisterRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	Name             string `json:"name"`
	Role             string `json:"role"`
	Phone            string `json:"phone,omitempty"`
	Address          string `json:"address,omitempty"`
	RestaurantName   string `json:"restaurant_name,omitempty"`
	OrganizationName string `json:"organization_name,omitempty"`
}

// LoginRequest is the login form. Password is accepted but never checked.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UserInput is the admin "add user" form
type UserInput struct {
	Email            string `json:"email"`
	Name             string `json:"name"`
	Role             string `json:"role"`
	Phone            string `json:"phone,omitempty"`
	Address          string `json:"address,omitempty"`
	RestaurantName   string `json:"restaurant_name,omitempty"`
	OrganizationName string `json:"organization_name,omitempty"`
}

// UserUpdate is a partial update; nil fields are left untouched
type UserUpdate struct {
	Email            *string    `json:"email,omitempty"`
	Name             *string    `json:"name,omitempty"`
	Role             *string    `json:"role,omitempty"`
	Phone            *string    `json:"phone,omitempty"`
	Address          *string    `json:"address,omitempty"`
	RestaurantName   *string    `json:"restaurant_name,omitempty"`
	OrganizationName *string    `json:"organization_name,omitempty"`
	Status           *string    `json:"status,omitempty"`
	IsActive         *bool      `json:"is_active,omitempty"`
	LastActive       *time.Time `json:"last_active,omitempty"`
}

// Apply merges the non-nil fields of upd into u
func (u *User) Apply(upd *UserUpdate) {
	if upd == nil {
		return
	}
	setString(&u.Email, upd.Email)
	setString(&u.Name, upd.Name)
	setString(&u.Role, upd.Role)
	setString(&u.Phone, upd.Phone)
	setString(&u.Address, upd.Address)
	setString(&u.RestaurantName, upd.RestaurantName)
	setString(&u.OrganizationName, upd.OrganizationName)
	setString(&u.Status, upd.Status)
	if upd.IsActive != nil {
		u.IsActive = *upd.IsActive
	}
	if upd.LastActive != nil {
		u.LastActive = *upd.LastActive
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
