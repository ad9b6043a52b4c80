package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/foodbridge-api/internal/models"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	clockRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Summary joins the field messages into one line
func Summary(errs []ValidationError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Message)
	}
	return strings.Join(parts, "; ")
}

// ValidateRegistration checks the required fields of the registration form
func ValidateRegistration(req *models.RegisterRequest) []ValidationError {
	var errors []ValidationError

	errors = append(errors, validateEmail(req.Email)...)

	if req.Password == "" {
		errors = append(errors, ValidationError{Field: "password", Message: "password is required"})
	}

	if strings.TrimSpace(req.Name) == "" {
		errors = append(errors, ValidationError{Field: "name", Message: "name is required"})
	}

	errors = append(errors, validateRole(req.Role)...)

	return errors
}

// ValidateUserInput checks the admin "add user" form
func ValidateUserInput(in *models.UserInput) []ValidationError {
	var errors []ValidationError

	errors = append(errors, validateEmail(in.Email)...)

	if strings.TrimSpace(in.Name) == "" {
		errors = append(errors, ValidationError{Field: "name", Message: "name is required"})
	}

	errors = append(errors, validateRole(in.Role)...)

	return errors
}

// ValidateDonation checks the "post donation" form
func ValidateDonation(in *models.DonationInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(in.Title) == "" {
		errors = append(errors, ValidationError{Field: "title", Message: "title is required"})
	}

	if in.FoodType == "" {
		errors = append(errors, ValidationError{Field: "food_type", Message: "food_type is required"})
	} else if !models.ValidFoodTypes[in.FoodType] {
		errors = append(errors, ValidationError{
			Field:   "food_type",
			Message: "invalid food_type, must be one of: prepared, packaged, fresh, bakery, other",
			Value:   in.FoodType,
		})
	}

	if in.Quantity <= 0 {
		errors = append(errors, ValidationError{Field: "quantity", Message: "quantity must be greater than zero", Value: in.Quantity})
	}

	if in.Unit == "" {
		errors = append(errors, ValidationError{Field: "unit", Message: "unit is required"})
	}

	if strings.TrimSpace(in.PickupAddress) == "" {
		errors = append(errors, ValidationError{Field: "pickup_address", Message: "pickup_address is required"})
	}

	if in.ExpiryDate.IsZero() {
		errors = append(errors, ValidationError{Field: "expiry_date", Message: "expiry_date is required"})
	}

	// Window bounds are wall-clock strings and are not compared to the expiry date
	window := []struct{ field, value string }{
		{"pickup_time.start", in.PickupTime.Start},
		{"pickup_time.end", in.PickupTime.End},
	}
	for _, w := range window {
		field, value := w.field, w.value
		if value == "" {
			errors = append(errors, ValidationError{Field: field, Message: fmt.Sprintf("%s is required", field)})
		} else if !clockRegex.MatchString(value) {
			errors = append(errors, ValidationError{Field: field, Message: "time must be HH:MM", Value: value})
		}
	}

	return errors
}

// ValidateBeneficiary checks the "add beneficiary" form
func ValidateBeneficiary(in *models.BeneficiaryInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(in.Name) == "" {
		errors = append(errors, ValidationError{Field: "name", Message: "name is required"})
	}

	if in.Email != "" && !emailRegex.MatchString(in.Email) {
		errors = append(errors, ValidationError{Field: "email", Message: "invalid email format", Value: in.Email})
	}

	if strings.TrimSpace(in.Phone) == "" {
		errors = append(errors, ValidationError{Field: "phone", Message: "phone is required"})
	}

	if strings.TrimSpace(in.Address) == "" {
		errors = append(errors, ValidationError{Field: "address", Message: "address is required"})
	}

	if in.FamilySize < 1 {
		errors = append(errors, ValidationError{Field: "family_size", Message: "family_size must be at least 1", Value: in.FamilySize})
	}

	return errors
}

// ValidatePickupRequest checks a pickup request. The referenced donation is
// deliberately not looked up.
func ValidatePickupRequest(in *models.PickupRequestInput) []ValidationError {
	var errors []ValidationError

	if in.DonationID == "" {
		errors = append(errors, ValidationError{Field: "donation_id", Message: "donation_id is required"})
	}

	if in.EstimatedBeneficiaries < 0 {
		errors = append(errors, ValidationError{
			Field:   "estimated_beneficiaries",
			Message: "estimated_beneficiaries must not be negative",
			Value:   in.EstimatedBeneficiaries,
		})
	}

	return errors
}

func validateEmail(email string) []ValidationError {
	if email == "" {
		return []ValidationError{{Field: "email", Message: "email is required"}}
	}
	if !emailRegex.MatchString(email) {
		return []ValidationError{{Field: "email", Message: "invalid email format", Value: email}}
	}
	return nil
}

func validateRole(role string) []ValidationError {
	if role == "" {
		return []ValidationError{{Field: "role", Message: "role is required"}}
	}
	if !models.ValidRoles[role] {
		return []ValidationError{{
			Field:   "role",
			Message: "invalid role, must be one of: restaurant, donor, activist, admin",
			Value:   role,
		}}
	}
	return nil
}
