package profile

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrUnavailable is returned when the backend cannot be reached or answers
	// with a server error.
	ErrUnavailable = errors.New("profile backend unavailable")
	// ErrInvalid is returned when the backend payload fails strict validation.
	ErrInvalid = errors.New("profile payload invalid")
	// ErrUnauthorized is returned when the backend rejects the credential.
	ErrUnauthorized = errors.New("profile request unauthorized")
)

// Record is the authoritative user record. IsVerified and OnboardingCompleted
// are the only fields routing reads; the rest is carried for display.
type Record struct {
	ID                  string `json:"id" validate:"required"`
	IsVerified          bool   `json:"is_verified"`
	OnboardingCompleted bool   `json:"onboarding_completed"`
	Email               string `json:"email,omitempty" validate:"omitempty,email"`
	FullName            string `json:"full_name,omitempty"`
	Phone               string `json:"phone,omitempty"`
}

// Provider fetches the current user record from the remote backend.
type Provider interface {
	FetchCurrent(ctx context.Context) (*Record, error)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateRecord applies the boundary validation rules to a decoded record.
func ValidateRecord(rec *Record) error {
	if rec == nil {
		return ErrInvalid
	}
	if err := validate.Struct(rec); err != nil {
		return errors.Join(ErrInvalid, err)
	}
	return nil
}
