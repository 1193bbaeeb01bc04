package models

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
)

const (
	// PasswordMinLength is the minimal accepted password length.
	PasswordMinLength = 8
	// PasswordMaxBytes is the bcrypt input limit.
	PasswordMaxBytes = 72
)

// RegisterRequest represents the JSON body for user registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	// Email
	// required: true
	// example: john@example.com
	Email string `json:"email"`

	// Password, at least 8 characters
	// required: true
	// example: SecurePass123
	Password string `json:"password"`
}

// Validate checks the shape of the registration payload.
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(3, 255), is.Email),
		validation.Field(&r.Password,
			validation.Required,
			validation.Length(PasswordMinLength, 0).Error("password must be at least 8 characters"),
			validation.By(maxBytes(PasswordMaxBytes)),
		),
	)
}

func maxBytes(n int) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if len(s) > n {
			return errors.New("password must be at most 72 bytes")
		}
		return nil
	}
}

// RegisterResponse represents a successful registration response
// swagger:model RegisterResponse
type RegisterResponse struct {
	// Account id
	// example: 3fa85f64-5717-4562-b3fc-2c963f66afa6
	ID uuid.UUID `json:"id"`

	// Registered email
	// example: john@example.com
	Email string `json:"email"`

	// Success message
	// example: Registration successful. Please check your email for the activation code.
	Message string `json:"message"`
}
