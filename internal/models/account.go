package models

import (
	"time"

	"github.com/google/uuid"
)

// AccountDB represents an account record in the database
type AccountDB struct {
	ID                      uuid.UUID  `json:"id" db:"id"`                                                 // Primary key
	Email                   string     `json:"email" db:"email"`                                           // Unique email
	PasswordHash            string     `json:"-" db:"password_hash"`                                       // bcrypt hash, never the plaintext
	IsActive                bool       `json:"is_active" db:"is_active"`                                   // Set once the code is confirmed
	ActivationCode          *string    `json:"-" db:"activation_code"`                                     // 4 digits, nil once active
	ActivationCodeExpiresAt *time.Time `json:"activation_code_expires_at" db:"activation_code_expires_at"` // Set together with ActivationCode
	CreatedAt               time.Time  `json:"created_at" db:"created_at"`                                 // Creation timestamp
	UpdatedAt               time.Time  `json:"updated_at" db:"updated_at"`                                 // Last update timestamp
}

// HasActivationCode reports whether a code is currently issued for the account.
func (a *AccountDB) HasActivationCode() bool {
	return a.ActivationCode != nil && a.ActivationCodeExpiresAt != nil
}
