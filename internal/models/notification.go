package models

import "time"

// ActivationNotification carries an issued activation code to a notifier.
type ActivationNotification struct {
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}
