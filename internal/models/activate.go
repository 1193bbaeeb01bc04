package models

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
)

var activationCodeRe = regexp.MustCompile(`^[0-9]{4}$`)

// ActivateRequest represents the JSON body for account activation
// swagger:model ActivateRequest
type ActivateRequest struct {
	// 4-digit activation code received by email
	// required: true
	// example: 0734
	Code string `json:"code"`
}

// Validate checks that the code is exactly four ASCII digits.
func (r ActivateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code,
			validation.Required,
			validation.Match(activationCodeRe).Error("activation code must be a 4-digit number"),
		),
	)
}

// ActivateResponse represents a successful activation or resend response
// swagger:model ActivateResponse
type ActivateResponse struct {
	// Success message
	// example: Account activated successfully
	Message string `json:"message"`
}
