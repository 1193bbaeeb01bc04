package handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/gw-user-activation/internal/models"
	"github.com/sbilibin2017/gw-user-activation/internal/services"
)

//go:generate mockgen -source=register.go -destination=register_mock.go -package=handlers

// RegisterMessage is returned on successful registration.
const RegisterMessage = "Registration successful. Please check your email for the activation code."

// Registerer defines the interface that the service must implement.
type Registerer interface {
	Register(ctx context.Context, email, password string) (*models.AccountDB, error)
}

// NewRegisterHandler returns an HTTP handler for user registration.
// @Summary Register a new user
// @Description Creates an inactive account and emails it a 4-digit activation code valid for a limited time.
// @Tags users
// @Accept json
// @Produce json
// @Param registerRequest body models.RegisterRequest true "User registration request"
// @Success 201 {object} models.RegisterResponse "User successfully registered"
// @Failure 409 {object} models.ErrorResponse "Email already registered"
// @Failure 422 {object} models.ErrorResponse "Invalid request"
// @Failure 503 {object} models.ErrorResponse "Storage unavailable"
// @Router /users/register [post]
func NewRegisterHandler(svc Registerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest

		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if err := req.Validate(); err != nil {
			writeError(w, r, services.Validation(err))
			return
		}

		account, err := svc.Register(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, models.RegisterResponse{
			ID:      account.ID,
			Email:   account.Email,
			Message: RegisterMessage,
		})
	}
}
