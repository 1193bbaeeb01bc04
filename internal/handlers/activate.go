package handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/gw-user-activation/internal/middlewares"
	"github.com/sbilibin2017/gw-user-activation/internal/models"
	"github.com/sbilibin2017/gw-user-activation/internal/services"
)

//go:generate mockgen -source=activate.go -destination=activate_mock.go -package=handlers

// ActivateMessage is returned once an account is activated.
const ActivateMessage = "Account activated successfully"

// Activator defines the interface that the service must implement.
type Activator interface {
	Activate(ctx context.Context, email, password, code string) error
}

// NewActivateHandler returns an HTTP handler that activates an account.
// It expects credentials placed in the context by BasicAuthMiddleware.
// @Summary Activate an account
// @Description Confirms the account with the 4-digit code sent by email. Requires Basic-Auth with the account email and password.
// @Tags users
// @Accept json
// @Produce json
// @Security BasicAuth
// @Param activateRequest body models.ActivateRequest true "Activation code"
// @Success 200 {object} models.ActivateResponse "Account activated"
// @Failure 400 {object} models.ErrorResponse "Already active, invalid or expired code"
// @Failure 401 {object} models.ErrorResponse "Missing or invalid credentials"
// @Failure 404 {object} models.ErrorResponse "Account not found"
// @Failure 422 {object} models.ErrorResponse "Malformed code"
// @Router /users/activate [post]
func NewActivateHandler(svc Activator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creds, ok := middlewares.CredentialsFromContext(r.Context())
		if !ok {
			middlewares.Unauthorized(w, "", "Not authenticated")
			return
		}

		var req models.ActivateRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if err := req.Validate(); err != nil {
			writeError(w, r, services.Validation(err))
			return
		}

		if err := svc.Activate(r.Context(), creds.Email, creds.Password, req.Code); err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, models.ActivateResponse{Message: ActivateMessage})
	}
}
