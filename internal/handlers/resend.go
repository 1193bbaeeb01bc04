package handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/gw-user-activation/internal/middlewares"
	"github.com/sbilibin2017/gw-user-activation/internal/models"
)

//go:generate mockgen -source=resend.go -destination=resend_mock.go -package=handlers

// ResendMessage is returned once a fresh code has been issued.
const ResendMessage = "Activation code sent"

// Resender defines the interface that the service must implement.
type Resender interface {
	Resend(ctx context.Context, email, password string) error
}

// NewResendHandler returns an HTTP handler that issues a new activation code.
// @Summary Resend the activation code
// @Description Replaces the pending activation code with a fresh one and emails it. The previous code stops working.
// @Tags users
// @Produce json
// @Security BasicAuth
// @Success 200 {object} models.ActivateResponse "Code sent"
// @Failure 400 {object} models.ErrorResponse "Account already active"
// @Failure 401 {object} models.ErrorResponse "Missing or invalid credentials"
// @Router /users/activate/resend [post]
func NewResendHandler(svc Resender) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creds, ok := middlewares.CredentialsFromContext(r.Context())
		if !ok {
			middlewares.Unauthorized(w, "", "Not authenticated")
			return
		}

		if err := svc.Resend(r.Context(), creds.Email, creds.Password); err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, models.ActivateResponse{Message: ResendMessage})
	}
}
