package middlewares

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sbilibin2017/gw-user-activation/internal/logger"
	"github.com/sbilibin2017/gw-user-activation/internal/models"
)

type credentialsKey struct{}

// Credentials are the Basic-Auth username (the account email) and password.
type Credentials struct {
	Email    string
	Password string
}

// BasicAuthMiddleware returns a middleware that requires Basic-Auth credentials
// and stores them in the request context for downstream handlers.
// Verifying them is left to the handler.
func BasicAuthMiddleware(realm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, password, ok := r.BasicAuth()
			if !ok || email == "" {
				logger.Log.Infow("authorization failed", "err", "missing basic auth credentials")
				Unauthorized(w, realm, "Not authenticated")
				return
			}

			ctx := context.WithValue(r.Context(), credentialsKey{}, Credentials{
				Email:    email,
				Password: password,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CredentialsFromContext returns the credentials stored by BasicAuthMiddleware.
func CredentialsFromContext(ctx context.Context) (Credentials, bool) {
	c, ok := ctx.Value(credentialsKey{}).(Credentials)
	return c, ok
}

// Unauthorized writes a 401 with a Basic challenge.
func Unauthorized(w http.ResponseWriter, realm, message string) {
	challenge := "Basic"
	if realm != "" {
		challenge += ` realm="` + realm + `"`
	}
	w.Header().Set("WWW-Authenticate", challenge)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(models.ErrorResponse{Error: message})
}
