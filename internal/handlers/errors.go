package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/sbilibin2017/gw-user-activation/internal/logger"
	"github.com/sbilibin2017/gw-user-activation/internal/middlewares"
	"github.com/sbilibin2017/gw-user-activation/internal/models"
	"github.com/sbilibin2017/gw-user-activation/internal/services"
)

// statusByKind maps lifecycle error kinds to HTTP statuses.
var statusByKind = map[services.ErrorKind]int{
	services.KindEmailConflict:      http.StatusConflict,
	services.KindInvalidCredentials: http.StatusUnauthorized,
	services.KindAlreadyActive:      http.StatusBadRequest,
	services.KindInvalidCode:        http.StatusBadRequest,
	services.KindCodeExpired:        http.StatusBadRequest,
	services.KindAccountNotFound:    http.StatusNotFound,
	services.KindValidation:         http.StatusUnprocessableEntity,
	services.KindUnavailable:        http.StatusServiceUnavailable,
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Errorw("failed to encode response", "err", err)
	}
}

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 4 << 10

// writeError translates err into a status code and an ErrorResponse.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middlewares.RequestIDFromContext(r.Context())

	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		logger.Log.Errorw("internal server error", "request_id", requestID, "err", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		return
	}

	status, ok := statusByKind[svcErr.Kind]
	if !ok {
		logger.Log.Errorw("internal server error", "request_id", requestID, "err", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		return
	}

	switch svcErr.Kind {
	case services.KindInvalidCredentials:
		middlewares.Unauthorized(w, "", svcErr.Message)
		return
	case services.KindUnavailable:
		logger.Log.Errorw("service unavailable", "request_id", requestID, "err", err)
	}

	writeJSON(w, status, models.ErrorResponse{
		Error:   svcErr.Message,
		Details: validationDetails(err),
	})
}

// validationDetails flattens ozzo field errors into field -> message.
func validationDetails(err error) map[string]string {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return nil
	}
	details := make(map[string]string, len(verrs))
	for field, ferr := range verrs {
		if ferr != nil {
			details[field] = ferr.Error()
		}
	}
	return details
}

// decodeJSON reads at most maxBodyBytes of the request body into v.
// Malformed or oversized bodies are reported as validation errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return services.Validation(validation.Errors{"body": errors.New("request body too large")})
		}
		return services.Validation(validation.Errors{"body": errors.New("invalid JSON body")})
	}
	return nil
}
