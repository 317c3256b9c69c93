package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"serenity-backend/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(message string) map[string]interface{} {
	return map[string]interface{}{"message": message}
}

func validationMessage(fields map[string]string) string {
	parts := make([]string, 0, len(fields))
	for _, msg := range fields {
		parts = append(parts, msg)
	}
	return strings.Join(parts, "; ")
}

// serviceErrorStatus maps the typed service errors onto status codes and
// client-safe bodies. Unknown errors become a generic 500; the detail is
// logged by the caller, never sent to the client.
func serviceErrorStatus(err error) (int, string) {
	switch e := err.(type) {
	case *services.ValidationError:
		return http.StatusBadRequest, validationMessage(e.Fields)
	case *services.EmptyMessageError:
		return http.StatusBadRequest, e.Error()
	case *services.InvalidCredentialsError:
		return http.StatusBadRequest, e.Error()
	case *services.ConflictError:
		return http.StatusConflict, e.Message
	case *services.UnauthorizedError:
		return http.StatusUnauthorized, e.Message
	case *services.RateLimitError:
		return http.StatusTooManyRequests, e.Message
	case *services.UpstreamError:
		return http.StatusInternalServerError, e.Message
	case *services.StorageError:
		return http.StatusInternalServerError, "An unexpected error occurred"
	default:
		return http.StatusInternalServerError, "An unexpected error occurred"
	}
}

func (h *AuthHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := serviceErrorStatus(err)
	if status == http.StatusInternalServerError {
		h.log.Error(r.Context(), "auth request failed", zap.Error(err))
	}
	writeJSON(w, status, errorResp(message))
}

func (h *ChatHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := serviceErrorStatus(err)
	if status == http.StatusInternalServerError {
		h.log.Error(r.Context(), "chat request failed", zap.Error(err))
	}
	writeJSON(w, status, errorResp(message))
}
