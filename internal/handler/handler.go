package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/EntertainLit/internal/domain"
	"github.com/GoArmGo/EntertainLit/internal/validation"
	"github.com/goccy/go-json"
)

const maxBodyBytes = 1 << 20

// errorResponse — тело ответа с ошибкой.
type errorResponse struct {
	Message string                   `json:"message"`
	Errors  []validation.FieldDetail `json:"errors,omitempty"`
}

// respondWithJSON — отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload any, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("failed to marshal JSON response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithError — отправляет JSON-ответ с ошибкой.
func respondWithError(w http.ResponseWriter, code int, message string, logger *slog.Logger) {
	respondWithJSON(w, code, errorResponse{Message: message}, logger)
}

func respondWithValidationError(w http.ResponseWriter, message string, verr *validation.RequestValidationError, logger *slog.Logger) {
	respondWithJSON(w, http.StatusBadRequest, errorResponse{Message: message, Errors: verr.Details()}, logger)
}

// respondWithDomainError переводит доменные ошибки в HTTP-статусы.
// Всё остальное логируется и отдаётся как 500 с общим сообщением internalMessage.
func respondWithDomainError(w http.ResponseWriter, r *http.Request, err error, internalMessage string, logger *slog.Logger) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		respondWithError(w, http.StatusUnauthorized, "Authentication required", logger)
	case errors.Is(err, domain.ErrUserNotFound):
		respondWithError(w, http.StatusNotFound, "User not found", logger)
	case errors.Is(err, domain.ErrConflict):
		respondWithError(w, http.StatusConflict, "Username or email already taken", logger)
	default:
		logger.Error(internalMessage,
			"path", r.URL.Path,
			"request_id", GetRequestID(r.Context()),
			"error", err,
		)
		respondWithError(w, http.StatusInternalServerError, internalMessage, logger)
	}
}

// decodeJSONBody разбирает тело запроса. Неизвестные поля игнорируются.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) *validation.RequestValidationError {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return validation.NewRequestValidationError(typeErr.Field, "type", typeErr.Field+" has an invalid type")
		}
		return validation.NewRequestValidationError("body", "json", "request body must be a valid JSON object")
	}
	return nil
}

// Healthz — проверка живости процесса.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
