package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/shopfront/internal/auth"
	"github.com/iudanet/shopfront/internal/cart"
	"github.com/iudanet/shopfront/internal/catalog"
	"github.com/iudanet/shopfront/internal/validation"
	"github.com/iudanet/shopfront/pkg/api"
)

// maxBodySize ограничивает тело запроса: изображение 2 MB в base64 плюс поля формы
const maxBodySize = 4 << 20

// sendJSON отправляет JSON ответ
func sendJSON(w http.ResponseWriter, logger *slog.Logger, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError отправляет JSON ответ с ошибкой
func sendError(w http.ResponseWriter, logger *slog.Logger, message string, statusCode int) {
	resp := api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	sendJSON(w, logger, resp, statusCode)
}

// decodeJSON читает тело запроса в dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	return json.NewDecoder(r.Body).Decode(dst)
}

// errorStatus maps a service error to an HTTP status and a message safe to show
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, validation.ErrInvalid):
		return http.StatusBadRequest, validation.Message(err)
	case errors.Is(err, catalog.ErrInvalidSelection),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrInvalidMode),
		errors.Is(err, cart.ErrEmptyCart):
		return http.StatusBadRequest, rootMessage(err)
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, cart.ErrItemNotFound),
		errors.Is(err, auth.ErrUserNotFound):
		return http.StatusNotFound, rootMessage(err)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, auth.ErrInvalidCredentials.Error()
	case errors.Is(err, auth.ErrEmailTaken):
		return http.StatusConflict, auth.ErrEmailTaken.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// rootMessage возвращает текст самой внутренней ошибки без префиксов "failed to ..."
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

// sendServiceError логирует ошибку сервиса и отвечает соответствующим статусом
func sendServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, msg string, err error) {
	status, message := errorStatus(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), msg, slog.Any("error", err))
	} else {
		logger.WarnContext(r.Context(), msg, slog.Any("error", err))
	}
	sendError(w, logger, message, status)
}
