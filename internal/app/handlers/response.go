package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/linemk/coin-users/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/coin-users/internal/lib/validation"
	"github.com/linemk/coin-users/internal/service"
)

var validate = validation.New()

// ErrorResponse тело ответа при ошибке
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Error      string `json:"error"`
}

// сообщения для клиента по доменным ошибкам
var errorMessages = []struct {
	err    error
	status int
	msg    string
}{
	{service.ErrEmailInUse, http.StatusBadRequest, "Email already in use"},
	{service.ErrUsernameInUse, http.StatusBadRequest, "Username already in use"},
	{service.ErrPasswordTooShort, http.StatusBadRequest, "Password must be at least 6 characters"},
	{service.ErrInvalidCIN, http.StatusBadRequest, "CIN must be exactly 8 digits"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	{service.ErrUserNotFound, http.StatusNotFound, "User not found"},
}

// statusFor возвращает код и сообщение, для неизвестных ошибок 500
func statusFor(err error) (int, string) {
	for _, e := range errorMessages {
		if errors.Is(err, e.err) {
			return e.status, e.msg
		}
	}
	return http.StatusInternalServerError, "Internal server error"
}

func writeJSON(log *slog.Logger, w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("failed to encode response", slog.Any("error", err))
	}
}

func writeError(log *slog.Logger, w http.ResponseWriter, status int, msg string) {
	writeJSON(log, w, status, ErrorResponse{
		StatusCode: status,
		Message:    msg,
		Error:      http.StatusText(status),
	})
}

func writeServiceError(log *slog.Logger, w http.ResponseWriter, err error) {
	status, msg := statusFor(err)
	writeError(log, w, status, msg)
}

// decodeAndValidate читает JSON-тело и проверяет теги validate
func decodeAndValidate(log *slog.Logger, w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Error("invalid request: decoding error", slog.Any("error", err))
		writeError(log, w, http.StatusBadRequest, "invalid request")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		log.Error("invalid request: validation error", slog.Any("error", err))
		writeError(log, w, http.StatusBadRequest, validation.Message(err))
		return false
	}
	return true
}

// withActor добавляет в лог id пользователя из токена, если он есть
func withActor(log *slog.Logger, r *http.Request) *slog.Logger {
	if actorID, ok := jwtmiddleware.FromContext(r.Context()); ok {
		return log.With(slog.Int64("actorID", actorID))
	}
	return log
}

// idParam разбирает {id} из пути
func idParam(log *slog.Logger, w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid id parameter", slog.String("id", chi.URLParam(r, "id")))
		writeError(log, w, http.StatusBadRequest, "Validation failed (numeric string is expected)")
		return 0, false
	}
	return id, true
}
