package handlers

import (
	"log/slog"
	"net/http"

	"github.com/linemk/coin-users/internal/domain/models"
	"github.com/linemk/coin-users/internal/service"
)

// RegisterRequest — тело POST /auth/register. Длина пароля и CIN проверяются в сервисе,
// чтобы сохранить порядок ошибок.
type RegisterRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	Username  string  `json:"username" validate:"required"`
	Password  string  `json:"password"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	CIN       *string `json:"cin"`
}

func (r RegisterRequest) toNewUser() models.NewUser {
	return models.NewUser{
		Email:     r.Email,
		Username:  r.Username,
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
		Address:   r.Address,
		CIN:       r.CIN,
	}
}

// LoginRequest тело POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password"` // пустой пароль проверяется в сервисе и даёт 401
}

// RegisterHandler обрабатывает POST /auth/register
func RegisterHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RegisterHandler"
		logger := log.With(slog.String("op", op))

		var req RegisterRequest
		if !decodeAndValidate(logger, w, r, &req) {
			return
		}

		user, err := authService.Register(r.Context(), req.toNewUser())
		if err != nil {
			logger.Error("registration failed", slog.Any("error", err))
			writeServiceError(logger, w, err)
			return
		}

		writeJSON(logger, w, http.StatusCreated, user)
	}
}

// LoginHandler обрабатывает POST /auth/login. На любую ошибку входа 401 с одним и тем же текстом.
func LoginHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.LoginHandler"
		logger := log.With(slog.String("op", op))

		var req LoginRequest
		if !decodeAndValidate(logger, w, r, &req) {
			return
		}

		res, err := authService.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			logger.Error("login failed", slog.Any("error", err))
			writeServiceError(logger, w, err)
			return
		}

		// вход отвечает 201, клиенты на это рассчитывают
		writeJSON(logger, w, http.StatusCreated, res)
	}
}
