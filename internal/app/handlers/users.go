package handlers

import (
	"log/slog"
	"net/http"

	"github.com/linemk/coin-users/internal/domain/models"
	"github.com/linemk/coin-users/internal/service"
)

// CreateUserRequest: регистрация плюс необязательный начальный баланс
type CreateUserRequest struct {
	RegisterRequest
	CoinBalance *int `json:"coinBalance"`
}

// UpdateUserRequest: любое подмножество полей пользователя
type UpdateUserRequest struct {
	Email       *string `json:"email" validate:"omitempty,email"`
	Username    *string `json:"username" validate:"omitempty,min=1"`
	Password    *string `json:"password"`
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	CIN         *string `json:"cin"`
	CoinBalance *int    `json:"coinBalance"`
}

func (r UpdateUserRequest) toPatch() models.UserPatch {
	return models.UserPatch{
		Email:       r.Email,
		Username:    r.Username,
		Password:    r.Password,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Phone:       r.Phone,
		Address:     r.Address,
		CIN:         r.CIN,
		CoinBalance: r.CoinBalance,
	}
}

// ListUsersHandler обрабатывает GET /users
func ListUsersHandler(log *slog.Logger, userService service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListUsersHandler"
		logger := log.With(slog.String("op", op))

		users, err := userService.List(r.Context())
		if err != nil {
			logger.Error("failed to list users", slog.Any("error", err))
			writeServiceError(logger, w, err)
			return
		}

		writeJSON(logger, w, http.StatusOK, users)
	}
}

// GetUserHandler обрабатывает GET /users/{id}
func GetUserHandler(log *slog.Logger, userService service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetUserHandler"
		logger := log.With(slog.String("op", op))

		id, ok := idParam(logger, w, r)
		if !ok {
			return
		}

		user, err := userService.Get(r.Context(), id)
		if err != nil {
			logger.Error("failed to get user", slog.Int64("id", id), slog.Any("error", err))
			writeServiceError(logger, w, err)
			return
		}

		writeJSON(logger, w, http.StatusOK, user)
	}
}

// CreateUserHandler обрабатывает POST /users (публичный)
func CreateUserHandler(log *slog.Logger, userService service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateUserHandler"
		logger := log.With(slog.String("op", op))

		var req CreateUserRequest
		if !decodeAndValidate(logger, w, r, &req) {
			return
		}

		in := req.toNewUser()
		in.CoinBalance = req.CoinBalance

		user, err := userService.Create(r.Context(), in)
		if err != nil {
			logger.Error("failed to create user", slog.Any("error", err))
			writeServiceError(logger, w, err)
			return
		}

		writeJSON(logger, w, http.StatusCreated, user)
	}
}

// UpdateUserHandler обрабатывает PATCH /users/{id}
func UpdateUserHandler(log *slog.Logger, userService service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateUserHandler"
		logger := withActor(log.With(slog.String("op", op)), r)

		id, ok := idParam(logger, w, r)
		if !ok {
			return
		}

		var req UpdateUserRequest
		if !decodeAndValidate(logger, w, r, &req) {
			return
		}

		user, err := userService.Update(r.Context(), id, req.toPatch())
		if err != nil {
			logger.Error("failed to update user", slog.Int64("id", id), slog.Any("error", err))
			writeServiceError(logger, w, err)
			return
		}

		writeJSON(logger, w, http.StatusOK, user)
	}
}

// DeleteUserHandler обрабатывает DELETE /users/{id}.
// Любая ошибка хранилища при удалении отдаётся клиенту как 404.
func DeleteUserHandler(log *slog.Logger, userService service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeleteUserHandler"
		logger := withActor(log.With(slog.String("op", op)), r)

		id, ok := idParam(logger, w, r)
		if !ok {
			return
		}

		user, err := userService.Delete(r.Context(), id)
		if err != nil {
			logger.Error("failed to delete user", slog.Int64("id", id), slog.Any("error", err))
			writeError(logger, w, http.StatusNotFound, "User not found")
			return
		}

		writeJSON(logger, w, http.StatusOK, user)
	}
}
