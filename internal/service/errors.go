package service

import "errors"

// ошибки валидации (400)
var (
	ErrEmailInUse       = errors.New("email already in use")
	ErrUsernameInUse    = errors.New("username already in use")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrInvalidCIN       = errors.New("CIN must be exactly 8 digits")
)

// ErrInvalidCredentials одна и та же для "нет пользователя" и "неверный пароль"
var ErrInvalidCredentials = errors.New("invalid email or password")

var ErrUserNotFound = errors.New("user not found")
