package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// TagCIN — тег для 8-значного идентификатора (CIN)
const TagCIN = "cin"

var cinRegexp = regexp.MustCompile(`^[0-9]{8}$`)

// New возвращает валидатор с именами полей из json-тегов и правилом "cin".
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// ошибку регистрации можно игнорировать: тег и функция заданы статически
	_ = v.RegisterValidation(TagCIN, func(fl validator.FieldLevel) bool {
		return cinRegexp.MatchString(fl.Field().String())
	})
	return v
}

// Message собирает человекочитаемое сообщение из ошибок validator
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "validation error"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be an email"
	case TagCIN:
		return "CIN must be exactly 8 digits"
	default:
		return fe.Field() + " is invalid"
	}
}
