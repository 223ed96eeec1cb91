package models

// User представляет пользователя
type User struct {
	ID          int64   `json:"id"`
	Email       string  `json:"email"`
	Username    string  `json:"username"`
	PassHash    []byte  `json:"-"` // никогда не отдаём наружу
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	CIN         *string `json:"cin"`
	CoinBalance int     `json:"coinBalance"`
}

// NewUser — данные для создания пользователя (регистрация или POST /users).
// Пароль здесь в открытом виде, хэшируется в сервисном слое.
type NewUser struct {
	Email       string
	Username    string
	Password    string
	FirstName   *string
	LastName    *string
	Phone       *string
	Address     *string
	CIN         *string
	CoinBalance *int // nil значит 0
}

// UserPatch — частичное обновление: применяются только не-nil поля
type UserPatch struct {
	Email       *string
	Username    *string
	Password    *string
	PassHash    []byte // заполняется сервисом, если пришёл Password
	FirstName   *string
	LastName    *string
	Phone       *string
	Address     *string
	CIN         *string
	CoinBalance *int
}
