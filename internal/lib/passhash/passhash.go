// Package passhash хэширует и проверяет пароли через bcrypt.
package passhash

import "golang.org/x/crypto/bcrypt"

// Cost — стоимость bcrypt; соль генерируется автоматически и хранится внутри хэша
const Cost = 10

func Hash(plain string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plain), Cost)
}

// Verify сравнивает пароль с хэшем, используя соль и стоимость из самого хэша
func Verify(hash []byte, plain string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(plain)) == nil
}
