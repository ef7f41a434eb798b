// Package password реализует хеширование и проверку паролей пользователей.
//
// Hash создаёт солёный bcrypt-хеш для хранения в таблице users.
// Compare сравнивает хранимый хеш с введённым паролем за постоянное время.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Cost стоимость bcrypt для новых хешей.
const Cost = 10

var (
	// ErrMismatch возвращается, если пароль не соответствует хешу.
	ErrMismatch = errors.New("password does not match")
	// ErrEmpty возвращается при попытке захешировать пустой пароль.
	ErrEmpty = errors.New("password is empty")
)

// Hash принимает пароль в открытом виде и возвращает его bcrypt-хеш.
func Hash(plain string) (string, error) {
	const op = "password.Hash"
	if plain == "" {
		return "", fmt.Errorf("%s: %w", op, ErrEmpty)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), Cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// Compare сверяет bcrypt-хеш с введённым паролем.
//
// Возвращает nil при совпадении, ErrMismatch при несовпадении
// и обёрнутую ошибку bcrypt, если хеш повреждён.
func Compare(hash, plain string) error {
	const op = "password.Compare"
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return fmt.Errorf("%s: %w", op, ErrMismatch)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
