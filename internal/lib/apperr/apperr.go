// Package apperr задаёт таксономию ошибок приложения.
//
// Хранилище и сервисы оборачивают свои ошибки одним из sentinel-значений,
// а HTTP-слой по ним выбирает код ответа через errors.Is.
package apperr

import (
	"errors"
	"net/http"
)

var (
	// ErrUnauthorized отсутствующий, невалидный или просроченный токен, неверные учётные данные.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden правило доступа не выполнено.
	ErrForbidden = errors.New("forbidden")
	// ErrBadRequest некорректные входные данные.
	ErrBadRequest = errors.New("bad request")
	// ErrNotFound запись отсутствует или помечена удалённой.
	ErrNotFound = errors.New("not found")
	// ErrConflict нарушение уникальности или пересечение бронирований.
	ErrConflict = errors.New("conflict")
)

// HTTPStatus возвращает HTTP-код для ошибки. Нераспознанные ошибки дают 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
