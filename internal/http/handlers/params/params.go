// Package params разбирает параметры пути и строки запроса.
package params

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/room-booking/internal/lib/apperr"
)

// Ограничения постраничной выборки.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ID возвращает положительный параметр пути {id}.
func ID(r *http.Request) (int64, error) {
	return PositiveInt64(chi.URLParam(r, "id"), "id")
}

// PositiveInt64 разбирает строку как положительное целое.
func PositiveInt64(raw, name string) (int64, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", apperr.ErrBadRequest, name)
	}
	return v, nil
}

// Page читает limit и offset. Отсутствующий limit даёт DefaultLimit,
// слишком большой обрезается до MaxLimit.
func Page(r *http.Request) (limit, offset int, err error) {
	q := r.URL.Query()
	limit = DefaultLimit
	if raw := q.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return 0, 0, fmt.Errorf("%w: limit must be a positive integer", apperr.ErrBadRequest)
		}
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("%w: offset must be a non-negative integer", apperr.ErrBadRequest)
		}
	}
	return limit, offset, nil
}
