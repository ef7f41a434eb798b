package params

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/room-booking/internal/http/response"
)

// Body декодирует JSON-тело в dst и валидирует его. При ошибке
// возвращает готовый ответ 400 и false.
func Body(r *http.Request, validate *validator.Validate, dst any) (response.Response, bool) {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return response.Error(http.StatusBadRequest, "invalid request body"), false
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return response.ValidationError(verrs), false
		}
		return response.Error(http.StatusBadRequest, "invalid request body"), false
	}
	return response.Response{}, true
}
