// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Успех и ошибка отдаются
// в одном конверте {code, success, message}, данные кладутся в data.
package response

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/room-booking/internal/lib/apperr"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
type Response struct {
	Code    int    `json:"code" example:"200"`
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"ok"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse структура ошибки для Swagger-документации.
type ErrorResponse struct {
	Code    int    `json:"code" example:"400"`
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"invalid request body"`
}

// OK возвращает успешный Response с сообщением.
func OK(msg string) Response {
	return Response{
		Code:    http.StatusOK,
		Success: true,
		Message: msg,
	}
}

// OKWithData возвращает успешный Response с переданными данными.
func OKWithData(msg string, data any) Response {
	resp := OK(msg)
	resp.Data = data
	return resp
}

// Error возвращает Response с ошибкой, кодом и сообщением.
func Error(code int, msg string) Response {
	return Response{
		Code:    code,
		Success: false,
		Message: msg,
	}
}

// FromError выбирает код по таксономии apperr. Текст внутренних ошибок
// клиенту не отдаётся.
func FromError(err error) Response {
	code := apperr.HTTPStatus(err)
	switch code {
	case http.StatusUnauthorized:
		return Error(code, "unauthorized")
	case http.StatusForbidden:
		return Error(code, "forbidden")
	case http.StatusNotFound:
		return Error(code, "not found")
	case http.StatusConflict:
		return Error(code, "conflict")
	case http.StatusBadRequest:
		return Error(code, "bad request")
	default:
		return Error(http.StatusInternalServerError, "internal server error")
	}
}

// Render пишет resp, выставляя HTTP-статус равным resp.Code.
func Render(w http.ResponseWriter, r *http.Request, resp Response) {
	render.Status(r, resp.Code)
	render.JSON(w, r, resp)
}

// ValidationError формирует Response с кодом 400 на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "alphanum":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only numbers and letters", err.Field()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at least %s", err.Field(), err.Param()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at most %s", err.Field(), err.Param()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be one of: %s", err.Field(), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Error(http.StatusBadRequest, strings.Join(errsMsgs, ", "))
}
