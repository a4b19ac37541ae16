// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON-ответов HTTP-обработчиков: {"success": bool, "data"?: any, "error"?: string}.
package response

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator"
)

// Стандартные сообщения для клиента. Подробности ошибок пишутся только в лог.
const (
	MsgInternal        = "서버 오류가 발생했습니다. 잠시 후 다시 시도해주세요."
	MsgUnauthorized    = "unauthorized"
	MsgForbidden       = "forbidden"
	MsgNotFound        = "not found"
	MsgInvalidBody     = "invalid request body"
	MsgTooManyRequests = "too many requests"
)

// Response описывает стандартную структуру JSON-ответа сервера.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ErrorResponse — структура ошибки для Swagger-документации.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"invalid request body"`
}

// NullData — успешный ответ с явным "data": null.
type NullData struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// OK возвращает успешный ответ без данных.
func OK() Response {
	return Response{Success: true}
}

// OKWithData возвращает успешный ответ с данными.
func OKWithData(data any) Response {
	return Response{Success: true, Data: data}
}

// OKNull возвращает {"success":true,"data":null}.
func OKNull() NullData {
	return NullData{Success: true}
}

// Error возвращает ответ с ошибкой и переданным сообщением.
func Error(msg string) Response {
	return Response{Success: false, Error: msg}
}

// ValidationError формирует ответ по первому нарушению валидации.
// Для ошибок, не связанных с валидацией полей, возвращается MsgInvalidBody.
func ValidationError(err error) Response {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return Error(MsgInvalidBody)
	}
	return Error(fieldMessage(errs[0]))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.ActualTag() {
	case "required":
		return fmt.Sprintf("field %s is a required field", fe.Field())
	case "numeric":
		return fmt.Sprintf("field %s can contain only numbers", fe.Field())
	case "uuid":
		return fmt.Sprintf("field %s must be a valid uuid", fe.Field())
	case "email":
		return fmt.Sprintf("field %s must be a valid email", fe.Field())
	case "len":
		return fmt.Sprintf("field %s must be exactly %s characters long", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("field %s must be one of [%s]", fe.Field(), fe.Param())
	case "min", "gte":
		return fmt.Sprintf("field %s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("field %s must be at most %s", fe.Field(), fe.Param())
	case "url":
		return fmt.Sprintf("field %s must be a valid url", fe.Field())
	default:
		return fmt.Sprintf("field %s is not valid", fe.Field())
	}
}
