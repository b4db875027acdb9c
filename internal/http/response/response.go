// Package response содержит типы JSON-ответов HTTP-обработчиков и
// функции для их формирования.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

// MsgInvalidInput — сообщение для некорректных входных данных.
const MsgInvalidInput = "Invalid input provided"

// Failure — ответ на неудачную попытку входа.
type Failure struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"Invalid username or password"`
}

// ErrorResponse — ответ с описанием ошибки входных данных.
type ErrorResponse struct {
	Error   string `json:"error" example:"Amount cannot be negative"`
	Message string `json:"message" example:"Invalid input provided"`
}

// Fail возвращает Failure с переданным сообщением.
func Fail(msg string) Failure {
	return Failure{Success: false, Message: msg}
}

// InternalError возвращает Failure для непредвиденной ошибки.
func InternalError(err error) Failure {
	return Failure{Success: false, Message: "Internal server error: " + err.Error()}
}

// Error возвращает ErrorResponse с текстом ошибки.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Error:   msg,
		Message: MsgInvalidInput,
	}
}

// ValidationError формирует текст ошибки из нарушений валидации.
// Каждое нарушение описывается отдельно, описания объединяются через запятую.
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "numeric":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only numbers", err.Field()))
		case "gte":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at least %s", err.Field(), err.Param()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at most %s characters", err.Field(), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}
	return Error(strings.Join(errsMsgs, ", "))
}
