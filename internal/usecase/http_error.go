package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError はusecase層からhandlerへステータスを運ぶ。
// Fieldsは項目別バリデーションエラー（nilなら単一メッセージ）。
type HTTPError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

// 項目別エラー付きの400
func NewValidationError(fields map[string]string) error {
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Message: "validation error",
		Fields:  fields,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}
