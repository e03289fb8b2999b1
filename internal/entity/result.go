package entity

import "errors"

type ErrorBody struct {
	Type    ErrorKind         `json:"type"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Result is the success/failure envelope handed to the calling layer.
type Result[T any] struct {
	Success bool       `json:"success"`
	Data    *T         `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

func Ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: &data}
}

func Fail[T any](err error) Result[T] {
	return Result[T]{Error: ErrorBodyOf(err)}
}

func ResultOf[T any](data T, err error) Result[T] {
	if err != nil {
		return Fail[T](err)
	}

	return Ok(data)
}

func ErrorBodyOf(err error) *ErrorBody {
	kind := KindOf(err)
	body := &ErrorBody{Type: kind}

	switch kind {
	case KindValidation:
		var validationErr *ValidationError

		errors.As(err, &validationErr)

		body.Message = ErrValidation.Error()
		body.Fields = validationErr.Fields
	case KindNotFound:
		body.Message = ErrNotFound.Error()
	case KindConflict:
		body.Message = ErrConflict.Error()
	case KindInvalidState:
		body.Message = ErrNotDeleted.Error()
		if errors.Is(err, ErrAlreadyDeleted) {
			body.Message = ErrAlreadyDeleted.Error()
		}
	default:
		body.Message = ErrMsgInternal
	}

	return body
}
