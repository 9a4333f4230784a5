package serrors

import "errors"

// BaseError is a coded error shared across modules. Code is a stable
// machine-readable identifier, Message is the operator-facing text.
type BaseError struct {
	Code    string
	Message string
}

func NewError(code, message string) *BaseError {
	return &BaseError{Code: code, Message: message}
}

func (e *BaseError) Error() string {
	return e.Message
}

// Is matches two BaseErrors by code, so wrapped sentinels survive
// errors.Is checks across package boundaries.
func (e *BaseError) Is(target error) bool {
	var t *BaseError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}
