package httperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindBadRequest        Kind = "bad_request"
	KindConflict          Kind = "conflict"
	KindInvalidTransition Kind = "invalid_transition"
	KindForbidden         Kind = "forbidden"
)

// BusinessError is a rejected precondition. Code is stable and machine
// readable; Message is for humans.
type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func ErrBusiness(kind Kind, code, message string) error {
	return BusinessError{Kind: kind, Code: code, Message: message}
}

func ErrNotFound(code, message string) error {
	return ErrBusiness(KindNotFound, code, message)
}

func ErrBadRequest(code, message string) error {
	return ErrBusiness(KindBadRequest, code, message)
}

func ErrConflict(code, message string) error {
	return ErrBusiness(KindConflict, code, message)
}

func ErrInvalidTransition(code, message string) error {
	return ErrBusiness(KindInvalidTransition, code, message)
}

func ErrForbidden(code, message string) error {
	return ErrBusiness(KindForbidden, code, message)
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// KindOf returns the kind of a business error, or "" for anything else.
func KindOf(err error) Kind {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
