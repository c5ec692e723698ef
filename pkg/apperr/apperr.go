package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind clasifica un error de dominio. La traducción a HTTP ocurre una sola
// vez en el borde (handlers); los services solo producen kinds.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindConflict
	KindForbidden
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return newf(KindNotFound, format, args...)
}

func Validation(format string, args ...any) error {
	return newf(KindValidation, format, args...)
}

func Conflict(format string, args ...any) error {
	return newf(KindConflict, format, args...)
}

func Forbidden(format string, args ...any) error {
	return newf(KindForbidden, format, args...)
}

func Unauthorized(format string, args ...any) error {
	return newf(KindUnauthorized, format, args...)
}

// Wrap conserva la causa para logging; el mensaje visible es el del wrapper.
func Wrap(message string, err error) error {
	return fmt.Errorf("%s: %w", message, err)
}

// KindOf devuelve el kind del error. Un error que no es *Error es un fallo
// inesperado y se trata como interno.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage oculta el detalle de errores internos fuera del log.
func PublicMessage(err error) string {
	if KindOf(err) == KindInternal {
		return "internal error"
	}
	return err.Error()
}
