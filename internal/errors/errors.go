package errors

import (
	"errors"
	"fmt"
)

// Domain errors for the pension fund backend. Business-rule messages are the
// user-facing Spanish strings the API has always returned; API consumers match
// on them, so they stay verbatim (including the historical "incripción" typo).
var (
	ErrClientNotFound     = errors.New("Cliente no encontrado")
	ErrProductNotFound    = errors.New("Producto no encontrado")
	ErrBranchNotFound     = errors.New("Sucursal no encontrada")
	ErrEnrollmentNotFound = errors.New("Inscripción no encontrada")

	ErrProductNotAvailable = errors.New("Este producto no está disponible en la sucursal")
	ErrDuplicateEnrollment = errors.New("El cliente ya tiene una incripción con este producto")
	ErrInvalidAmount       = errors.New("El monto invertido debe ser mayor que 0")
	ErrNegativeAmount      = errors.New("El monto no puede ser negativo")
	ErrNoBranches          = errors.New("El producto debe estar disponible en al menos una sucursal")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrClientNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrBranchNotFound) ||
		errors.Is(err, ErrEnrollmentNotFound)
}

func IsDuplicateEnrollment(err error) bool {
	return errors.Is(err, ErrDuplicateEnrollment)
}

// IsBusinessRule reports whether err is a business-rule rejection whose
// message is suitable for direct display to the caller.
func IsBusinessRule(err error) bool {
	return errors.Is(err, ErrProductNotAvailable) ||
		errors.Is(err, ErrDuplicateEnrollment) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrNegativeAmount) ||
		errors.Is(err, ErrNoBranches)
}

func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}
