package domain

import (
	"errors"
	"strings"
)

// Errores comunes a todos los módulos. Los adapters de storage traducen
// sus errores propios a estos sentinels.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrConflict      = errors.New("conflict")
)

// FieldError describe una regla violada sobre un campo de entrada.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError agrupa una o más violaciones. errors.Is(err, ErrValidation) es true.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return ErrValidation.Error()
	}
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// HasRule indica si alguna violación corresponde a la regla indicada.
func (e *ValidationError) HasRule(rule string) bool {
	for _, fe := range e.Errors {
		if fe.Rule == rule {
			return true
		}
	}
	return false
}

// NewValidationError construye un ValidationError con una sola violación.
func NewValidationError(field, rule, message string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Rule: rule, Message: message}}}
}

// Validator acumula violaciones; Err devuelve nil si no hubo ninguna.
type Validator struct {
	errs []FieldError
}

func (v *Validator) Add(field, rule, message string) {
	v.errs = append(v.errs, FieldError{Field: field, Rule: rule, Message: message})
}

func (v *Validator) Require(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "required", field+" is required")
	}
}

func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: v.errs}
}
