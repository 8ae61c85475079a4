package validation

import (
	"strings"

	"github.com/cinefavs/catalog-api/internal/core/domain"
)

// FieldError is a single rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + " " + e.Message
}

// Errors is the full set of failures for one request. It matches
// domain.ErrValidation under errors.Is.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

func (e Errors) Unwrap() error {
	return domain.ErrValidation
}

// Collector accumulates rule failures across fields.
//
//	var v validation.Collector
//	name, err := validation.Username(raw)
//	v.Check("username", err)
//	if err := v.Err(); err != nil { ... }
type Collector struct {
	errs Errors
}

// Check records err against field and reports whether the field passed.
func (c *Collector) Check(field string, err error) bool {
	if err == nil {
		return true
	}
	c.errs = append(c.errs, FieldError{Field: field, Message: err.Error()})
	return false
}

// Err returns nil when every check passed, otherwise an Errors value.
func (c *Collector) Err() error {
	if len(c.errs) == 0 {
		return nil
	}
	out := make(Errors, len(c.errs))
	copy(out, c.errs)
	return out
}

// Field wraps a single rule failure as Errors; nil stays nil.
func Field(field string, err error) error {
	var c Collector
	c.Check(field, err)
	return c.Err()
}
