package httpx

import "fmt"

// FieldError is a single field-level validation or binding failure.
type FieldError struct {
	field   string
	message string
}

func (e FieldError) Field() string   { return e.field }
func (e FieldError) Message() string { return e.message }
func (e FieldError) Error() string   { return fmt.Sprintf("field %s: %s", e.field, e.message) }

// FieldErrors aggregates multiple FieldError values produced by a single
// binding or validation pass. It implements HandlerError so the engine
// surfaces it as a 400 response carrying the field map in its context.
type FieldErrors struct {
	entries []FieldError
}

func (f *FieldErrors) Error() string {
	return "field validation failed"
}

// StatusCode satisfies the engine's HandlerError interface: field errors are
// always client-input problems.
func (f *FieldErrors) StatusCode() int { return 400 }

// Context returns the field->message map for inclusion in the error
// response body.
func (f *FieldErrors) Context() map[string]any {
	out := make(map[string]any, len(f.entries))
	for _, e := range f.entries {
		out[e.Field()] = e.Message()
	}
	return out
}

// All returns the individual field errors.
func (f *FieldErrors) All() []FieldError { return f.entries }

func fieldErrorsFromMessages(m map[string]string) *FieldErrors {
	if len(m) == 0 {
		return nil
	}
	out := &FieldErrors{entries: make([]FieldError, 0, len(m))}
	for field, msg := range m {
		out.entries = append(out.entries, FieldError{field: field, message: msg})
	}
	return out
}
