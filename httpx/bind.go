package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// validate is shared across every Bind* call. validator.Validate is safe for
// concurrent use once built, so a single package-level instance is correct.
var validate = validator.New()

// BindOptions customizes how BindJSON and BindMap decode input into a
// target struct.
type BindOptions struct {
	// WeaklyTypedInput allows common coercions, e.g. "10" -> 10 for int fields.
	WeaklyTypedInput bool
	// ErrorUnused, when true, rejects input fields with no matching struct field.
	ErrorUnused bool
}

// BindJSON reads the request body as JSON into an intermediate map, decodes
// that map into v via mapstructure, then runs struct validation tags on v.
// Binding and validation failures are both surfaced as *FieldErrors.
func (req *Request) BindJSON(v any, opts ...BindOptions) error {
	defer req.r.Body.Close()

	b, err := io.ReadAll(req.r.Body)
	if err != nil {
		return err
	}

	var raw map[string]any
	if len(b) > 0 {
		if err := json.Unmarshal(b, &raw); err != nil {
			return fieldErrorsFromMessages(map[string]string{"body": "invalid json: " + err.Error()})
		}
	}

	var o BindOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	return decodeAndValidate(raw, v, o)
}

// BindMap decodes an already-parsed map (for example a module's export bag,
// or form values converted upstream) into v via mapstructure, then runs
// struct validation tags on v.
func (req *Request) BindMap(m map[string]any, v any, opts ...BindOptions) error {
	var o BindOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	return decodeAndValidate(m, v, o)
}

func decodeAndValidate(raw map[string]any, v any, o BindOptions) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           v,
		WeaklyTypedInput: o.WeaklyTypedInput,
		ErrorUnused:      o.ErrorUnused,
		TagName:          "json",
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(raw); err != nil {
		return mapDecodeError(err)
	}

	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if ok := asValidationErrors(err, &verrs); ok {
			return fieldErrorsFromValidator(verrs)
		}
		return err
	}
	return nil
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return false
	}
	*target = verrs
	return true
}

func fieldErrorsFromValidator(verrs validator.ValidationErrors) *FieldErrors {
	out := &FieldErrors{entries: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.entries = append(out.entries, FieldError{
			field:   fe.Field(),
			message: fmt.Sprintf("failed %q validation", fe.Tag()),
		})
	}
	return out
}

// mapDecodeError converts mapstructure's multi-error into FieldErrors on a
// best-effort basis: the key is the quoted field name at the start of each
// message (or "field<i>" when there is none) and the value is the raw
// message, rather than a precise field path.
func mapDecodeError(err error) error {
	merr, ok := err.(*mapstructure.Error)
	if !ok {
		return err
	}
	msgs := make(map[string]string, len(merr.Errors))
	for i, e := range merr.Errors {
		key := extractFieldName(e)
		if key == "" {
			key = fmt.Sprintf("field%d", i)
		}
		msgs[key] = e
	}
	return fieldErrorsFromMessages(msgs)
}

func extractFieldName(msg string) string {
	// mapstructure messages typically start with "'FieldName' ...".
	if !strings.HasPrefix(msg, "'") {
		return ""
	}
	end := strings.Index(msg[1:], "'")
	if end < 0 {
		return ""
	}
	return msg[1 : end+1]
}

// AsFieldErrors extracts *FieldErrors from err via errors.As semantics,
// without requiring callers to import this package's concrete type.
func AsFieldErrors(err error) (*FieldErrors, bool) {
	var fe *FieldErrors
	ok := errors.As(err, &fe)
	return fe, ok
}
