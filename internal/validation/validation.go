// Package validation checks request payloads and stored records against the
// constraints declared in their `validate` struct tags and reports failures as
// *common.ValidationError keyed by JSON field names.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/shamssarah/Recipe-Recommender/internal/common"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})
	return v
}

// Struct validates s. It returns nil, a *common.ValidationError, or an error
// describing a programming mistake (s is not a struct).
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}

	out := &common.ValidationError{Fields: make([]common.FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, common.FieldError{
			Field:   fieldPath(fe),
			Message: message(fe),
		})
	}
	return out
}

// DecodeJSON decodes a single JSON document from r into dst. Syntax and type
// errors come back as *common.ValidationError.
func DecodeJSON(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(dst); err != nil {
		return FromDecodeError(err)
	}
	if dec.More() {
		return common.NewValidationError("body", "must contain a single JSON document")
	}
	return nil
}

// FromDecodeError converts an encoding/json error into a ValidationError.
func FromDecodeError(err error) *common.ValidationError {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError

	switch {
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return common.NewValidationError(field, "must be of type "+jsonTypeName(typeErr.Type))
	case errors.As(err, &syntaxErr):
		return common.NewValidationError("body", fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset))
	case errors.Is(err, io.EOF):
		return common.NewValidationError("body", "is required")
	case errors.Is(err, io.ErrUnexpectedEOF):
		return common.NewValidationError("body", "malformed JSON")
	default:
		return common.NewValidationError("body", err.Error())
	}
}

// fieldPath drops the top-level struct name from the namespace, so
// "CreateRecipeRequest.ingredients[0].item" becomes "ingredients[0].item".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return boundMessage(fe, "at least")
	case "max":
		return boundMessage(fe, "at most")
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

func boundMessage(fe validator.FieldError, bound string) string {
	switch fe.Kind() {
	case reflect.String:
		return fmt.Sprintf("must be %s %s characters long", bound, fe.Param())
	case reflect.Slice, reflect.Array, reflect.Map:
		return fmt.Sprintf("must contain %s %s items", bound, fe.Param())
	default:
		return fmt.Sprintf("must be %s %s", bound, fe.Param())
	}
}

func jsonTypeName(t reflect.Type) string {
	if t == nil {
		return "unknown"
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Ptr:
		return jsonTypeName(t.Elem())
	default:
		return "object"
	}
}
