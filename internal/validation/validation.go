// Package validation checks request payloads and query strings before they
// reach business logic and reports failures as field-level violations.
//
// Struct fields declare rules with `validate` tags (go-playground/validator)
// and optional human messages with an `errmsg` tag of the form
// "rule=message;rule=message".
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

var (
	// ErrInvalidBody is returned when the request body is not decodable JSON.
	ErrInvalidBody = errors.New("invalid request body")
	// ErrBodyTooLarge is returned when the body exceeds the server's limit.
	ErrBodyTooLarge = errors.New("request body too large")
)

// Violation is a single field-level failure.
type Violation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Error carries every violation found for one payload.
type Error struct {
	Violations []Violation
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Path+": "+v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Normalizer is implemented by payloads that trim or default their fields
// before validation runs.
type Normalizer interface {
	Normalize()
}

// Validator validates structs and decodes JSON bodies and query strings.
// It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
	query    *schema.Decoder

	mu       sync.RWMutex
	messages map[reflect.Type]map[string]map[string]string
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)

	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)

	return &Validator{
		validate: v,
		query:    dec,
		messages: make(map[reflect.Type]map[string]map[string]string),
	}
}

// DecodeJSON reads the body into dst, normalizes it and validates it.
// Returns ErrInvalidBody for malformed JSON and *Error for rule violations.
func (v *Validator) DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return &Error{Violations: []Violation{{
				Path:    typeErr.Field,
				Message: fmt.Sprintf("Expected %s", jsonKind(typeErr.Type)),
			}}}
		}
		var sizeErr *http.MaxBytesError
		if errors.As(err, &sizeErr) {
			return ErrBodyTooLarge
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", ErrInvalidBody)
		}
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}

	return v.Struct(dst)
}

// DecodeQuery decodes URL query values into dst using `schema` tags, then
// normalizes and validates it. Fields absent from the query keep the values
// dst already holds, which is how defaults are expressed.
func (v *Validator) DecodeQuery(values url.Values, dst any) error {
	if err := v.query.Decode(dst, values); err != nil {
		var multi schema.MultiError
		if errors.As(err, &multi) {
			out := &Error{}
			for key, fieldErr := range multi {
				msg := "Invalid value"
				var conv schema.ConversionError
				if errors.As(fieldErr, &conv) {
					msg = fmt.Sprintf("Expected %s", jsonKind(conv.Type))
				}
				out.Violations = append(out.Violations, Violation{Path: key, Message: msg})
			}
			sortViolations(out.Violations)
			return out
		}
		return &Error{Violations: []Violation{{Path: "query", Message: err.Error()}}}
	}

	return v.Struct(dst)
}

// Struct normalizes s when it implements Normalizer and validates it.
func (v *Validator) Struct(s any) error {
	if n, ok := s.(Normalizer); ok {
		n.Normalize()
	}

	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate: %w", err)
	}

	msgs := v.messagesFor(reflect.TypeOf(s))
	out := &Error{Violations: make([]Violation, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		path := trimRoot(fe.Namespace())
		out.Violations = append(out.Violations, Violation{
			Path:    path,
			Message: messageFor(msgs, path, fe),
		})
	}
	return out
}

// messagesFor parses and caches the errmsg tags of a struct type.
func (v *Validator) messagesFor(t reflect.Type) map[string]map[string]string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	v.mu.RLock()
	m, ok := v.messages[t]
	v.mu.RUnlock()
	if ok {
		return m
	}

	m = make(map[string]map[string]string)
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			tag := f.Tag.Get("errmsg")
			if tag == "" {
				continue
			}
			rules := make(map[string]string)
			for _, pair := range strings.Split(tag, ";") {
				rule, msg, found := strings.Cut(pair, "=")
				if !found {
					// a bare message applies to every rule
					rules["*"] = strings.TrimSpace(rule)
					continue
				}
				rules[strings.TrimSpace(rule)] = strings.TrimSpace(msg)
			}
			m[fieldName(f)] = rules
		}
	}

	v.mu.Lock()
	v.messages[t] = m
	v.mu.Unlock()
	return m
}

func messageFor(msgs map[string]map[string]string, path string, fe validator.FieldError) string {
	base := path
	if i := strings.IndexAny(base, ".["); i >= 0 {
		base = base[:i]
	}
	if rules, ok := msgs[base]; ok {
		if msg, ok := rules[fe.Tag()]; ok {
			return msg
		}
		if msg, ok := rules["*"]; ok {
			return msg
		}
	}
	return defaultMessage(fe)
}

func defaultMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "email":
		return "Invalid email"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must contain at least %s character(s)", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must contain at most %s character(s)", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Must contain at most %s item(s)", fe.Param())
		}
		return fmt.Sprintf("Must be less than or equal to %s", fe.Param())
	default:
		return fmt.Sprintf("Failed %s validation", fe.Tag())
	}
}

// fieldName reports the wire name of a struct field: json tag first, then
// schema tag, then the Go name.
func fieldName(f reflect.StructField) string {
	for _, key := range []string{"json", "schema"} {
		name, _, _ := strings.Cut(f.Tag.Get(key), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

func trimRoot(namespace string) string {
	if _, rest, found := strings.Cut(namespace, "."); found {
		return rest
	}
	return namespace
}

func jsonKind(t reflect.Type) string {
	if t == nil {
		return "valid value"
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Pointer:
		return jsonKind(t.Elem())
	default:
		return "object"
	}
}

func sortViolations(vs []Violation) {
	sort.Slice(vs, func(i, j int) bool { return vs[i].Path < vs[j].Path })
}

// TrimStrings trims every element in place and returns the slice.
func TrimStrings(values []string) []string {
	for i, v := range values {
		values[i] = strings.TrimSpace(v)
	}
	return values
}
