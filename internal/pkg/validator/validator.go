package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	HexColorMessage = "Enter a valid color: # followed by three pairs of hexadecimal digits, e.g. #8fce00."
	SlugMessage     = "Only latin letters, digits, underscores or hyphens are allowed."
	UsernameMessage = "Only letters, digits and @/./+/-/_ are allowed."

	// NonFieldErrors is the key for errors not tied to one field.
	NonFieldErrors = "non_field_errors"
)

var (
	hexColorRe = regexp.MustCompile(`^#[a-fA-F0-9]{6}$`)
	slugRe     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)

	initOnce sync.Once
)

func IsHexColor(s string) bool { return hexColorRe.MatchString(s) }
func IsSlug(s string) bool     { return slugRe.MatchString(s) }
func IsUsername(s string) bool { return usernameRe.MatchString(s) }

// Init configures the validator used by gin binding:
// json tag names in errors plus the hexcolor6, slug and username tags.
func Init() {
	initOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("hexcolor6", stringRule(IsHexColor))
		_ = v.RegisterValidation("slug", stringRule(IsSlug))
		_ = v.RegisterValidation("username", stringRule(IsUsername))
	})
}

func stringRule(fn func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return fn(fl.Field().String())
	}
}

// Struct validates v with the binding tags and returns field messages or nil.
func Struct(v any) map[string][]string {
	Init()
	if err := binding.Validator.ValidateStruct(v); err != nil {
		return FromError(err)
	}
	return nil
}

// FromError converts binding/validation errors into field -> messages.
func FromError(err error) map[string][]string {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string][]string, len(verrs))
		for _, fe := range verrs {
			field := topLevelField(fe)
			out[field] = append(out[field], formatFieldError(fe))
		}
		return out
	}

	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" {
		field := strings.SplitN(ute.Field, ".", 2)[0]
		return map[string][]string{field: {"Incorrect type."}}
	}

	var se *json.SyntaxError
	if errors.As(err, &se) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return map[string][]string{NonFieldErrors: {"Invalid JSON."}}
	}

	return map[string][]string{NonFieldErrors: {"Invalid payload."}}
}

// topLevelField maps "Request.ingredients[1].amount" to "ingredients".
func topLevelField(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	if i := strings.IndexAny(ns, ".["); i >= 0 {
		ns = ns[:i]
	}
	if ns == "" {
		return fe.Field()
	}
	return ns
}

func formatFieldError(fe validator.FieldError) string {
	param := fe.Param()
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "hexcolor6":
		return HexColorMessage
	case "slug":
		return SlugMessage
	case "username":
		return UsernameMessage
	case "min":
		if isNumberKind(fe.Kind()) {
			return "Ensure this value is greater than or equal to " + param + "."
		}
		if fe.Kind() == reflect.Slice {
			return "Ensure this list has at least " + param + " elements."
		}
		return "Ensure this field has at least " + param + " characters."
	case "max":
		if isNumberKind(fe.Kind()) {
			return "Ensure this value is less than or equal to " + param + "."
		}
		return "Ensure this field has no more than " + param + " characters."
	case "gte":
		return "Ensure this value is greater than or equal to " + param + "."
	case "dive":
		return "Invalid item."
	}
	return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
