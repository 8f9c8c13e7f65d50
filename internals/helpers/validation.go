package helper

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"hopefoundation_backend/internals/features/finance/errs"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator; field names in errors follow the json tags.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// CollectValidation runs tag validation on s and appends one readable message
// per failed field to into. Non-validation errors are appended verbatim.
func CollectValidation(s any, into *errs.ValidationError) {
	err := Validator().Struct(s)
	if err == nil {
		return
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		into.Add("%s", err.Error())
		return
	}
	for _, fe := range ve {
		into.Messages = append(into.Messages, fieldMessage(fe))
	}
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", field, fe.Param(), sizeUnit(fe.Kind(), fe.Param()))
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", field, fe.Param(), sizeUnit(fe.Kind(), fe.Param()))
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "uuid", "uuid4":
		return fmt.Sprintf("%s must be a valid id", field)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}

// sizeUnit: min/max berarti panjang untuk string, jumlah isi untuk slice/map, nilai untuk angka.
func sizeUnit(k reflect.Kind, param string) string {
	var unit string
	switch k {
	case reflect.String:
		unit = " character"
	case reflect.Slice, reflect.Array, reflect.Map:
		unit = " item"
	default:
		return ""
	}
	if param != "1" {
		unit += "s"
	}
	return unit
}
