package validator

import (
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	apperrors "pollos-admin/pkg/errors"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Field names in details match the HTML form inputs.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, key := range []string{"form", "json"} {
			tag := strings.SplitN(f.Tag.Get(key), ",", 2)[0]
			if tag == "-" {
				return ""
			}
			if tag != "" {
				return tag
			}
		}
		return f.Name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() != reflect.String {
			return true
		}
		return strings.TrimSpace(field.String()) != ""
	})
	// runes counts characters rather than bytes so accented names are not
	// penalised, e.g. "Molleja con Hígado".
	_ = v.RegisterValidation("runesmax", func(fl validator.FieldLevel) bool {
		var limit int
		if _, err := fmt.Sscanf(fl.Param(), "%d", &limit); err != nil {
			return false
		}
		return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) <= limit
	})
	_ = v.RegisterValidation("runesmin", func(fl validator.FieldLevel) bool {
		var limit int
		if _, err := fmt.Sscanf(fl.Param(), "%d", &limit); err != nil {
			return false
		}
		return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= limit
	})
	return v
}

// ValidateStruct returns nil or a VALIDATION_ERROR carrying one message per
// offending field.
func ValidateStruct(data any) error {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.Wrap(apperrors.CodeValidation, err, "datos inválidos")
	}
	details := make(map[string]string, len(errs))
	for _, fieldErr := range errs {
		if _, seen := details[fieldErr.Field()]; seen {
			continue
		}
		details[fieldErr.Field()] = validationMessage(fieldErr)
	}
	return apperrors.New(apperrors.CodeValidation, "Revisa los campos marcados.").WithDetails(details)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "Este campo es obligatorio."
	case "min", "runesmin":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Debe tener al menos %s caracteres.", fe.Param())
		}
		return fmt.Sprintf("Debe ser al menos %s.", fe.Param())
	case "max", "runesmax":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Debe tener como máximo %s caracteres.", fe.Param())
		}
		return fmt.Sprintf("Debe ser como máximo %s.", fe.Param())
	case "gt":
		return fmt.Sprintf("Debe ser mayor que %s.", fe.Param())
	case "gte":
		return fmt.Sprintf("Debe ser mayor o igual a %s.", fe.Param())
	case "oneof":
		return fmt.Sprintf("Debe ser uno de: %s.", fe.Param())
	case "alphanum":
		return "Solo se permiten letras y números."
	}
	return "Valor inválido."
}
