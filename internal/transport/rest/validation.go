package rest

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/grocerydesk/catalog/internal/store"
	"github.com/shopspring/decimal"
)

// newValidator reports fields under their JSON names. Decimals are validated through their string form.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})
	_ = v.RegisterValidation("money", validateMoney)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateMoney accepts values that are stored without rounding.
func validateMoney(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return store.ValueFits(d)
}

// validationMessages turns validator errors into one message per violated field.
func validationMessages(errs validator.ValidationErrors) []string {
	messages := make([]string, 0, len(errs))
	for _, fe := range errs {
		messages = append(messages, validationMessage(fe))
	}
	return messages
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if fe.Kind() == reflect.String {
			return fe.Field() + " must not be empty"
		}
		return fe.Field() + " must not be null"
	case "min":
		return fe.Field() + " must not be empty"
	case "money":
		return fmt.Sprintf("%s must have at most %d decimal places and %d integer digits",
			fe.Field(), store.ValueScale, store.ValueIntegerDigits)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed on rule: %s", fe.Field(), fe.Tag())
	}
}
