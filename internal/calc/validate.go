package calc

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/alexanderramin/workplan/internal/domain"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("positive_decimal", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(decimal.Decimal)
		return ok && value.IsPositive()
	})
	return v
}

var tagMessages = map[string]string{
	"required":         "is required",
	"min":              "must have at least %s entries",
	"gt":               "must be greater than %s",
	"gte":              "must be at least %s",
	"lte":              "must be at most %s",
	"oneof":            "must be one of [%s]",
	"positive_decimal": "must be a positive amount",
}

// toDomainError maps the first validator failure to an InvalidParameter
// error whose field is the JSON path without the root type name.
func toDomainError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return domain.InvalidParameter("params", err.Error())
	}
	fe := ve[0]
	path := fe.Namespace()
	if _, rest, ok := strings.Cut(path, "."); ok {
		path = rest
	}
	msg, ok := tagMessages[fe.Tag()]
	switch {
	case !ok:
		msg = fmt.Sprintf("failed %s check", fe.Tag())
	case strings.Contains(msg, "%s"):
		msg = fmt.Sprintf(msg, fe.Param())
	}
	return domain.InvalidParameter(path, msg)
}

func requirePositive(field string, v *decimal.Decimal) error {
	if v != nil && !v.IsPositive() {
		return domain.InvalidParameter(field, "must be a positive amount")
	}
	return nil
}
