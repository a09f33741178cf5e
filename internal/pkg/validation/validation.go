package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Indian postal index number: six digits, first digit non-zero.
var pincodeRe = regexp.MustCompile(`^[1-9][0-9]{5}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("pincode", func(fl validator.FieldLevel) bool {
		return IsValidPincode(fl.Field().String())
	})
	return v
}

func IsValidPincode(pincode string) bool {
	return pincodeRe.MatchString(pincode)
}

// Struct validates s against its `validate` tags and reports the first
// failing field as "<field>: <reason>".
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return errors.New(describe(fe))
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be <= %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be > %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s long", field, fe.Param())
	case "pincode":
		return fmt.Sprintf("%s must be a 6-digit pincode", field)
	case "latitude", "longitude":
		return fmt.Sprintf("%s is not a valid %s", field, fe.Tag())
	default:
		return fmt.Sprintf("%s failed %q validation", field, fe.Tag())
	}
}
