package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validation failed: %w", err)
		}
		var errMsgs []string
		for _, err := range verrs {
			errMsgs = append(errMsgs, fmt.Sprintf(
				"Field: %s, Tag: %s, Param: %s", err.Field(), err.Tag(), err.Param(),
			))
		}
		return fmt.Errorf("validation failed: %s", strings.Join(errMsgs, "; "))
	}
	return nil
}

// ValidateVar checks a single value against a tag such as "gte=0,lte=1".
func ValidateVar(field interface{}, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		return fmt.Errorf("validation failed: %s: %w", tag, err)
	}
	return nil
}
