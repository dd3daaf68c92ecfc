package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/username/tradewhatif/src/models"
)

// ErrValidationFailed is wrapped by every error returned from this package.
var ErrValidationFailed = errors.New("validation failed")

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Tags such as gt=0 compare decimals by their float value.
		validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// ValidateTrade checks the rules every extracted trade must satisfy.
func ValidateTrade(trade models.ParsedTrade) error {
	return check(trade)
}

// ValidateStruct runs the struct's validate tags.
func ValidateStruct(s interface{}) error {
	return check(s)
}

func check(s interface{}) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s: failed '%s' check", fe.Namespace(), fe.Tag()))
		}
		return fmt.Errorf("%w: %s", ErrValidationFailed, strings.Join(msgs, "; "))
	}
	return fmt.Errorf("%w: %v", ErrValidationFailed, err)
}
