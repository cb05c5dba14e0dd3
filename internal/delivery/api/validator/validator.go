// Package validator adapts go-playground/validator to echo.
package validator

import (
	"reflect"
	"strings"

	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/domain/pricing"
	"rentalhub/internal/errors"

	"github.com/go-playground/validator/v10"
)

// CustomValidator implements echo.Validator.
type CustomValidator struct {
	validate *validator.Validate
}

// New returns a validator with the domain enum tags registered.
func New() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "query", "param"} {
			if name, _, _ := strings.Cut(field.Tag.Get(tag), ","); name != "" && name != "-" {
				return name
			}
		}

		return field.Name
	})
	_ = v.RegisterValidation("discount_type", func(fl validator.FieldLevel) bool {
		return pricing.DiscountType(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("order_action", func(fl validator.FieldLevel) bool {
		return entity.OrderAction(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("payment_status", func(fl validator.FieldLevel) bool {
		return entity.PaymentStatus(fl.Field().String()).IsValid()
	})

	return &CustomValidator{validate: v}
}

// Validate runs struct validation and reports failures as ErrValidationFailed with the
// offending fields as details.
func (cv *CustomValidator) Validate(i any) error {
	err := cv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.Wrap(domainerrors.ErrValidationFailed.WithDetails(err.Error()), "validate request")
	}

	failures := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		failures = append(failures, fe.Field()+" failed "+fe.Tag())
	}

	return errors.Wrap(domainerrors.ErrValidationFailed.WithDetails(strings.Join(failures, "; ")), "validate request")
}
