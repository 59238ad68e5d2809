// internal/core/validation.go
package core

import (
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/Annany2002/nebula-schemas/internal/domain"
)

// Phone numbers: optional '+', optional leading 1, then 9 to 15 digits.
var phoneRegex = regexp.MustCompile(`^\+?1?\d{9,15}$`)

const PhoneFormatMessage = "Phone number must be entered in the format: '+999999999'. Up to 15 digits allowed."

// IsValidPhone reports whether s is an acceptable phone number.
func IsValidPhone(s string) bool {
	return phoneRegex.MatchString(s)
}

// IsValidSeparator checks the column separator wire token.
func IsValidSeparator(s string) bool {
	return s == domain.SeparatorComma || s == domain.SeparatorSemicolon
}

// IsValidQuoteChar checks the string character wire token.
func IsValidQuoteChar(s string) bool {
	return s == domain.QuoteDouble || s == domain.QuoteSingle
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator with the schema-specific tags registered:
// phone, separator, quotechar and columnkind.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
			return IsValidPhone(fl.Field().String())
		})
		mustRegister(v, "separator", func(fl validator.FieldLevel) bool {
			return IsValidSeparator(fl.Field().String())
		})
		mustRegister(v, "quotechar", func(fl validator.FieldLevel) bool {
			return IsValidQuoteChar(fl.Field().String())
		})
		mustRegister(v, "columnkind", func(fl validator.FieldLevel) bool {
			_, ok := domain.ParseKind(fl.Field().String())
			return ok
		})
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic("core: registering validation " + tag + ": " + err.Error())
	}
}
