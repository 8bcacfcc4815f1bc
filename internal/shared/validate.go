package shared

import (
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	phoneRe   = regexp.MustCompile(`^[6-9][0-9]{9}$`)
	pincodeRe = regexp.MustCompile(`^[1-9][0-9]{5}$`)
	gstinRe   = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z]{1}[1-9A-Z]{1}Z[0-9A-Z]{1}$`)
	panRe     = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]{1}$`)
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the process-wide validator with the Indian document
// formats (phone, pincode, GSTIN, PAN) registered as custom tags.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("in_phone", regexValidation(phoneRe))
		_ = validate.RegisterValidation("in_pincode", regexValidation(pincodeRe))
		_ = validate.RegisterValidation("gstin", regexValidation(gstinRe))
		_ = validate.RegisterValidation("pan", regexValidation(panRe))
	})
	return validate
}

func regexValidation(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}
