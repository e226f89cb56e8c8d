package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrInvalidLength indicates phone number length is outside 10-13 digits
	ErrInvalidLength = errors.New("phone number must be between 10 and 13 digits")

	// ErrInvalidPrefix indicates phone number doesn't start with a known Indonesian mobile prefix
	ErrInvalidPrefix = errors.New("phone number must start with a known Indonesian mobile prefix (08xx)")

	// ErrInvalidFormat indicates phone number contains invalid characters
	ErrInvalidFormat = errors.New("phone number can only contain digits")

	// ErrEmptyPhone indicates phone number is empty
	ErrEmptyPhone = errors.New("phone number cannot be empty")
)

// operatorPrefixes maps Indonesian mobile prefixes to their operator
var operatorPrefixes = map[string]string{
	"0811": "Telkomsel", "0812": "Telkomsel", "0813": "Telkomsel",
	"0821": "Telkomsel", "0822": "Telkomsel", "0823": "Telkomsel",
	"0851": "Telkomsel", "0852": "Telkomsel", "0853": "Telkomsel",
	"0814": "Indosat", "0815": "Indosat", "0816": "Indosat",
	"0855": "Indosat", "0856": "Indosat", "0857": "Indosat", "0858": "Indosat",
	"0817": "XL", "0818": "XL", "0819": "XL", "0859": "XL", "0877": "XL", "0878": "XL",
	"0831": "Axis", "0832": "Axis", "0833": "Axis", "0838": "Axis",
	"0895": "Tri", "0896": "Tri", "0897": "Tri", "0898": "Tri", "0899": "Tri",
	"0881": "Smartfren", "0882": "Smartfren", "0883": "Smartfren", "0884": "Smartfren",
	"0885": "Smartfren", "0886": "Smartfren", "0887": "Smartfren", "0888": "Smartfren", "0889": "Smartfren",
}

// phoneRegex matches digits only
var phoneRegex = regexp.MustCompile(`^\d+$`)

// PhoneValidator handles phone number validation
type PhoneValidator struct{}

// NewPhoneValidator creates a new phone validator instance
func NewPhoneValidator() *PhoneValidator {
	return &PhoneValidator{}
}

// Validate validates an Indonesian mobile number.
// Accepts 081234567890, +62 812-3456-7890 or 62812 3456 7890.
// Returns the national form (digits only, leading 0).
func (v *PhoneValidator) Validate(phone string) (string, error) {
	if phone == "" {
		return "", ErrEmptyPhone
	}

	sanitized := v.Sanitize(phone)

	if !phoneRegex.MatchString(sanitized) {
		return "", ErrInvalidFormat
	}

	if len(sanitized) < 10 || len(sanitized) > 13 {
		return "", ErrInvalidLength
	}

	if !v.IsValidPrefix(sanitized) {
		return "", ErrInvalidPrefix
	}

	return sanitized, nil
}

// Sanitize removes separators and rewrites the 62 country code to a leading 0
func (v *PhoneValidator) Sanitize(phone string) string {
	phone = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", "+", "", ".", "").Replace(phone)

	if strings.HasPrefix(phone, "628") {
		phone = "0" + phone[2:]
	}

	return phone
}

// IsValidPrefix checks if phone number has a known Indonesian mobile prefix
func (v *PhoneValidator) IsValidPrefix(phone string) bool {
	if len(phone) < 4 {
		return false
	}
	_, ok := operatorPrefixes[phone[:4]]
	return ok
}

// Format formats a phone number for display: 08XX-XXXX-XXXX
func (v *PhoneValidator) Format(phone string) (string, error) {
	sanitized, err := v.Validate(phone)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%s-%s", sanitized[0:4], sanitized[4:8], sanitized[8:]), nil
}

// GetOperator returns the mobile operator name based on prefix
func (v *PhoneValidator) GetOperator(phone string) (string, error) {
	sanitized, err := v.Validate(phone)
	if err != nil {
		return "", err
	}
	return operatorPrefixes[sanitized[:4]], nil
}

// International returns the number in E.164 digits without the plus sign (62...)
func (v *PhoneValidator) International(phone string) (string, error) {
	sanitized, err := v.Validate(phone)
	if err != nil {
		return "", err
	}
	return "62" + sanitized[1:], nil
}

// WhatsAppURL returns the click-to-chat link for a mobile number
func (v *PhoneValidator) WhatsAppURL(phone string) (string, error) {
	intl, err := v.International(phone)
	if err != nil {
		return "", err
	}
	return "https://wa.me/" + intl, nil
}

// IsValid is a convenience method that returns true if phone is valid
func (v *PhoneValidator) IsValid(phone string) bool {
	_, err := v.Validate(phone)
	return err == nil
}
