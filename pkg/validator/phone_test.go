package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPhoneValidator(t *testing.T) {
	validator := NewPhoneValidator()
	assert.NotNil(t, validator)
}

func TestValidate_ValidNumbers(t *testing.T) {
	validator := NewPhoneValidator()

	validNumbers := []struct {
		input    string
		expected string
		name     string
	}{
		{"081234567890", "081234567890", "Standard format"},
		{"0812 3456 7890", "081234567890", "With spaces"},
		{"0812-3456-7890", "081234567890", "With dashes"},
		{"0812.3456.7890", "081234567890", "With dots"},
		{"(0812) 3456 7890", "081234567890", "With parentheses"},
		{"+6281234567890", "081234567890", "With country code"},
		{"62 857 1234 5678", "085712345678", "Indosat with country code"},
		{"0877123456", "0877123456", "XL ten digits"},
		{"0896123456789", "0896123456789", "Tri thirteen digits"},
	}

	for _, tc := range validNumbers {
		t.Run(tc.name, func(t *testing.T) {
			sanitized, err := validator.Validate(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, sanitized)
		})
	}
}

func TestValidate_InvalidNumbers(t *testing.T) {
	validator := NewPhoneValidator()

	invalidNumbers := []struct {
		input       string
		expectedErr error
		name        string
	}{
		{"", ErrEmptyPhone, "Empty string"},
		{"123", ErrInvalidLength, "Too short"},
		{"08123456789012", ErrInvalidLength, "Too long"},
		{"0212345678", ErrInvalidPrefix, "Jakarta landline"},
		{"0801234567", ErrInvalidPrefix, "Unassigned prefix 0801"},
		{"08123456789a", ErrInvalidFormat, "Contains letters"},
	}

	for _, tc := range invalidNumbers {
		t.Run(tc.name, func(t *testing.T) {
			_, err := validator.Validate(tc.input)
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func TestFormat(t *testing.T) {
	validator := NewPhoneValidator()

	formatted, err := validator.Format("+62 812 3456 7890")
	require.NoError(t, err)
	assert.Equal(t, "0812-3456-7890", formatted)

	_, err = validator.Format("12345")
	assert.Error(t, err)
}

func TestGetOperator(t *testing.T) {
	validator := NewPhoneValidator()

	tests := []struct {
		phone    string
		operator string
	}{
		{"081234567890", "Telkomsel"},
		{"085612345678", "Indosat"},
		{"081812345678", "XL"},
		{"083812345678", "Axis"},
		{"089812345678", "Tri"},
		{"088112345678", "Smartfren"},
	}

	for _, tc := range tests {
		t.Run(tc.operator, func(t *testing.T) {
			operator, err := validator.GetOperator(tc.phone)
			require.NoError(t, err)
			assert.Equal(t, tc.operator, operator)
		})
	}
}

func TestWhatsAppURL(t *testing.T) {
	validator := NewPhoneValidator()

	url, err := validator.WhatsAppURL("+6281234567890")
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/6281234567890", url)

	url, err = validator.WhatsAppURL("0812-3456-7890")
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/6281234567890", url)

	_, err = validator.WhatsAppURL("not a phone")
	assert.Error(t, err)
}

func TestIsValid(t *testing.T) {
	validator := NewPhoneValidator()

	assert.True(t, validator.IsValid("081234567890"))
	assert.False(t, validator.IsValid("0712345678"))
	assert.False(t, validator.IsValid(""))
}
