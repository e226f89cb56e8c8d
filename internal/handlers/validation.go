package handlers

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/jelajah/tour-booking-backend/internal/models"
)

// RegisterValidators adds the custom binding rules to gin's validator
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	v.RegisterTagNameFunc(fieldName)
	if err := v.RegisterValidation("isodate", isoDate); err != nil {
		return fmt.Errorf("failed to register isodate: %w", err)
	}
	return nil
}

// isoDate accepts YYYY-MM-DD calendar dates
func isoDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(models.DateLayout, fl.Field().String())
	return err == nil
}

// fieldName reports fields by their wire name in validation messages
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}
