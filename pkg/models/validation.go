package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	monthLayout = "2006-01"
	dateLayout  = "2006-01-02"
)

// NewValidator returns a validator that understands the `month` (YYYY-MM)
// and `isodate` (YYYY-MM-DD) tags used by the request types.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("month", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(monthLayout, fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(dateLayout, fl.Field().String())
		return err == nil
	})
	return v
}

// CheckDatesInMonth reports the first date that does not belong to month.
func CheckDatesInMonth(month string, dates ...[]string) error {
	for _, set := range dates {
		for _, d := range set {
			if !strings.HasPrefix(d, month+"-") {
				return fmt.Errorf("date %s is outside month %s", d, month)
			}
		}
	}
	return nil
}

// DescribeValidation flattens validator errors into a single readable line.
func DescribeValidation(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
