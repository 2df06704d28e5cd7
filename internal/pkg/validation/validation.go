package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"botsales-backend/internal/domain"

	"github.com/go-playground/validator/v10"
)

// Australian postcodes are four digits.
var postcodeRe = regexp.MustCompile(`^\d{4}$`)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	validate.RegisterValidation("postcode", func(fl validator.FieldLevel) bool {
		return postcodeRe.MatchString(fl.Field().String())
	})
}

// Struct validates s against its `validate` tags and converts failures into
// domain.ValidationErrors so callers can test them with errors.Is(err, domain.ErrValidation).
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := make(domain.ValidationErrors, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, &domain.ValidationError{Field: fieldPath(e), Message: message(e)})
	}
	return out
}

// SearchFilters validates a filter value received from the UI layer.
func SearchFilters(f domain.SearchFilters) error {
	return Struct(f)
}

func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", e.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", e.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", e.Param())
	case "email":
		return "must be a valid email address"
	case "postcode":
		return "must be a four digit postcode"
	case "url":
		return "must be a valid URL"
	}
	return fmt.Sprintf("failed %q validation", e.Tag())
}
