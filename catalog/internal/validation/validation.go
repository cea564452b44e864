// Package validation checks candidate book records against the field rules
// of the catalog. Every rule is evaluated, so all violations surface at once.
package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/Astemirdum/catalog-service/catalog/internal/errs"
	"github.com/Astemirdum/catalog-service/catalog/internal/model"
	"github.com/Astemirdum/catalog-service/pkg/validate"
)

const (
	MinPublishYear = 1000
	MinRating      = 0
	MaxRating      = 5
)

const (
	RuleRequired = "required"
	RuleRange    = "range"
	RuleOneOf    = "oneof"
)

type Validator struct {
	v   *validator.Validate
	now func() time.Time
}

// New builds a Validator; now supplies the current year for publishYear.
func New(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	vd := &Validator{
		v:   validator.New(),
		now: now,
	}
	vd.v.RegisterTagNameFunc(validate.JSONTagName)
	if err := vd.v.RegisterValidation("notblank", notBlank); err != nil {
		panic(err)
	}
	if err := vd.v.RegisterValidation("publishyear", vd.publishYear); err != nil {
		panic(err)
	}
	return vd
}

func (vd *Validator) Validate(fields model.BookFields) errs.FieldErrors {
	out := errs.FieldErrors{}
	err := vd.v.Struct(fields)
	if err == nil {
		return out
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		out["_"] = err.Error()
		return out
	}
	for _, fe := range fieldErrs {
		out[fe.Field()] = vd.message(fe)
	}
	return out
}

// Rule reports the rule name behind a validator tag.
func Rule(tag string) string {
	switch tag {
	case "notblank":
		return RuleRequired
	case "publishyear", "gte", "lte":
		return RuleRange
	}
	return tag
}

func (vd *Validator) message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank":
		return fmt.Sprintf("%s is required", fe.Field())
	case "publishyear":
		return fmt.Sprintf("%s must be between %d and %d", fe.Field(), MinPublishYear, vd.now().Year())
	case "gte", "lte":
		return fmt.Sprintf("%s must be between %d and %d", fe.Field(), MinRating, MaxRating)
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func (vd *Validator) publishYear(fl validator.FieldLevel) bool {
	year := fl.Field().Int()
	return year >= MinPublishYear && year <= int64(vd.now().Year())
}
