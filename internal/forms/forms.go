// Package forms validates user input before any container call is made.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Skotchmaster/storefront/internal/apierr"
	"github.com/Skotchmaster/storefront/internal/models"
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

type Login struct {
	Email    string `json:"email"    form:"email"    validate:"required,loose_email"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
}

type Register struct {
	Email     string `json:"email"     form:"email"     validate:"required,loose_email"`
	Password  string `json:"password"  form:"password"  validate:"required,min=6"`
	FirstName string `json:"firstName" form:"firstName" validate:"required"`
	LastName  string `json:"lastName"  form:"lastName"  validate:"required"`
	Phone     string `json:"phone"     form:"phone"`
}

func (r Register) Request() models.RegisterRequest {
	return models.RegisterRequest{
		Email:     r.Email,
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
	}
}

type AddItem struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int   `json:"quantity"  validate:"gte=0"`
}

type UpdateItem struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

// FieldError is one failed rule, keyed by the json name of the field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Failure is returned when a form does not pass validation.
type Failure struct {
	Fields []FieldError `json:"fields"`
}

func (f *Failure) Error() string {
	parts := make([]string, 0, len(f.Fields))
	for _, fe := range f.Fields {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap exposes the first field as an apierr validation error.
func (f *Failure) Unwrap() error {
	if len(f.Fields) == 0 {
		return nil
	}
	return apierr.Validation(f.Fields[0].Field, f.Fields[0].Message)
}

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("loose_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return &Validator{v: v}
}

// Validate satisfies echo.Validator.
func (v *Validator) Validate(i any) error {
	err := v.v.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}
	f := &Failure{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		f.Fields = append(f.Fields, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return f
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "loose_email":
		return "Email is invalid"
	case "min":
		if fe.Field() == "password" {
			return "Password must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	default:
		return "is invalid"
	}
}
