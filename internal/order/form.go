package order

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

const defaultCountry = "India"

var ErrInvalidForm = errors.New("invalid checkout form")

// Form is the checkout form as submitted by the storefront.
type Form struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Address   string `json:"address" validate:"required"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	ZipCode   string `json:"zip_code" validate:"required"`
	Country   string `json:"country" validate:"required"`

	CardName   string `json:"card_name" validate:"required"`
	CardNumber string `json:"card_number" validate:"required,number,min=12,max=19"`
	CardExpiry string `json:"card_expiry" validate:"required,card_expiry"`
	CardCVC    string `json:"card_cvc" validate:"required,number,min=3,max=4"`
}

// ValidationError maps json field names to the rule they failed.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return fmt.Sprintf("%s: %s", ErrInvalidForm, strings.Join(names, ", "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidForm }

var expiryRe = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)

type FormValidator struct {
	v *validator.Validate
}

func NewFormValidator() *FormValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("card_expiry", func(fl validator.FieldLevel) bool {
		return expiryRe.MatchString(fl.Field().String())
	})
	return &FormValidator{v: v}
}

// Normalize trims every field, strips spaces from the card number and fills
// the default country.
func (f Form) Normalize() Form {
	trim := strings.TrimSpace
	f.FirstName, f.LastName, f.Email = trim(f.FirstName), trim(f.LastName), trim(f.Email)
	f.Address, f.City, f.State, f.ZipCode = trim(f.Address), trim(f.City), trim(f.State), trim(f.ZipCode)
	f.Country = trim(f.Country)
	if f.Country == "" {
		f.Country = defaultCountry
	}
	f.CardName = trim(f.CardName)
	f.CardNumber = strings.ReplaceAll(trim(f.CardNumber), " ", "")
	f.CardExpiry, f.CardCVC = trim(f.CardExpiry), trim(f.CardCVC)
	return f
}

func (fv *FormValidator) Validate(f Form) error {
	err := fv.v.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	return &ValidationError{Fields: fields}
}

func (f Form) Customer() Customer {
	return Customer{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Address:   f.Address,
		City:      f.City,
		State:     f.State,
		ZipCode:   f.ZipCode,
		Country:   f.Country,
	}
}
