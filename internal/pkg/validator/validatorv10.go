package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shandysiswandi/otpbite/internal/pkg/otp"
)

// Message keys for rejected one-time passwords.
const (
	MessageOTPInvalid    = "otp.invalid"
	MessageOTPExpired    = "otp.expired"
	MessageOTPMaxAttempt = "otp.max_attempt"
)

// ErrTranslatorNotFound indicates the requested translator is unavailable.
var ErrTranslatorNotFound = errors.New("translator not found")

// V10Validator implements Validator and Translator using go-playground/validator v10.
type V10Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// V10ValidationError is a field-to-message map returned when validation fails.
//
// Keys are the json names of the fields, or the lower-cased Go name when a
// field has no json tag.
type V10ValidationError map[string]string

// Error implements the error interface.
func (vs V10ValidationError) Error() string {
	if len(vs) == 0 {
		return "validation error"
	}

	b, err := json.Marshal(vs)
	if err != nil {
		return fmt.Sprintf("validation error (failed to marshal: %v)", err)
	}
	return string(b)
}

// Values returns the field error map.
func (vs V10ValidationError) Values() map[string]string {
	return vs
}

// NewV10Validator constructs a V10Validator with English translations and custom rules.
func NewV10Validator() (*V10Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(fieldName)

	enLang := en.New()
	uni := ut.New(enLang, enLang)
	enTrans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	if err := enTranslations.RegisterDefaultTranslations(validate, enTrans); err != nil {
		return nil, err
	}

	if err := v10CustomValidation(validate, enTrans); err != nil {
		return nil, err
	}

	if err := otpMessages(enTrans); err != nil {
		return nil, err
	}

	return &V10Validator{
		validate:   validate,
		translator: enTrans,
	}, nil
}

// Validate validates a struct and returns a V10ValidationError on failure.
func (v *V10Validator) Validate(data any) error {
	if err := v.validate.Struct(data); err != nil {
		var validateErrs validator.ValidationErrors
		if !errors.As(err, &validateErrs) {
			return err
		}

		errV10 := make(V10ValidationError)
		for _, fe := range validateErrs {
			errV10[fe.Field()] = fe.Translate(v.translator)
		}

		return errV10
	}

	return nil
}

// Translate renders a registered message.
func (v *V10Validator) Translate(key string, params ...string) string {
	msg, err := v.translator.T(key, params...)
	if err != nil {
		slog.Warn("warning: error translating", "key", key, "error", err)
		return key
	}

	return msg
}

func fieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return strings.ToLower(fld.Name)
	default:
		return name
	}
}

func v10CustomValidation(validate *validator.Validate, enTrans ut.Translator) error {
	if err := validate.RegisterValidation("otpformat", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			return false
		}

		f := fl.Field().String()
		return f == "" || otp.IsFormat(f)
	}); err != nil {
		return err
	}

	return validate.RegisterTranslation("otpformat", enTrans,
		func(ut ut.Translator) error {
			return ut.Add("otpformat", "{0} must be one of numeric, numeric-no-zero, string or customize", false)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, err := ut.T(fe.Tag(), fe.Field())
			if err != nil {
				slog.Warn("warning: error translating", "FieldError", fe, "error", err)
				return fe.Error()
			}

			return t
		},
	)
}

func otpMessages(enTrans ut.Translator) error {
	messages := map[string]string{
		MessageOTPInvalid:    "The {0} is invalid.",
		MessageOTPExpired:    "The {0} is expired.",
		MessageOTPMaxAttempt: "You have reached the maximum allowed attempts.",
	}

	for key, text := range messages {
		if err := enTrans.Add(key, text, false); err != nil {
			return err
		}
	}

	return nil
}
