package dto

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/award"
)

var (
	Validate = validator.New()
	trans    ut.Translator
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func InitValidator() error {
	uni := ut.New(en.New(), en.New())
	trans, _ = uni.GetTranslator("en")

	if err := enTranslations.RegisterDefaultTranslations(Validate, trans); err != nil {
		return err
	}

	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := registerRule("airport", "{0} must be a 3-letter airport code", func(fl validator.FieldLevel) bool {
		return award.IsAirportCode(fl.Field().String())
	}); err != nil {
		return err
	}

	if err := registerRule("carrier", "{0} is not a supported carrier", func(fl validator.FieldLevel) bool {
		_, ok := award.ParseAirline(fl.Field().String())
		return ok
	}); err != nil {
		return err
	}

	return registerRule("cabin", "{0} must be one of economy, premium_economy, business, first", func(fl validator.FieldLevel) bool {
		_, ok := award.ParseCabinClass(fl.Field().String())
		return ok
	})
}

// registerRule adds a custom validation tag together with its English message.
func registerRule(tag, message string, fn validator.Func) error {
	if err := Validate.RegisterValidation(tag, fn); err != nil {
		return err
	}

	return Validate.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, message, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T(tag, fe.Field())
			return msg
		},
	)
}

func ValidateSingleError(req interface{}) error {
	if err := Validate.Struct(req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return errors.New(ve[0].Translate(trans))
		}
		return err
	}
	return nil
}
