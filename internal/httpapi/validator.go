package httpapi

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

var errTranslatorNotFound = errors.New("validator: translator not found")

// requestValidator runs struct tag validation on decoded request bodies.
type requestValidator struct {
	validate   *validator.Validate
	translator ut.Translator
	// required maps a json field name to the message key used when it is
	// missing, so clients see the same text the service layer reports.
	required map[string]string
}

func newRequestValidator(required map[string]string) (*requestValidator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	enLang := en.New()
	uni := ut.New(enLang, enLang)
	enTrans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, errTranslatorNotFound
	}
	if err := enTranslations.RegisterDefaultTranslations(validate, enTrans); err != nil {
		return nil, err
	}
	return &requestValidator{validate: validate, translator: enTrans, required: required}, nil
}

// Validate returns nil or a 400 *Error listing every failing field.
func (v *requestValidator) Validate(data any, lang string) error {
	err := v.validate.Struct(data)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return newInternal(err)
	}
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if key, ok := v.required[fe.Field()]; ok && fe.Tag() == "required" {
			messages = append(messages, (&Error{key: key}).Messages(lang)...)
			continue
		}
		messages = append(messages, fe.Translate(v.translator))
	}
	return newValidation(messages)
}
