// Package forms binds and validates the raw fields submitted by HTML forms
// and JSON clients.
//
// Validation failures are data, not Go errors: they come back as an Errors
// map keyed by field name so a page can be re-rendered with the messages
// next to the fields that caused them.
package forms

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"reflect"
	"strings"

	"yatube/app/models"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// NonField is the Errors key for messages that belong to the whole form.
const NonField = "__all__"

// Errors maps a field name to its validation messages.
type Errors map[string][]string

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// Get returns the first message for field, or "".
func (e Errors) Get(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

func (e Errors) Any() bool {
	return len(e) > 0
}

var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ = uni.GetTranslator("en")

	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return models.ValidUsername(fl.Field().String())
	})

	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		panic(fmt.Sprintf("forms: register translations: %v", err))
	}
	registerMessage("required", "This field is required.")
	registerMessage("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	registerMessage("max", "Ensure this value has at most {0} characters.")
	registerMessage("min", "Ensure this value has at least {0} characters.")
}

func registerMessage(tag, text string) {
	err := validate.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, text, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, err := ut.T(tag, fe.Param())
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
	if err != nil {
		panic(fmt.Sprintf("forms: register %q message: %v", tag, err))
	}
}

// check runs the struct tags of form and collects translated messages into errs.
func check(form interface{}, errs Errors) {
	err := validate.Struct(form)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs.Add(NonField, err.Error())
		return
	}
	for _, fe := range fieldErrs {
		errs.Add(fe.Field(), fe.Translate(trans))
	}
}

// ValuesFromJSON decodes a flat JSON object into form values. Numbers and
// null are accepted so that {"group": 3} and {"group": null} work.
func ValuesFromJSON(r io.Reader) (url.Values, error) {
	var raw map[string]interface{}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	values := url.Values{}
	for key, v := range raw {
		switch v := v.(type) {
		case nil:
			values.Set(key, "")
		case string:
			values.Set(key, v)
		case float64:
			values.Set(key, fmt.Sprintf("%v", v))
		case bool:
			values.Set(key, fmt.Sprintf("%t", v))
		default:
			return nil, fmt.Errorf("invalid JSON: field %q must be a string or number", key)
		}
	}
	return values, nil
}
