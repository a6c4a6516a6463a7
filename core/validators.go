package core

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	// custom validation tags & texts
	roleTag  = "role"
	roleText = "unknown role"

	phoneTag   = "phone"
	phoneText  = "invalid phone number"
	phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9\s.-]{5,17}$`)

	difficultyTag  = "difficulty"
	difficultyText = "unknown difficulty level"

	ratingTag  = "rating"
	ratingText = "rating must be between 1 and 5"

	requiredTag     = "required"
	requiredWithTag = "required_with"
	requiredText    = "this field is required"

	// KnownRoles is the backend role vocabulary; registered with the `role` tag.
	KnownRoles = []string{"etudiant", "formateur", "admin", "super_admin"}

	// KnownDifficulties mirrors Formation.difficulty_level.
	KnownDifficulties = []string{"debutant", "intermediaire", "avance"}
)

// NewValidator instantiates the validator and its english translator with all
// custom tags registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	translator, _ := uni.GetTranslator("en")

	validate := validator.New()
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = validate.RegisterValidation(roleTag, oneOfValidation(KnownRoles))
	RegisterCustomTranslation(validate, translator, roleTag, roleText)

	_ = validate.RegisterValidation(difficultyTag, oneOfValidation(KnownDifficulties))
	RegisterCustomTranslation(validate, translator, difficultyTag, difficultyText)

	_ = validate.RegisterValidation(phoneTag, phoneValidation)
	RegisterCustomTranslation(validate, translator, phoneTag, phoneText)

	_ = validate.RegisterValidation(ratingTag, ratingValidation)
	RegisterCustomTranslation(validate, translator, ratingTag, ratingText)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
	RegisterCustomTranslation(validate, translator, requiredWithTag, requiredText, true)

	return validate, translator
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Custom Global Validators

func oneOfValidation(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		val := fl.Field().String()
		for _, a := range allowed {
			if val == a {
				return true
			}
		}
		return false
	}
}

func phoneValidation(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

func ratingValidation(fl validator.FieldLevel) bool {
	n := fl.Field().Int()
	return n >= 1 && n <= 5
}
