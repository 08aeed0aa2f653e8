package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/stemsi/codetest-backend/internal/model"
)

// trans is the singleton English translator for validation errors.
var trans ut.Translator

// Setup registers the validator with English translations on Gin's binding engine.
// Call once during application startup.
func Setup() {
	if v, ok := binding.Validator.Engine().(*govalidator.Validate); ok {
		// Use JSON tag name for field names in error messages.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		// Register English translations.
		enLocale := en.New()
		uni := ut.New(enLocale, enLocale)
		trans, _ = uni.GetTranslator("en")
		en_translations.RegisterDefaultTranslations(v, trans)

		v.RegisterStructValidation(uniqueCaseNames, model.Question{})
		_ = v.RegisterTranslation(tagUniqueCaseNames, trans, func(t ut.Translator) error {
			return t.Add(tagUniqueCaseNames, "{0} must have unique names", true)
		}, func(t ut.Translator, fe govalidator.FieldError) string {
			msg, _ := t.T(tagUniqueCaseNames, fe.Field())
			return msg
		})
	}
}

const tagUniqueCaseNames = "unique_case_names"

// uniqueCaseNames rejects a question whose test cases share a name, since
// sample selection and reports address cases by name.
func uniqueCaseNames(sl govalidator.StructLevel) {
	q, ok := sl.Current().Interface().(model.Question)
	if !ok {
		return
	}
	seen := make(map[string]bool, len(q.TestCases))
	for _, tc := range q.TestCases {
		name := strings.TrimSpace(tc.Name)
		if seen[name] {
			sl.ReportError(q.TestCases, "test_cases", "TestCases", tagUniqueCaseNames, "")
			return
		}
		seen[name] = true
	}
}

// TranslateErrors takes a binding/validation error and returns a map of
// field name to a human-readable error message. If the error is not a
// validation error, it returns a single-key map with "detail".
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fe.Field()] = fe.Translate(trans)
		}
		return fields
	}

	// Not a validation error (e.g., JSON syntax error).
	fields["detail"] = err.Error()
	return fields
}

// Bind binds and validates the request body into dst.
// Returns nil on success or a translated field error map on failure.
func Bind(c *gin.Context, dst any) map[string]string {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

// Struct validates v against its binding tags outside of a request, as the
// seeding tool does for TOML test definitions.
func Struct(v any) map[string]string {
	if err := binding.Validator.ValidateStruct(v); err != nil {
		return TranslateErrors(err)
	}
	return nil
}
