package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	apperrors "github.com/SezginYurdakul/catering-api/pkg/errors"
)

var (
	phoneRegex   = regexp.MustCompile(`^\+?[0-9\s\-()]{6,20}$`)
	zipcodeRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 \-]{1,8}[A-Za-z0-9]$`)
)

// Register adds the custom rules and reports fields under their json names.
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonName)

	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("failed to register phone validation: %w", err)
	}

	if err := v.RegisterValidation("zipcode", func(fl validator.FieldLevel) bool {
		return zipcodeRegex.MatchString(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("failed to register zipcode validation: %w", err)
	}

	// required accepts whitespace-only strings; names are trimmed before
	// they are stored.
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return fmt.Errorf("failed to register notblank validation: %w", err)
	}
	return nil
}

// RegisterGin installs the rules on gin's binding engine.
func RegisterGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}
	return Register(v)
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// Translate turns a binding failure into a validation AppError with one
// entry per offending field.
func Translate(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]apperrors.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, apperrors.FieldError{
				Field:   fe.Field(),
				Message: message(fe),
			})
		}
		return apperrors.NewValidation("validation failed", fields...)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return apperrors.InvalidField(field, fmt.Sprintf("must be of type %s", typeErr.Type))
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return apperrors.InvalidField("body", "request body must be valid JSON")
	}

	return apperrors.InvalidField("body", err.Error())
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "email":
		return "must be a valid email address"
	case "phone":
		return "must be a valid phone number"
	case "zipcode":
		return "must be a valid zip code"
	case "iso3166_1_alpha2":
		return "must be a two-letter ISO country code"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	default:
		return fmt.Sprintf("failed on the %s rule", fe.Tag())
	}
}
