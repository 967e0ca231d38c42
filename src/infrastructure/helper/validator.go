package helper

import (
	"errors"
	"fmt"

	logger "go-mailing-api/src/infrastructure/logger"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type Validator interface {
	GetErrorMsg(fe validator.FieldError) string
}

type validatorHelper struct {
	Logger *logger.Logger
}

func NewValidator(loggerInstance *logger.Logger) Validator {
	return &validatorHelper{Logger: loggerInstance}
}

func (v *validatorHelper) GetErrorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Enter a valid email address"
	case "digits":
		return "Phone number must contain digits only"
	case "min":
		if fe.Kind().String() == "slice" {
			return fmt.Sprintf("Select at least %s item(s)", fe.Param())
		}
		return "Should be at least " + fe.Param() + " characters long"
	case "max":
		return "Should be at most " + fe.Param() + " characters long"
	case "oneof":
		return "Must be one of: " + fe.Param()
	case "eqfield":
		return "Must match " + fe.Param()
	case "gt":
		return "Should be greater than " + fe.Param()
	}
	v.Logger.Debug("No message registered for validation tag", zap.String("tag", fe.Tag()), zap.String("field", fe.Field()))
	return "Unknown error"
}

// RegisterCustomValidations adds the tags used by the request DTOs
func RegisterCustomValidations(v *validator.Validate) error {
	return v.RegisterValidation("digits", validateDigits)
}

func validateDigits(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// RegisterBindingValidations installs the custom tags on gin's request validator
func RegisterBindingValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding validator is not go-playground/validator")
	}
	return RegisterCustomValidations(v)
}
