package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	utils "PumpPal/pkg/utills"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// password must contain at least one letter and one number
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return utils.HasLetter(s) && utils.HasNumber(s)
	})
	return v
}

// validateStruct runs the struct tags of in and folds failures into a
// *ValidationError.
func validateStruct(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if _, seen := fields[name]; seen {
			continue
		}
		fields[name] = fieldMessage(name, fe.Tag(), fe.Param())
	}
	return &ValidationError{Fields: fields}
}

// checkVar validates a single value under the given field name, adding the
// message to fields on failure.
func checkVar(fields map[string]string, name string, value any, tag string) {
	err := validate.Var(value, tag)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fields[name] = fieldMessage(name, verrs[0].Tag(), verrs[0].Param())
		return
	}
	fields[name] = fmt.Sprintf("The %s field is invalid.", humanize(name))
}

func fieldMessage(field, tag, param string) string {
	h := humanize(field)
	switch tag {
	case "required":
		return fmt.Sprintf("The %s field is required.", h)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", h)
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", h, param)
	case "min":
		return fmt.Sprintf("The %s field must be at least %s characters.", h, param)
	case "eqfield":
		return fmt.Sprintf("The %s does not match.", h)
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", h)
	case "url":
		return fmt.Sprintf("The %s field must be a valid URL.", h)
	case "strongpassword":
		return fmt.Sprintf("The %s field must contain at least one letter and one number.", h)
	}
	return fmt.Sprintf("The %s field is invalid.", h)
}

func humanize(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}
