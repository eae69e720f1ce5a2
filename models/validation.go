package models

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once
var registerErr error

// RegisterValidators installs the custom rules used by the binding tags on
// gin's shared validator and makes error namespaces use JSON field names.
// Safe to call more than once.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin binding engine is not a go-playground validator")
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		registerErr = v.RegisterValidation("pokemontype", func(fl validator.FieldLevel) bool {
			return slices.Contains(PokemonTypes, fl.Field().String())
		})
	})
	return registerErr
}

// Validate runs the binding rules against p outside of a request, e.g. when
// seeding from a file.
func (p *Pokemon) Validate() error {
	if err := RegisterValidators(); err != nil {
		return err
	}
	return binding.Validator.ValidateStruct(p)
}

// ValidationMessage turns a binding or validation error into the message
// returned to clients. Non-validation errors are reported as invalid input.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid input: " + err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s: %s", fieldPath(fe), ruleMessage(fe)))
	}
	return "Pokemon validation failed: " + strings.Join(parts, ", ")
}

// fieldPath drops the root struct name from the namespace ("Pokemon.name.english").
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must have at most " + fe.Param() + " entries"
	case "pokemontype":
		return fmt.Sprintf("%q is not a valid pokemon type", fe.Value())
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}
