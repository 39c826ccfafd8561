package webserver

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// PayloadValidator wires go-playground/validator into echo's c.Validate.
// Field names in validation errors follow the json tag so handlers can
// render per-field messages matching the wire format.
type PayloadValidator struct {
	validate *validator.Validate
}

func NewPayloadValidator() *PayloadValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &PayloadValidator{validate: v}
}

func (pv *PayloadValidator) Validate(i interface{}) error {
	return pv.validate.Struct(i)
}
