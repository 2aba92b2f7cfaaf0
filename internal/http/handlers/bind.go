package handlers

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// BindJSON decodes the request body into out and reports the canonical
// "Missing <field>" message for whatever required field the client left
// out. Field order in the request struct decides which message wins when
// several are missing.
func BindJSON(ctx *gin.Context, out interface{}) bool {
	err := ctx.ShouldBindJSON(out)

	if err != nil {
		RespondBadRequest(ctx, bindErrorMessage(err, out))

		return false
	}

	return true
}

func bindErrorMessage(err error, out interface{}) string {
	var validatorErrors validator.ValidationErrors

	if errors.As(err, &validatorErrors) && len(validatorErrors) > 0 {
		if name := jsonFieldName(out, validatorErrors[0].StructField()); name != "" {
			return "Missing " + name
		}
	}

	// Empty and malformed bodies read the same as a body missing its
	// first required field.
	if name := firstRequiredField(out); name != "" {
		return "Missing " + name
	}

	return "Invalid JSON"
}

func jsonFieldName(out interface{}, structField string) string {
	t := baseStructType(out)

	if t == nil {
		return ""
	}

	sf, ok := t.FieldByName(structField)

	if !ok {
		return ""
	}

	return jsonNameFromStructField(sf)
}

func firstRequiredField(out interface{}) string {
	t := baseStructType(out)

	if t == nil {
		return ""
	}

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)

		binding := sf.Tag.Get("binding")

		if binding == "required" || strings.HasPrefix(binding, "required,") {
			return jsonNameFromStructField(sf)
		}
	}

	return ""
}

func baseStructType(v interface{}) reflect.Type {
	t := reflect.TypeOf(v)

	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t != nil && t.Kind() == reflect.Struct {
		return t
	}

	return nil
}

func jsonNameFromStructField(sf reflect.StructField) string {
	tag := sf.Tag.Get("json")
	if tag == "" {
		return sf.Name
	}

	name, _, _ := strings.Cut(tag, ",")
	if name == "" || name == "-" {
		return sf.Name
	}

	return name
}
