package models

import (
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// the admin API expects JSON numbers for prices and values
	decimal.MarshalJSONWithoutQuotes = true
}

// Validate checks a decoded payload against its struct tags. Slices of
// payloads are checked element by element; other kinds pass untouched.
func Validate(v interface{}) error {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Struct:
		return validate.Struct(rv.Interface())
	case reflect.Slice, reflect.Array:
		return validate.Var(rv.Interface(), "dive")
	default:
		return nil
	}
}
