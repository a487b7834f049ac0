package middleware

import (
	"reflect"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var setupValidatorOnce sync.Once

// SetupValidator configures gin's binding validator: error messages report
// JSON field names, and the custom "rut" tag checks Chilean tax IDs.
func SetupValidator() {
	setupValidatorOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
		_ = v.RegisterValidation("rut", validRut)
	})
}

// validRut validates a Chilean RUT (e.g. "12.345.678-5") using the
// modulo 11 check digit. Dots are optional, the dash is not.
func validRut(fl validator.FieldLevel) bool {
	raw := strings.ReplaceAll(fl.Field().String(), ".", "")
	body, dv, found := strings.Cut(strings.ToUpper(raw), "-")
	if !found || body == "" || len(dv) != 1 {
		return false
	}
	for _, r := range body {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	n, err := strconv.Atoi(body)
	if err != nil || n <= 0 {
		return false
	}
	return dv == rutCheckDigit(n)
}

func rutCheckDigit(n int) string {
	sum, factor := 0, 2
	for n > 0 {
		sum += (n % 10) * factor
		n /= 10
		if factor++; factor > 7 {
			factor = 2
		}
	}
	switch rem := 11 - sum%11; rem {
	case 11:
		return "0"
	case 10:
		return "K"
	default:
		return strconv.Itoa(rem)
	}
}
