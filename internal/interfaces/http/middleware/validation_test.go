package middleware

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidRut(t *testing.T) {
	SetupValidator()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	cases := []struct {
		rut   string
		valid bool
	}{
		{"12.345.678-5", true},
		{"12345678-5", true},
		{"7.000.000-K", false},
		{"12.345.678-9", false},
		{"12345678", false},
		{"abc-5", false},
		{"-5", false},
	}

	for _, tc := range cases {
		err := v.Var(tc.rut, "rut")
		if tc.valid {
			assert.NoError(t, err, tc.rut)
		} else {
			assert.Error(t, err, tc.rut)
		}
	}
}

func TestRutCheckDigit(t *testing.T) {
	assert.Equal(t, "5", rutCheckDigit(12345678))
	assert.Equal(t, "K", rutCheckDigit(20347878))
}
