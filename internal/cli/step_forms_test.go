package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNumber(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"", true},
		{"  ", true},
		{"72.5", true},
		{"0", false},
		{"-3", false},
		{"abc", false},
		{"NaN", false},
		{"nan", false},
		{"Inf", false},
		{"+Inf", false},
		{"-Inf", false},
		{"1e400", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			err := validateNumber(tt.in)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestParseNumber_DropsNonFinite(t *testing.T) {
	assert.Nil(t, parseNumber("NaN"))
	assert.Nil(t, parseNumber("+Inf"))
	assert.Nil(t, parseNumber(""))

	v := parseNumber(" 180 ")
	require.NotNil(t, v)
	assert.InDelta(t, 180, *v, 0.001)
}
