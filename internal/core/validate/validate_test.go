package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "42", false},
		{"padded", " 42 ", false},
		{"empty", "", true},
		{"zero", "0", true},
		{"negative", "-3", true},
		{"word", "abc", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CallID(tt.input)
			assert.Equal(t, tt.wantErr, err != nil, "CallID(%q) error = %v", tt.input, err)
		})
	}
}

func TestCallIDField(t *testing.T) {
	err := CallIDField("call_id", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "positive number")

	assert.NoError(t, CallIDField("call_id", "9"))
}

func TestVolume(t *testing.T) {
	assert.NoError(t, Volume("0"))
	assert.NoError(t, Volume("100"))
	assert.NoError(t, Volume(" 55 "))
	assert.Error(t, Volume("101"))
	assert.Error(t, Volume("-1"))
	assert.Error(t, Volume("loud"))
}

func TestPhone(t *testing.T) {
	assert.NoError(t, Phone("8 (999) 123-45-67"))
	assert.NoError(t, Phone("9991234567"))
	assert.Error(t, Phone("12345"))
	assert.NoError(t, PhoneField("phone", "+7 999 123 45 67"))
	assert.Error(t, PhoneField("phone", ""))
}
