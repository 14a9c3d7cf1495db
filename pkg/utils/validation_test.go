package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBaseURL(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      string
		wantErr   bool
		errSubstr string
	}{
		{name: "trims trailing slash", input: " https://api.example.com/ ", want: "https://api.example.com"},
		{name: "plain http", input: "http://localhost:8001", want: "http://localhost:8001"},
		{name: "empty", input: "  ", wantErr: true, errSubstr: "required"},
		{name: "no scheme", input: "localhost:8001", wantErr: true, errSubstr: "scheme"},
		{name: "ftp scheme", input: "ftp://example.com", wantErr: true, errSubstr: "scheme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateBaseURL(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errSubstr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateExportFormat(t *testing.T) {
	got, err := ValidateExportFormat("")
	require.NoError(t, err)
	assert.Equal(t, "json", got)

	got, err = ValidateExportFormat("CSV")
	require.NoError(t, err)
	assert.Equal(t, "csv", got)

	_, err = ValidateExportFormat("xlsx")
	assert.Error(t, err)
}

func TestValidateChannel(t *testing.T) {
	got, err := ValidateChannel(" Email ")
	require.NoError(t, err)
	assert.Equal(t, "email", got)

	_, err = ValidateChannel("sms")
	assert.Error(t, err)
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abc", ShortID("abc"))
	assert.Equal(t, "12345678...", ShortID("1234567890ab"))
}

func TestValidateLimit(t *testing.T) {
	allowed := []int{10, 20, 50, 100}
	assert.NoError(t, ValidateLimit(50, allowed))

	err := ValidateLimit(25, allowed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[10 20 50 100]")
}
