package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		maxLength int
		want      string
	}{
		{
			name:      "short string",
			input:     "hello",
			maxLength: 10,
			want:      "hello",
		},
		{
			name:      "long string",
			input:     "hello world this is a long string",
			maxLength: 10,
			want:      "hello w...",
		},
		{
			name:      "exact length",
			input:     "hello",
			maxLength: 5,
			want:      "hello",
		},
		{
			name:      "multibyte characters",
			input:     "ééééééé",
			maxLength: 5,
			want:      "éé...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateString(tt.input, tt.maxLength)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeString(t *testing.T) {
	assert.Equal(t, "line one line two", NormalizeString("line one\nline `two`"))
}

func TestFormatLabel(t *testing.T) {
	assert.Equal(t, "Enforcement Failed", FormatLabel("enforcement_failed"))
	assert.Equal(t, "Unknown Actor", FormatLabel("unknown_actor"))
}

func TestPluralize(t *testing.T) {
	assert.Equal(t, "record", Pluralize(1, "record", ""))
	assert.Equal(t, "records", Pluralize(0, "record", ""))
	assert.Equal(t, "entries", Pluralize(3, "entry", "entries"))
}
