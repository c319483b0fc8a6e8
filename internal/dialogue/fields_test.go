package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPhone(t *testing.T) {
	tests := []struct {
		in    string
		want  string
		valid bool
	}{
		{"555-123-4567", "5551234567", true},
		{"15551234567", "5551234567", true},
		{"05551234567", "5551234567", true},
		{"5551234567", "5551234567", true},
		{"(555) 123 4567", "5551234567", true},
		{"551234567", "0551234567", true},
		{"25551234567", "", false},
		{"12345", "", false},
		{"call me maybe", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ExtractPhone(tt.in)
			assert.Equal(t, tt.valid, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatPhone(t *testing.T) {
	assert.Equal(t, "555-123-4567", FormatPhone("5551234567"))
	assert.Equal(t, "Not provided", FormatPhone("Not provided"))
	assert.Equal(t, "12345", FormatPhone("12345"))
}

func TestExtractName(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"John", "John", true},
		{"my name is john smith", "John", true},
		{"This is MARY.", "Mary", true},
		{"It's alex, thanks", "Alex", true},
		{"i am Priya", "Priya", true},
		{"Itsuki", "Itsuki", true},
		{"my name is", "", false},
		{"J", "", false},
		{"   ", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ExtractName(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractTime(t *testing.T) {
	assert.Equal(t, "6pm", ExtractTime("6pm"))
	assert.Equal(t, "6:30 PM", ExtractTime("around 6:30 PM please"))
	assert.Equal(t, "7", ExtractTime("at 7 tonight"))
	assert.Equal(t, "as soon as possible", ExtractTime("  as soon as possible "))
}
