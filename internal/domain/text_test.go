package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasContent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   *string
		want bool
	}{
		{"nil", nil, false},
		{"empty", StringPtr(""), false},
		{"whitespace only", StringPtr(" \t\n "), false},
		{"text", StringPtr("x"), true},
		{"padded text", StringPtr("  x  "), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, HasContent(tt.in))
		})
	}
}

func TestNormalizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"Hallo", "hallo"},
		{"  HALLO  ", "hallo"},
		{"Здравей", "здравей"},
		{"Straße", "straße"},
		{"Über  Alles", "über  alles"},
		{"café", "café"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeText(tt.in), "NormalizeText(%q)", tt.in)
	}
}

func TestNormalizeText_DiacriticsStayDistinct(t *testing.T) {
	t.Parallel()

	assert.NotEqual(t, NormalizeText("schon"), NormalizeText("schön"))
	assert.NotEqual(t, NormalizeText("Straße"), NormalizeText("Strasse"))
}
