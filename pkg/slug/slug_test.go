package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain product name", "Cloudbar 6000", "cloudbar-6000"},
		{"all upper case", "MANGO ICE", "mango-ice"},
		{"accented flavor", "Sandía Helada", "sandia-helada"},
		{"tilde n", "Piña Colada", "pina-colada"},
		{"accented o", "Limón Menta", "limon-menta"},
		{"diaeresis", "Güero", "guero"},
		{"punctuation stripped", "Hello!!! World???", "hello-world"},
		{"symbols become separators", "foo@bar#baz", "foo-bar-baz"},
		{"currency", "price: $100", "price-100"},
		{"ampersand", "one & two", "one-two"},
		{"surrounding whitespace", "   hello world   ", "hello-world"},
		{"interior whitespace run", "hello \t\tworld", "hello-world"},
		{"hyphen runs collapse", "a---b", "a-b"},
		{"spaced hyphens collapse", "a - - b", "a-b"},
		{"no leading or trailing hyphens", "!hello!", "hello"},
		{"single letter", "a", "a"},
		{"digits only", "123", "123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Generate(tt.input))
		})
	}
}

func TestGenerate_EmptyResults(t *testing.T) {
	for _, input := range []string{"", "   ", "!!!"} {
		assert.Empty(t, Generate(input), "input %q", input)
	}
}
