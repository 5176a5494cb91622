package slug

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// accents transliterates the Spanish characters that show up in flavor
// names so "Sandía Helada" slugs cleanly instead of dropping letters.
var accents = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u",
	"ü", "u", "ñ", "n",
)

// Generate derives the URL slug for a product or flavor name.
//
// Examples:
//   - "Sandía Helada" → "sandia-helada"
//   - "Piña Colada" → "pina-colada"
//   - "Hello   World!" → "hello-world"
func Generate(name string) string {
	s := accents.Replace(strings.ToLower(strings.TrimSpace(name)))

	// Runs of anything non-alphanumeric become a single hyphen.
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
