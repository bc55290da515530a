package passage

import "strings"

var asciiReplacer = strings.NewReplacer(
	"‘", "'",
	"’", "'",
	"‚", "'",
	"“", `"`,
	"”", `"`,
	"„", `"`,
	"–", "-",
	"—", "-",
	"…", "...",
	"\u00a0", " ",
)

// ASCIIQuotes maps typographic quotes, dashes and ellipses to the characters
// found on a standard keyboard.
func ASCIIQuotes(s string) string {
	return asciiReplacer.Replace(s)
}
