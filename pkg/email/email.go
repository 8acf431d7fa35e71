// Package email derives display values from email addresses.
package email

import (
	"strings"
	"unicode"
)

// DisplayName builds a name from the local part of an address, splitting on
// dots, underscores, hyphens and plus signs: "jo.bloggs@x" gives
// "Jo Bloggs". It returns "" when nothing usable is left.
func DisplayName(address string) string {
	local := strings.TrimSpace(address)
	if at := strings.IndexByte(local, '@'); at >= 0 {
		local = local[:at]
	}
	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	for i, p := range parts {
		parts[i] = capitalize(strings.ToLower(p))
	}
	return strings.Join(parts, " ")
}

func capitalize(s string) string {
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
