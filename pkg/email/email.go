// Package email derives usable name parts from contact fields, for
// synthesizing guardian volunteer records when an import row carries an
// email but no name.
package email

import (
	"strings"
	"unicode"
)

// DeriveName guesses (given, family) from an email's local part.
// "dana.reyes@example.com" yields ("Dana", "Reyes"). Single-token local
// parts reuse the token for both.
func DeriveName(email string) (string, string) {
	localPart := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		localPart = email[:at]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+' || unicode.IsDigit(r)
	})
	if len(parts) == 0 {
		return "Guardian", "Guardian"
	}

	given := capitalize(parts[0])
	family := given
	if len(parts) > 1 {
		family = capitalize(parts[len(parts)-1])
	}
	return given, family
}

// SplitName splits a full name into (given, family). The family name is
// the last whitespace-separated token; everything before it is the given
// name. A single token is reused for both.
func SplitName(full string) (string, string) {
	fields := strings.Fields(full)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], fields[0]
	default:
		return strings.Join(fields[:len(fields)-1], " "), fields[len(fields)-1]
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
