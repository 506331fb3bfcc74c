package catalog

import (
	"errors"
	"unicode"
	"unicode/utf8"
)

// ErrInvalidIdentifier reports an empty identifier reaching categorization.
// Extraction guarantees identifiers are non-empty, so hitting this is an
// internal invariant violation.
var ErrInvalidIdentifier = errors.New("invalid identifier: empty")

// Categorize derives the API category tag for an identifier: the first rune
// mapped to uppercase, the rest unchanged ("sin" -> "Sin", "j0" -> "J0").
// It is pure; the same identifier always yields the same tag. Downstream
// generators key per-family special cases off this tag, e.g. narrowing
// random inputs for the integer-order Bessel family.
func Categorize(ident string) (string, error) {
	if ident == "" {
		return "", ErrInvalidIdentifier
	}
	first, size := utf8.DecodeRuneInString(ident)
	return string(unicode.ToUpper(first)) + ident[size:], nil
}
