package httpapi

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidSymbol rejects input that cannot be an HGNC gene symbol. Its
// text is the wire error message.
var ErrInvalidSymbol = errors.New("Invalid HGNC gene symbol")

var (
	// Symbols start with a letter and run up to 20 characters of
	// letters, digits, hyphens and underscores.
	symbolPattern = regexp.MustCompile(`^[A-Z][A-Z0-9\-_]{0,19}$`)

	numericPattern = regexp.MustCompile(`^[0-9]+$`)
)

// SanitizeSymbol trims and uppercases raw and validates the result as a
// plausible HGNC gene symbol.
func SanitizeSymbol(raw string) (string, error) {
	symbol := strings.ToUpper(strings.TrimSpace(raw))
	if symbol == "" {
		return "", ErrInvalidSymbol
	}
	if numericPattern.MatchString(symbol) {
		return "", ErrInvalidSymbol
	}
	if !symbolPattern.MatchString(symbol) {
		return "", ErrInvalidSymbol
	}
	return symbol, nil
}
