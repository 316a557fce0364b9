// Package idgen implements ID generation and parsing for tracker records.
//
// Records carry opaque, globally unique IDs (UUIDv7: a millisecond
// timestamp followed by random bits). Issues additionally carry a
// project-scoped human identifier of the form "PREFIX-N": "SO-1", "WEB-42".
package idgen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// MaxPrefixLength is the longest project prefix accepted.
const MaxPrefixLength = 10

// NewID returns a new unique opaque ID.
// IDs generated later sort after earlier ones.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// IssueIdentifier returns the human identifier for the n-th issue of a
// project with the given prefix.
//
//	IssueIdentifier("SO", 1)  → "SO-1"
//	IssueIdentifier("WEB", 42) → "WEB-42"
func IssueIdentifier(prefix string, n int) string {
	return prefix + "-" + strconv.Itoa(n)
}

// ParseIssueIdentifier splits "PREFIX-N" into its prefix and number.
// The split happens at the last dash, so prefixes never contain one after
// NormalizePrefix. Returns ("", 0, false) for anything else.
func ParseIssueIdentifier(s string) (prefix string, n int, ok bool) {
	dash := strings.LastIndex(s, "-")
	if dash <= 0 || dash == len(s)-1 {
		return "", 0, false
	}
	n, err := strconv.Atoi(s[dash+1:])
	if err != nil || n < 1 {
		return "", 0, false
	}
	return s[:dash], n, true
}

// LooksLikeIdentifier reports whether s has the "PREFIX-N" shape.
func LooksLikeIdentifier(s string) bool {
	_, _, ok := ParseIssueIdentifier(s)
	return ok
}

// --- Prefix handling ---

// NormalizePrefix trims whitespace and dashes and upper-cases the result.
//
//	NormalizePrefix(" so- ") → "SO"
//	NormalizePrefix("web")   → "WEB"
func NormalizePrefix(s string) string {
	return strings.ToUpper(strings.Trim(strings.TrimSpace(s), "-"))
}

// ValidatePrefix checks a normalized prefix: non-empty, at most
// MaxPrefixLength characters, letters and digits only, starting with a letter.
func ValidatePrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("prefix cannot be empty")
	}
	if len(prefix) > MaxPrefixLength {
		return fmt.Errorf("prefix %q longer than %d characters", prefix, MaxPrefixLength)
	}
	for i, r := range prefix {
		if i == 0 && !unicode.IsLetter(r) {
			return fmt.Errorf("prefix %q must start with a letter", prefix)
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return fmt.Errorf("prefix %q contains invalid character %q", prefix, r)
		}
	}
	return nil
}
