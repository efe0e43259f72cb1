package device

import (
	"net/netip"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Field validators.
//
// Each validator is a total predicate over a single string: it never panics and
// reports false rather than failing loudly. The empty string stands for an
// absent value.

// disallowedCharacters is the fixed symbol denylist for free-text fields.
const disallowedCharacters = `!@#$%^&*()-+=<>?/\|[]{}`

// hostnameTokenPattern accepts alphanumerics and dots only.
const hostnameTokenPattern = `^[A-Za-z0-9.]+$`

var hostnameTokenRegex = regexp.MustCompile(hostnameTokenPattern)

// Pre-computed set for O(1) character lookups.
var disallowedSet map[rune]struct{}

func init() {
	disallowedSet = make(map[rune]struct{}, len(disallowedCharacters))
	for _, r := range disallowedCharacters {
		disallowedSet[r] = struct{}{}
	}
}

// IsBlank reports whether s is empty or contains only whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// HasAllowedCharacters reports whether s contains none of the denylisted symbols.
// An absent value passes: absence is a presence concern, not a character concern.
func HasAllowedCharacters(s string) bool {
	for _, r := range s {
		if _, bad := disallowedSet[r]; bad {
			return false
		}
	}
	return true
}

// WithinLength reports whether the rune count of s lies in [minLen, maxLen].
// An absent value always fails, even when minLen is zero.
func WithinLength(s string, minLen, maxLen int) bool {
	if s == "" {
		return false
	}
	n := utf8.RuneCountInString(s)
	return n >= minLen && n <= maxLen
}

// IsIPAddress reports whether s is an IPv4 or IPv6 literal.
func IsIPAddress(s string) bool {
	_, err := netip.ParseAddr(s)
	return err == nil
}

// IsHostnameToken reports whether s is a non-empty run of letters, digits and dots.
func IsHostnameToken(s string) bool {
	return hostnameTokenRegex.MatchString(s)
}

// IsEnumValue reports whether s is exactly one of allowed (case-sensitive).
func IsEnumValue(s string, allowed ...string) bool {
	for _, a := range allowed {
		if s == a {
			return true
		}
	}
	return false
}

// IsBoolToken reports whether s is "true" or "false", ignoring case.
func IsBoolToken(s string) bool {
	return strings.EqualFold(s, "true") || strings.EqualFold(s, "false")
}

// IsDigitsOnly reports whether s is non-empty and made of ASCII digits only.
func IsDigitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
