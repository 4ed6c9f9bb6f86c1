// Package invite normalizes raw chat identifiers and invite links.
package invite

import (
	"regexp"
	"strings"
)

var (
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,}$`)
	schemeRe   = regexp.MustCompile(`(?i)^https?://(www\.)?`)
)

// CanonicalURL turns a raw identifier (username, URL, invite token) into
// a joinable https URL. The second return value is false when the input
// cannot be classified; callers fall back to the raw value or reject.
func CanonicalURL(raw string) (string, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", false
	}

	// t.me / telegram.me without scheme
	if strings.HasPrefix(v, "t.me/") || strings.HasPrefix(v, "telegram.me/") {
		return "https://" + v, true
	}

	// full URL passes through
	if strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") {
		return v, true
	}

	// @username or bare username
	if strings.HasPrefix(v, "@") || usernameRe.MatchString(v) {
		return "https://t.me/" + strings.TrimLeft(v, "@"), true
	}

	// private invite token: +code or joinchat link
	if strings.HasPrefix(v, "+") || strings.Contains(v, "joinchat") {
		return "https://t.me/" + v, true
	}

	return "", false
}

// CompareToken reduces an invite link to a token suitable for substring
// comparison: scheme and optional www. stripped, trailing slashes
// removed, lower-cased. This is deliberately an approximate matcher,
// not an equality check: a longer invite embedding a shorter stored
// token will match.
func CompareToken(raw string) (string, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", false
	}

	v = schemeRe.ReplaceAllString(v, "")
	v = strings.TrimRight(v, "/")
	return strings.ToLower(v), true
}

// LooksRaw reports whether a stored chat identifier is itself a raw
// invite or URL that still needs resolution to a stable chat id.
func LooksRaw(chatID string) bool {
	return strings.HasPrefix(chatID, "http") ||
		strings.HasPrefix(chatID, "+") ||
		strings.Contains(chatID, "joinchat")
}
