package common

import "strings"

// WipeByteArray overwrites the contents of the provided byte slice with
// zeros. Useful for removing passwords from memory after use. A nil slice is
// a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// NormalizeEmail canonicalizes an email address for use as a storage key:
// surrounding whitespace is stripped and the address is lowercased.
// "  A@B.com " and "a@b.com" identify the same account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail performs a cheap plausibility check on an address. It is not an
// RFC 5322 validator; the goal is only to reject obviously broken input
// before it becomes a storage key.
func ValidEmail(email string) bool {
	if len(email) < 6 || len(email) > 254 {
		return false
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || at != strings.LastIndex(email, "@") {
		return false
	}
	if email[0] == '.' || email[len(email)-1] == '.' {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}
