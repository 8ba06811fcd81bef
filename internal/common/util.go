package common

import "strings"

// WipeByteArray overwrites the contents of b with zeros. It is used to drop
// passwords from memory once they have been sent. A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// BearerToken formats token as an Authorization header value.
func BearerToken(token string) string {
	return BearerPrefix + token
}

// ParseBearerToken extracts the token from an Authorization header value.
// The scheme is matched case-insensitively. ok is false when the header is
// not a non-empty bearer credential.
func ParseBearerToken(header string) (token string, ok bool) {
	if len(header) < len(BearerPrefix) || !strings.EqualFold(header[:len(BearerPrefix)], BearerPrefix) {
		return "", false
	}
	token = strings.TrimSpace(header[len(BearerPrefix):])
	return token, token != ""
}
