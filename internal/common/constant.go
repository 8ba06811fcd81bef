// Package common contains shared constants and sentinel errors used across
// gymadmin components.
package common

const (
	// AuthorizationHeaderName carries the bearer credential on outbound requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the token in the Authorization header value.
	BearerPrefix = "Bearer "

	// RequestIDHeaderName tags every request so server logs can be correlated.
	RequestIDHeaderName = "X-Request-ID"

	// AccessTokenKey is the fixed name under which the credential is persisted.
	AccessTokenKey = "access_token"

	// AdminEmailKey is the fixed name of the logged-in administrator's email.
	AdminEmailKey = "admin_email"
)
