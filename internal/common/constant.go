// Package common contains shared constants and sentinel errors used across
// MedQuery client components.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token on
// outbound requests.
const AuthorizationHeaderName = "Authorization"

// BearerScheme prefixes the token in AuthorizationHeaderName.
const BearerScheme = "Bearer"

// RequestIDHeaderName tags every outbound request with a client-generated id
// so backend logs can be correlated with client logs.
const RequestIDHeaderName = "X-Request-ID"

// UserAgent is sent by the HTTP client on every request.
const UserAgent = "medquery-cli/1.0"
