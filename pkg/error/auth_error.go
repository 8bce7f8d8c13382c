package error

import "net/http"

// UnauthenticatedError means no credential was presented at all.
type UnauthenticatedError string

func (err UnauthenticatedError) Error() string {
	return string(err)
}

func (err UnauthenticatedError) ErrCode() string {
	return "UNAUTHENTICATED"
}

func (err UnauthenticatedError) StatusCode() int {
	return http.StatusUnauthorized
}

// InvalidCredentialError covers bad signatures, tampered payloads and expired tokens,
// as well as username/password mismatches on login.
type InvalidCredentialError string

func (err InvalidCredentialError) Error() string {
	return string(err)
}

func (err InvalidCredentialError) ErrCode() string {
	return "INVALID_CREDENTIAL"
}

func (err InvalidCredentialError) StatusCode() int {
	return http.StatusForbidden
}
