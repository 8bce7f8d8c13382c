package error

import "net/http"

type ValidationError string

func (err ValidationError) Error() string {
	return string(err)
}

func (err ValidationError) ErrCode() string {
	return "VALIDATION_ERROR"
}

func (err ValidationError) StatusCode() int {
	return http.StatusBadRequest
}

// ConflictError is returned when a unique resource (e.g. a username) already exists.
type ConflictError string

func (err ConflictError) Error() string {
	return string(err)
}

func (err ConflictError) ErrCode() string {
	return "CONFLICT_ERROR"
}

func (err ConflictError) StatusCode() int {
	return http.StatusConflict
}
