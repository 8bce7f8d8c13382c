package error

import (
	"fmt"
	"net/http"
)

// QueryError wraps a relational store failure. Error() never exposes the cause;
// callers log it through Unwrap or Detail.
type QueryError struct {
	Query string
	Cause error
}

func NewQueryError(query string, cause error) *QueryError {
	return &QueryError{Query: query, Cause: cause}
}

func (err *QueryError) Error() string {
	return "an internal error occurred while processing your request"
}

// Detail returns the internal description for logs.
func (err *QueryError) Detail() string {
	return fmt.Sprintf("query %q failed: %v", err.Query, err.Cause)
}

func (err *QueryError) Unwrap() error {
	return err.Cause
}

func (err *QueryError) ErrCode() string {
	return "QUERY_ERROR"
}

func (err *QueryError) StatusCode() int {
	return http.StatusInternalServerError
}
