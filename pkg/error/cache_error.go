package error

import "fmt"

// CacheDegradedError is a non-fatal cache failure. It is logged and counted,
// and the request proceeds as a cache miss. It never reaches a client.
type CacheDegradedError struct {
	Op    string
	Key   string
	Cause error
}

func (err *CacheDegradedError) Error() string {
	return fmt.Sprintf("cache %s %q degraded: %v", err.Op, err.Key, err.Cause)
}

func (err *CacheDegradedError) Unwrap() error {
	return err.Cause
}
