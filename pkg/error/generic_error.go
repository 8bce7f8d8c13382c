package error

// GenericError is implemented by every error kind that maps onto an HTTP outcome.
type GenericError interface {
	Error() string
	ErrCode() string
	StatusCode() int
}
