package utils

// ResponseData is the envelope every REST handler answers with.
// Status drives the HTTP status code and is not serialized.
type ResponseData struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Results any    `json:"results,omitempty"`
}

// PanicIfNeeded hands err to the recovery middleware, which maps it to a response.
func PanicIfNeeded(err any) {
	if err != nil {
		panic(err)
	}
}
