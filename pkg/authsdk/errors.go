package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError is a typed error for any non-success response from the auth
// service. The service answers with a handful of body shapes ({"msg"},
// {"code","error"} and the rate limiter's {"error",...}); all of them
// collapse into this one type.
type APIError struct {
	// StatusCode is the HTTP status code of the response
	StatusCode int

	// Code is a short machine-readable cause when the service sent one
	// (e.g. "rate_limit_exceeded"), empty otherwise
	Code string

	// Message is the human-readable description
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("auth service: %s (%d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("auth service (%d): %s", e.StatusCode, e.Message)
}

// IsRateLimited reports whether the request was turned away by the rate
// limiter. Honor the Retry-After header before retrying.
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// parseErrorResponse turns a non-2xx response body into an *APIError.
// Returns nil for success responses.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}

	// Guard and OAuth rejections: {"msg": "..."}
	var msgBody struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(body, &msgBody); err == nil && msgBody.Msg != "" {
		apiErr.Message = msgBody.Msg
		return apiErr
	}

	// Credential rejections and the rate limiter both use an "error" key
	var errBody struct {
		Code    int    `json:"code"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errBody); err == nil && errBody.Error != "" {
		if errBody.Message != "" {
			// Rate limiter shape: error is the code, message the text
			apiErr.Code = errBody.Error
			apiErr.Message = errBody.Message
		} else {
			apiErr.Message = errBody.Error
		}
		return apiErr
	}

	apiErr.Message = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	return apiErr
}
