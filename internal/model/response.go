package model

import "net/http"

// APIResponse is the envelope every recipe, product and auth endpoint
// responds with, on success and on failure.
type APIResponse struct {
	StatusCode    int      `json:"status_code"`
	IsSuccess     bool     `json:"is_success"`
	ErrorMessages []string `json:"error_messages"`
	Result        any      `json:"result"`
}

// Success builds a successful envelope. status should be a 2xx code.
func Success(status int, result any) APIResponse {
	return APIResponse{
		StatusCode:    status,
		IsSuccess:     true,
		ErrorMessages: []string{},
		Result:        result,
	}
}

// Failure builds a failed envelope. result may be nil or echo the rejected input.
func Failure(status int, result any, messages ...string) APIResponse {
	errs := make([]string, 0, len(messages))
	errs = append(errs, messages...)
	return APIResponse{
		StatusCode:    status,
		IsSuccess:     false,
		ErrorMessages: errs,
		Result:        result,
	}
}

// InternalError builds the envelope for an unhandled fault, keeping the full error text.
func InternalError(err error) APIResponse {
	return Failure(http.StatusInternalServerError, nil, err.Error())
}
