package api

import "net/http"

const (
	defaultDeletedMessage = "Deleted successfully"
	defaultErrorMessage   = "Internal Server Error"
)

// SuccessEnvelope wraps every successful payload.
type SuccessEnvelope[T any] struct {
	StatusCode int `json:"statusCode"`
	Data       T   `json:"data"`
}

// ErrorEnvelope is the body of every failed response.
type ErrorEnvelope struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// MessageData is the payload of a delete confirmation.
type MessageData struct {
	Message string `json:"message"`
}

func Success[T any](status int, data T) SuccessEnvelope[T] {
	return SuccessEnvelope[T]{StatusCode: status, Data: data}
}

func Failure(status int, message string) ErrorEnvelope {
	return ErrorEnvelope{StatusCode: status, Message: message}
}

// statusText is http.StatusText for the handful of codes the responder emits
// directly, kept in one place so the messages never drift.
func statusText(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Bad Request"
	case http.StatusUnauthorized:
		return "Unauthorized"
	case http.StatusForbidden:
		return "Forbidden"
	case http.StatusNotFound:
		return "Not Found"
	default:
		return defaultErrorMessage
	}
}
