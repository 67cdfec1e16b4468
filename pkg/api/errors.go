package api

import (
	"errors"
	"net/http"
)

// Error is an application error carrying the status and public message the
// normalizer should report. Err is logged but never sent to the client.
type Error struct {
	Status  int
	Message string
	Err     error
}

func NewError(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func WrapError(status int, err error, message string) *Error {
	return &Error{Status: status, Message: message, Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return http.StatusText(e.Status)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) HTTPStatus() int {
	return e.Status
}

// statusCoder is satisfied by any error that knows its HTTP status.
type statusCoder interface {
	HTTPStatus() int
}

// Normalize resolves the envelope reported for err. A missing or zero status
// becomes 500 and a missing or empty message becomes "Internal Server Error".
func Normalize(err error) ErrorEnvelope {
	status, message := http.StatusInternalServerError, defaultErrorMessage
	if err == nil {
		return Failure(status, message)
	}

	var coder statusCoder
	if errors.As(err, &coder) {
		if s := coder.HTTPStatus(); validStatus(s) {
			status = s
		}
	}
	if m := publicMessage(err); m != "" {
		message = m
	}
	return Failure(status, message)
}

func publicMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// validStatus rejects zero and anything net/http would panic on.
func validStatus(status int) bool {
	return status >= 100 && status <= 999
}
