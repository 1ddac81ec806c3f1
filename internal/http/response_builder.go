// Package http serves the trackers as a JSON API.
//
// This file implements the builder used by every handler to write JSON
// responses and to map domain errors to status codes.

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"lifelog/internal/core"
)

// ErrConfirmationRequired is returned by destructive routes called without
// confirm=true.
var ErrConfirmationRequired = errors.New("confirmation required: repeat the request with confirm=true")

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	data       any
	headers    map[string]string
}

// NewJSONResponse creates a new response builder with default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

// Header adds a custom header to the response.
func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Data sets the value encoded as the body.
func (b *JSONResponseBuilder) Data(v any) *JSONResponseBuilder {
	b.data = v
	return b
}

// Write sends the built response. A nil body with 204 writes nothing.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if b.statusCode == http.StatusNoContent {
		w.WriteHeader(b.statusCode)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	_ = json.NewEncoder(w).Encode(b.data)
}

type errorBody struct {
	Error string `json:"error"`
}

// ErrorResponse creates a {"error": message} response.
func ErrorResponse(statusCode int, message string) *JSONResponseBuilder {
	return NewJSONResponse().Status(statusCode).Data(errorBody{Error: message})
}

func BadRequestError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func NotFoundError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

func UnprocessableEntityError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, message)
}

func InternalServerError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

// MethodNotAllowedError creates a 405 response listing the allowed methods.
func MethodNotAllowedError(allowedMethods string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusMethodNotAllowed, "method not allowed").
		Header("Allow", allowedMethods)
}

// StatusFor maps an error from the services to an HTTP status.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrConfirmationRequired):
		return http.StatusPreconditionRequired
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInvalidID), errors.Is(err, errMalformedBody):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrEmptyTitle),
		errors.Is(err, core.ErrTitleTooLong),
		errors.Is(err, core.ErrTextTooLong),
		errors.Is(err, core.ErrEmptyEntry),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidCategory),
		errors.Is(err, core.ErrInvalidKind),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidCount),
		errors.Is(err, core.ErrDuplicateID):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// FromError builds the error response for err. Internal errors do not leak
// their message.
func FromError(err error) *JSONResponseBuilder {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		return InternalServerError("internal error")
	}
	return ErrorResponse(status, err.Error())
}
