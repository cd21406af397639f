// Package errhttp maps handler errors to HTTP responses.
//
// Handlers is the exception handler mapping of an Application: handlers can be
// keyed by HTTP status code or by a sentinel error matched with errors.Is.
// Errors with no registered handler fall back to JSON bodies written with
// httpx.JSONError.
package errhttp

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ghuser/apidocs/pkg/httpx"
)

// Handler writes the response for err.
type Handler func(w http.ResponseWriter, r *http.Request, err error)

// HTTPError is an error that carries the response status. Detail is written
// as the error message; Headers are copied onto the response.
type HTTPError struct {
	Status  int
	Detail  string
	Headers http.Header
}

// NewHTTPError returns an HTTPError. An empty detail defaults to the status text.
func NewHTTPError(status int, detail string) *HTTPError {
	if detail == "" {
		detail = http.StatusText(status)
	}
	return &HTTPError{Status: status, Detail: detail}
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Detail)
}

// ValidationError reports request payloads that failed decoding or validation.
// Fields maps a field name to a human-readable message.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (%d fields)", e.Message, len(e.Fields))
}

type errorHandler struct {
	target  error
	handler Handler
}

// Handlers is an exception handler mapping. The zero value is not usable;
// call NewHandlers.
type Handlers struct {
	byStatus map[int]Handler
	byError  []errorHandler
	debug    bool
}

// NewHandlers returns an empty mapping. In debug mode 5xx responses carry the
// underlying error message.
func NewHandlers(debug bool) *Handlers {
	return &Handlers{byStatus: make(map[int]Handler), debug: debug}
}

// HandleStatus registers fn for every error that resolves to status.
func (h *Handlers) HandleStatus(status int, fn Handler) {
	h.byStatus[status] = fn
}

// HandleError registers fn for errors matching target via errors.Is.
// Error handlers are consulted in registration order, before status handlers.
func (h *Handlers) HandleError(target error, fn Handler) {
	h.byError = append(h.byError, errorHandler{target: target, handler: fn})
}

// WriteError dispatches err:
//  1. the first registered sentinel handler that matches
//  2. the status handler for the resolved status, if any
//  3. the default JSON body for that status
//
// ValidationError resolves to 422, HTTPError to its own status, anything else to 500.
func (h *Handlers) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	for _, eh := range h.byError {
		if errors.Is(err, eh.target) {
			eh.handler(w, r, err)
			return
		}
	}

	status := StatusOf(err)
	if fn, ok := h.byStatus[status]; ok {
		fn(w, r, err)
		return
	}
	h.writeDefault(w, status, err)
}

func (h *Handlers) writeDefault(w http.ResponseWriter, status int, err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		httpx.JSON(w, status, map[string]any{
			"error":  ve.Message,
			"fields": ve.Fields,
		})
		return
	}

	var he *HTTPError
	if errors.As(err, &he) {
		for k, vs := range he.Headers {
			for _, v := range vs {
				w.Header().Add(k, v)
			}
		}
		httpx.JSONError(w, status, he.Detail)
		return
	}

	httpx.JSONError(w, status, httpx.SafeError(err, status, !h.debug))
}

// StatusOf returns the HTTP status err resolves to.
func StatusOf(err error) int {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity
	}
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Status
	}
	return http.StatusInternalServerError
}

// Status returns a Handler that writes {"error": err.Error()} with the given
// status. Use it to map domain sentinels:
//
//	handlers.HandleError(domain.ErrItemNotFound, errhttp.Status(http.StatusNotFound))
func Status(status int) Handler {
	return func(w http.ResponseWriter, _ *http.Request, err error) {
		httpx.JSONError(w, status, err.Error())
	}
}
