package web

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// HTTPError carries the status and user-facing message for a failed request.
// Err is only shown outside production.
type HTTPError struct {
	Status  int
	Message string
	Err     error
}

func NewHTTPError(status int, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Message: message, Err: err}
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

type ErrorData struct {
	Status  int
	Message string
	Detail  string
}

// Handle adapts a handler that returns an error. Returned errors are
// rendered by Error.
func (rd *Renderer) Handle(fn func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			rd.Error(w, r, err)
		}
	}
}

// Error renders the error page. The status comes from an HTTPError in the
// chain, otherwise 500.
func (rd *Renderer) Error(w http.ResponseWriter, r *http.Request, err error) {
	data := ErrorData{
		Status:  http.StatusInternalServerError,
		Message: "Something went wrong",
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		data.Status = httpErr.Status
		if httpErr.Message != "" {
			data.Message = httpErr.Message
		}
		if httpErr.Err != nil && !rd.production {
			data.Detail = httpErr.Err.Error()
		}
	} else if !rd.production {
		data.Detail = err.Error()
	}

	if data.Status >= http.StatusInternalServerError {
		rd.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", data.Status,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
	}

	rd.Render(w, r, data.Status, "error", Page{
		Title: http.StatusText(data.Status),
		Data:  data,
	})
}

func (rd *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	rd.Error(w, r, NewHTTPError(http.StatusNotFound, "Page not found", nil))
}

func (rd *Renderer) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	rd.Error(w, r, NewHTTPError(http.StatusMethodNotAllowed, "Method not allowed", nil))
}
