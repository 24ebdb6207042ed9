// Package http is lupa's JSON API: routing, request parsing, handlers and
// the mapping from domain errors to status codes.
package http

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"lupa/internal/core"
	"lupa/internal/log"
)

// ErrMalformedBody marks a request body that could not be decoded at all.
var ErrMalformedBody = errors.New("malformed request body")

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// JSONResponseBuilder assembles a JSON response.
type JSONResponseBuilder struct {
	statusCode int
	headers    map[string]string
	body       any
}

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

func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Body sets the value encoded as the response. A nil body writes no content.
func (b *JSONResponseBuilder) Body(v any) *JSONResponseBuilder {
	b.body = v
	return b
}

func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if b.body == nil {
		w.WriteHeader(b.statusCode)
		return
	}

	payload, err := json.Marshal(b.body)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"failed to encode response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	_, _ = w.Write(payload)
}

func ErrorResponse(statusCode int, message, field string) *JSONResponseBuilder {
	return NewJSONResponse().Status(statusCode).Body(errorBody{Error: message, Field: field})
}

func BadRequestError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message, "")
}

func NotFoundError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message, "")
}

func MethodNotAllowedError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusMethodNotAllowed, "method not allowed", "")
}

func TooManyRequestsError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded, try again later", "")
}

// writeError maps an error from the service layer to a response. Storage
// and unexpected errors are logged and reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve *core.ValidationError
		nf *core.NotFoundError
		se *core.StorageError
	)
	logger := log.FromContext(r.Context())

	switch {
	case errors.As(err, &ve):
		ErrorResponse(http.StatusUnprocessableEntity, ve.Err.Error(), ve.Field).Write(w)
	case errors.As(err, &nf):
		NotFoundError(nf.Error()).Write(w)
	case errors.Is(err, ErrMalformedBody):
		BadRequestError(err.Error()).Write(w)
	case errors.As(err, &se):
		logger.ErrorContext(r.Context(), "Storage failure",
			log.NewFields().WithError(err, log.ErrorTypeStorage).WithHTTPRequest(r.Method, r.URL.Path).ToSlice()...)
		ErrorResponse(http.StatusInternalServerError, "storage unavailable", "").Write(w)
	default:
		logger.ErrorContext(r.Context(), "Unhandled error",
			log.NewFields().WithError(err, log.ErrorTypeInternal).WithHTTPRequest(r.Method, r.URL.Path).ToSlice()...)
		ErrorResponse(http.StatusInternalServerError, "internal error", "").Write(w)
	}
}
