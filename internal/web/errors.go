package web

// errors.go turns handler errors into responses.
//
// Every error is logged with its technical detail and the request ID, then
// mapped through core.MapError to a message and support code. API requests
// get JSON; browser requests get an HTML page.

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/LovedOnes/internal/core"
	"github.com/JonMunkholm/LovedOnes/internal/images"
	"github.com/JonMunkholm/LovedOnes/internal/logging"
	"github.com/JonMunkholm/LovedOnes/internal/web/templates"
)

var errRateLimited = errors.New("rate limit exceeded")

// ErrorResponse is the JSON body of an API error.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Action  string   `json:"action,omitempty"`
	Code    string   `json:"code"`
	Fields  []string `json:"fields,omitempty"`
}

// respondError logs err and writes the user-facing version of it.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	msg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", msg.Code,
	}
	if statusCode >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request error", attrs...)
	}

	if wantsJSON(r) {
		resp := ErrorResponse{
			Error:   msg.Message,
			Message: msg.Message,
			Action:  msg.Action,
			Code:    msg.Code,
		}
		var ve *core.ValidationError
		if errors.As(err, &ve) {
			resp.Fields = ve.Fields
		}
		writeJSON(w, r, statusCode, resp)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	if rerr := templates.ErrorPage(msg.Message, msg.Action, msg.Code).Render(r.Context(), w); rerr != nil {
		logger.Warn("render error page", "error", rerr)
	}
}

// statusFor picks the HTTP status for an error returned by the service.
func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes), errors.Is(err, images.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case core.IsValidationError(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrRecordNotFound),
		errors.Is(err, core.ErrIndexOutOfRange),
		errors.Is(err, images.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, images.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, core.ErrImagesDisabled), errors.Is(err, images.ErrOutsideDir):
		return http.StatusBadRequest
	case errors.Is(err, images.ErrBusy):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// wantsJSON reports whether the client should get a JSON error.
func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	return strings.Contains(r.Header.Get("Content-Type"), "application/json")
}
