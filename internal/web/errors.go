package web

// errors.go provides unified error response handling for the web layer.
//
// Every error is logged with its technical details and request ID, mapped
// to a user message via core.MapError, and then rendered as JSON for /api
// requests or as an HTML page otherwise.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JonMunkholm/hdrgen/internal/core"
	"github.com/JonMunkholm/hdrgen/internal/logging"
	"github.com/JonMunkholm/hdrgen/internal/web/templates"
)

var errRateLimited = errors.New("rate limit exceeded")

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusFor picks the HTTP status for a service error.
func statusFor(err error) int {
	switch {
	case core.IsLoadError(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrTooManyParses):
		return http.StatusServiceUnavailable
	case errors.Is(err, core.ErrUnknownColumn),
		errors.Is(err, core.ErrColumnNotSelected),
		errors.Is(err, core.ErrNoColumns),
		errors.Is(err, core.ErrNoFile),
		errors.Is(err, core.ErrBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes a user-friendly response. Status 0 means
// derive it from the error.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	if statusCode == 0 {
		statusCode = statusFor(err)
	}
	userMsg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	logger.Log(r.Context(), errorLevel(err, statusCode), "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"user_message", core.FormatUserError(err),
	)

	if wantsJSON(r) {
		respondErrorJSON(w, userMsg, statusCode)
		return
	}
	s.renderErrorPage(w, r, userMsg, statusCode)
}

// errorLevel picks the log level for a failed request. Server failures and
// errors without a specific user message are logged as errors.
func errorLevel(err error, statusCode int) slog.Level {
	if statusCode >= http.StatusInternalServerError || !core.IsUserFacing(err) {
		return slog.LevelError
	}
	return slog.LevelWarn
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// renderErrorPage writes a standalone HTML error page.
func (s *Server) renderErrorPage(w http.ResponseWriter, r *http.Request, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)

	page := templates.ErrorPage(alertFor(msg))
	if err := page.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render error page", "error", err)
	}
}

func alertFor(msg core.UserMessage) templates.Alert {
	return templates.Alert{Message: msg.Message, Action: msg.Action, Code: msg.Code}
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	return strings.Contains(r.Header.Get("Content-Type"), "application/json")
}
