package web

// errors.go turns handler errors into responses.
//
// Every error is logged with the request id and its technical text, then
// mapped with core.MapError to a message the user can act on. API requests
// get JSON, the editor's fetch calls get an HTML alert fragment.

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/ingest"
	"github.com/JonMunkholm/roster/internal/logging"
	"github.com/JonMunkholm/roster/internal/session"
	"github.com/JonMunkholm/roster/internal/store"
	"github.com/JonMunkholm/roster/internal/web/templates"
)

var errRateLimited = core.MapError(errors.New("rate limit exceeded"))

// ErrorResponse is the JSON body of an error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusFor picks the HTTP status for an error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrRecordInvalid), errors.Is(err, session.ErrBulkTooSmall),
		errors.Is(err, store.ErrAgeOutOfRange):
		return http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrUnknownField), errors.Is(err, session.ErrPageOutOfRange),
		errors.Is(err, ingest.ErrEmptyFile), errors.Is(err, ingest.ErrUnknownHeader),
		errors.Is(err, errNoFile), errors.Is(err, errInvalidBody):
		return http.StatusBadRequest
	case errors.Is(err, ingest.ErrTooManyRecords):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, session.ErrTooManyLoads):
		return http.StatusServiceUnavailable
	case strings.Contains(err.Error(), "parse csv"):
		return http.StatusBadRequest
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}

// respondError logs err and writes the mapped user message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	userMsg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request rejected", attrs...)
	}

	if wantsJSON(r) {
		respondErrorJSON(w, userMsg, status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	templates.ErrorAlert(userMsg.Message, userMsg.Action, userMsg.Code).Render(r.Context(), w)
}

func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// wantsJSON reports whether the client expects a JSON error.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/api/")
}
