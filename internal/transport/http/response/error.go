package response

import (
	"errors"
	"net/http"

	"github.com/baechuer/nutrition-service/internal/domain"
	appCtx "github.com/baechuer/nutrition-service/internal/pkg/context"
)

// ErrorBody is the envelope of every JSON error: {"error":{...}}.
type ErrorBody struct {
	Error ErrorPayload `json:"error"`
}

type ErrorPayload struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Meta      map[string]string `json:"meta,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

var kindStatus = map[domain.ErrKind]int{
	domain.KindValidation:     http.StatusBadRequest,
	domain.KindUnauthorized:   http.StatusUnauthorized,
	domain.KindNotFound:       http.StatusNotFound,
	domain.KindConflict:       http.StatusConflict,
	domain.KindRateLimited:    http.StatusTooManyRequests,
	domain.KindNotImplemented: http.StatusNotImplemented,
	domain.KindInfrastructure: http.StatusServiceUnavailable,
	domain.KindInternal:       http.StatusInternalServerError,
}

// StatusFromKind maps an error kind to its HTTP status; unknown kinds are 500.
func StatusFromKind(kind domain.ErrKind) int {
	if s, ok := kindStatus[kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// WriteError renders err as an ErrorBody. Anything that is not a
// *domain.Error is reported as a bare internal_error.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, payload := describe(err)
	payload.RequestID = appCtx.GetRequestID(r.Context())
	WriteJSON(w, status, ErrorBody{Error: payload})
}

func describe(err error) (int, ErrorPayload) {
	var de *domain.Error
	if !errors.As(err, &de) {
		return http.StatusInternalServerError, ErrorPayload{Code: "internal_error", Message: "internal error"}
	}
	return StatusFromKind(de.Kind), ErrorPayload{Code: de.Code, Message: de.Message, Meta: de.Meta}
}
