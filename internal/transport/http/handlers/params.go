package http_handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/nutrition-service/internal/domain"
	"github.com/baechuer/nutrition-service/internal/logger"
	"github.com/baechuer/nutrition-service/internal/transport/http/response"
)

// pathID parses an int64 path parameter. Only non-numeric values are
// rejected; zero and negative ids reach the service and miss like any
// other unknown id.
func pathID(r *http.Request, key string) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.ErrInvalidField(key, "must be an integer")
	}
	return id, nil
}

// writeLookupError renders not-found as an empty 404 and everything else
// through response.WriteError.
func writeLookupError(w http.ResponseWriter, r *http.Request, err error) {
	if domain.IsKind(err, domain.KindNotFound) {
		logger.WithCtx(r.Context()).Debug().Err(err).Str("path", r.URL.Path).Msg("not found")
		response.NotFound(w)
		return
	}
	writeError(w, r, err)
}

// writeError logs server-side failures before rendering them.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.Error
	if !errors.As(err, &de) || de.Kind == domain.KindInternal || de.Kind == domain.KindInfrastructure {
		logger.WithCtx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	response.WriteError(w, r, err)
}
