package response

import (
	"encoding/json"
	"net/http"

	zlog "github.com/rs/zerolog/log"
)

const contentTypeJSON = "application/json; charset=utf-8"

// WriteJSON marshals v before touching the response, so an unencodable
// value turns into a plain 500 instead of a truncated body.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		zlog.Error().Err(err).Msg("response: encode failed")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", contentTypeJSON)
	}
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func OK(w http.ResponseWriter, v any) {
	WriteJSON(w, http.StatusOK, v)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// NotFound is a 404 with no body; clients only get the status.
func NotFound(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNotFound)
}
