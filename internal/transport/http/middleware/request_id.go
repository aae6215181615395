package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"

	appCtx "github.com/baechuer/nutrition-service/internal/pkg/context"
)

const HeaderXRequestID = "X-Request-Id"

const maxRequestIDLen = 128

// RequestID stores a request id and the client address on the request
// context. An incoming X-Request-Id is kept when it is short printable
// ASCII; otherwise a UUID is minted. The id is echoed on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(HeaderXRequestID))
		if !usableRequestID(id) {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderXRequestID, id)

		ctx := appCtx.WithRequestID(r.Context(), id)
		ctx = appCtx.WithClientIP(ctx, remoteHost(r.RemoteAddr))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func usableRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

// remoteHost strips the port from a RemoteAddr. chi's RealIP may already
// have replaced it with a bare address.
func remoteHost(addr string) string {
	addr = strings.TrimSpace(addr)
	if host, _, err := net.SplitHostPort(addr); err == nil && host != "" {
		return host
	}
	return addr
}
