package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"shareit/internal/config"
)

// HTTPAuth checks the shared key the gateway attaches to every forwarded
// call. Probes stay open so orchestrators can reach them without the key.
type HTTPAuth struct {
	header string
	key    []byte
}

func NewHTTPAuth(cfg config.InternalAuth) *HTTPAuth {
	header := strings.TrimSpace(cfg.Header)
	if header == "" {
		header = "x-api-key"
	}
	return &HTTPAuth{header: header, key: []byte(cfg.Key)}
}

func (a *HTTPAuth) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(a.key) == 0 || isProbe(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		provided := strings.TrimSpace(r.Header.Get(a.header))
		if provided == "" {
			writeError(w, http.StatusUnauthorized, "missing api key header")
			return
		}
		if subtle.ConstantTimeCompare(a.key, []byte(provided)) != 1 {
			writeError(w, http.StatusUnauthorized, "invalid api key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func isProbe(path string) bool {
	return path == "/healthz" || path == "/readyz"
}
