package middleware

import (
	"net/http"
	"strings"

	"hotelbox/pkg/client"
	"hotelbox/pkg/logger"
	"hotelbox/pkg/session"
)

const SessionHeader = "X-Session-ID"

// SessionAuth resolves the portal session from the session cookie (or the
// X-Session-ID header) and binds it plus its access token to the request
// context. Paths under one of the public prefixes skip the check.
func SessionAuth(manager *session.Manager, cookieName string, log *logger.Logger, publicPrefixes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublic(r.URL.Path, publicPrefixes) {
				next.ServeHTTP(w, r)
				return
			}

			id := SessionID(r, cookieName)
			if id == "" {
				writeJSONError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			s, ok := manager.Get(id)
			if !ok {
				log.Info("Unknown or expired session",
					"request_id", RequestID(r),
					"path", r.URL.Path,
				)
				writeJSONError(w, http.StatusUnauthorized, "Session expired")
				return
			}

			ctx := session.WithSession(r.Context(), s)
			ctx = client.WithAccessToken(ctx, s.AccessToken())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func SessionID(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	return strings.TrimSpace(r.Header.Get(SessionHeader))
}

func isPublic(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
