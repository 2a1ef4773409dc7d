package router

import (
	"net/http"

	"github.com/liftlog/liftlog/internal/pkg/session"
)

func middlewareAuthentication(sessions session.Manager, cookieName string, publicEndpoints map[string]map[string]struct{}) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := matchedRoutePath(r)

			if s, ok := publicEndpoints[r.Method]; ok {
				if _, skip := s[path]; skip {
					next.ServeHTTP(w, r)
					return
				}
			}

			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				writeJSON(w, map[string]string{"message": "Authentication required"}, http.StatusUnauthorized)
				return
			}

			// Invalid and expired sessions are indistinguishable to the
			// client so tokens cannot be probed for liveness.
			identity, err := sessions.Validate(r.Context(), cookie.Value)
			if err != nil {
				writeJSON(w, map[string]string{"message": "Authentication required"}, http.StatusUnauthorized)
				return
			}

			ctx := session.SetAuth(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
