package httpapi

import (
	"context"
	"net/http"
)

// ctxKey keeps context values private to this package.
type ctxKey string

const accountKeyCtxKey ctxKey = "accountKey"

// tokenCookieName is the httpOnly cookie carrying the session token.
const tokenCookieName = "token"

// authenticate resolves the session cookie to an account key and stores it
// on the request context. Requests without a valid token for a live
// account get a 401.
func (s *Server) authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(tokenCookieName)
		if err != nil || cookie.Value == "" {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		key, err := s.inbox.Authenticate(cookie.Value)
		if err != nil {
			s.writeError(r.Context(), w, err)
			return
		}

		ctx := context.WithValue(r.Context(), accountKeyCtxKey, key)
		next(w, r.WithContext(ctx))
	}
}

func accountKeyFromContext(ctx context.Context) string {
	key, _ := ctx.Value(accountKeyCtxKey).(string)
	return key
}
