package auth

import (
	"net/http"
	"strings"

	jwtauth "route-api/internal/auth"
	"route-api/internal/lib/api"
)

type TokenVerifier interface {
	Verify(token string) (int64, error)
}

// Bearer rejects requests without a valid token and puts the user id into
// the request context. The "Bearer " prefix is optional.
func Bearer(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get("Authorization"))
			if len(token) > 7 && strings.EqualFold(token[:7], "bearer ") {
				token = strings.TrimSpace(token[7:])
			}

			if token == "" {
				api.Error(w, r, http.StatusUnauthorized, "Token required", nil)
				return
			}

			userID, err := verifier.Verify(token)
			if err != nil {
				api.Error(w, r, http.StatusUnauthorized, "Invalid or expired token", nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(jwtauth.WithUserID(r.Context(), userID)))
		})
	}
}
