package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"notesapp/internal/apperr"
	"notesapp/internal/respond"
)

// Verifier resolves a raw bearer token to an identity.
type Verifier interface {
	Verify(token string) (Identity, error)
}

// RequireAuth rejects requests without a valid bearer token with 401 and
// never calls next for them. Accepted requests carry the verified Identity
// in their context.
func RequireAuth(v Verifier, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				respond.Error(w, r, log, "authenticate", apperr.NewUnauthorized("Authorization header is missing", nil))
				return
			}

			scheme, token, ok := strings.Cut(header, " ")
			token = strings.TrimSpace(token)
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				respond.Error(w, r, log, "authenticate", apperr.NewUnauthorized("Authorization header format must be Bearer {token}", nil))
				return
			}

			id, err := v.Verify(token)
			if err != nil {
				if !apperr.Is(err, apperr.Unauthorized) {
					err = apperr.NewUnauthorized("Invalid or expired token", err)
				}
				respond.Error(w, r, log, "authenticate", err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}
