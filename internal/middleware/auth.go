package middleware

import (
	"context"
	"net/http"
	"strings"

	"log/slog"

	"github.com/google/uuid"
)

// SessionVerifier validates a bearer token and yields the admin it was
// minted for.
type SessionVerifier interface {
	VerifySessionToken(token string) (uuid.UUID, error)
}

type adminIDKey struct{}

// AdminID returns the authenticated admin id stored by SessionAuth.
func AdminID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(adminIDKey{}).(uuid.UUID)
	return id, ok
}

func SessionAuth(verifier SessionVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				w.Header().Set("WWW-Authenticate", "Bearer")
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			adminID, err := verifier.VerifySessionToken(token)
			if err != nil {
				logger.Warn("session token rejected",
					slog.String("path", r.URL.Path),
					slog.Any("error", err),
				)
				w.Header().Set("WWW-Authenticate", "Bearer")
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), adminIDKey{}, adminID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
