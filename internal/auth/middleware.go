package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/grand-thief-cash/todolist/infra/application/components/logging"
)

type identityKey struct{}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFrom(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	return id, ok && id != nil
}

// BearerToken extracts the token of an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// Middleware rejects requests without a valid, unrevoked bearer token before any handler runs.
func Middleware(tm *TokenManager, rv Revoker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			raw := BearerToken(r)
			if raw == "" {
				unauthorized(w, "missing bearer token")
				return
			}
			id, err := tm.Parse(raw)
			if err != nil {
				logging.Debug(ctx, "bearer token rejected", zap.Error(err))
				unauthorized(w, "invalid or expired token")
				return
			}
			if rv != nil {
				revoked, err := rv.IsRevoked(ctx, id.TokenID)
				if err != nil {
					logging.Error(ctx, "token revocation lookup failed", zap.Error(err))
					unauthorized(w, "token could not be verified")
					return
				}
				if revoked {
					unauthorized(w, "token revoked")
					return
				}
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, id)))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="todolist"`)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg, "title": msg})
}
