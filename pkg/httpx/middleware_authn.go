package httpx

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/jakbu/jakbu/pkg/jwtx"
	"github.com/jakbu/jakbu/pkg/slogx"
)

// AuthnMiddleware accepts only unexpired access tokens from v and stores the
// identity id from the subject claim in the request context.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))

			claims, err := v.Verify(raw)
			if err != nil {
				log.Debug("jwt verify failed", "err", err)
				writeBearerError(w, "invalid or expired token")
				return
			}
			if err := claims.ValidateType(jwtx.TypeAccess); err != nil {
				writeBearerError(w, "invalid or expired token")
				return
			}

			id, err := strconv.ParseInt(claims.Subject, 10, 64)
			if err != nil || id <= 0 {
				log.Warn("jwt subject is not an identity id", "sub", claims.Subject)
				writeBearerError(w, "invalid or expired token")
				return
			}

			ctx = contextWithAuth(ctx, id, claims)
			ctx = slogx.WithContext(ctx, log.With("identity_id", id))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func contextWithAuth(ctx context.Context, id int64, c jwtx.Claims) context.Context {
	ctx = WithIdentityID(ctx, id)
	ctx = context.WithValue(ctx, CtxKeyClaims, c)
	return ctx
}

// RFC 6750 style challenge with the JSON error body.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "INVALID_TOKEN", desc)
}
