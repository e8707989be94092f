package httpx

import (
	"context"
	"strconv"
)

type ctxKey string

const (
	CtxKeyIdentityID ctxKey = "identity_id"
	CtxKeyClaims     ctxKey = "claims"
)

// IdentityIDFromContext returns the authenticated identity id set by
// AuthnMiddleware.
func IdentityIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(CtxKeyIdentityID).(int64)
	return id, ok && id > 0
}

// WithIdentityID stores id in ctx. Tests use it to skip token handling.
func WithIdentityID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, CtxKeyIdentityID, id)
}

func identityKey(ctx context.Context) string {
	if id, ok := IdentityIDFromContext(ctx); ok {
		return strconv.FormatInt(id, 10)
	}
	return ""
}
