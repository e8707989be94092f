package http

import (
	"errors"
	"net/http"

	"github.com/jakbu/jakbu/internal/jakbu/federation"
	"github.com/jakbu/jakbu/internal/jakbu/service"
	"github.com/jakbu/jakbu/pkg/httpx"
	"github.com/jakbu/jakbu/pkg/jakbusdk"
	"github.com/jakbu/jakbu/pkg/slogx"
)

// writeServiceError maps service errors onto status codes. Anything
// unrecognised is logged and reported as a bare 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		httpx.WriteError(w, http.StatusBadRequest, jakbusdk.CodeInvalidRequest, ve.Error())
	case errors.Is(err, service.ErrDuplicateKey):
		httpx.WriteError(w, http.StatusConflict, jakbusdk.CodeDuplicateKey, "account id is already in use")
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, jakbusdk.CodeInvalidCredentials, "invalid account id or password")
	case errors.Is(err, service.ErrInvalidToken):
		httpx.WriteError(w, http.StatusUnauthorized, jakbusdk.CodeInvalidToken, "token is invalid or expired")
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, jakbusdk.CodeNotFound, "resource not found")
	case errors.Is(err, service.ErrFederation):
		writeFederationError(w, r, err)
	default:
		slogx.FromContext(r.Context()).Error("request failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, jakbusdk.CodeInternal, "internal server error")
	}
}

func writeFederationError(w http.ResponseWriter, r *http.Request, err error) {
	reason := federation.ReasonMalformedResponse
	if fe, ok := federation.AsError(err); ok {
		reason = fe.Reason
	}
	slogx.FromContext(r.Context()).Warn("federated login failed", "reason", reason, "error", err)

	switch reason {
	case federation.ReasonUpstreamRejected:
		httpx.WriteError(w, http.StatusUnauthorized, jakbusdk.CodeFederationRejected, "provider rejected the login")
	case federation.ReasonNetwork:
		httpx.WriteError(w, http.StatusServiceUnavailable, jakbusdk.CodeFederationUnavailable, "provider is unavailable")
	default:
		httpx.WriteError(w, http.StatusBadGateway, jakbusdk.CodeFederationBadResponse, "provider sent an unexpected response")
	}
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	httpx.WriteError(w, http.StatusBadRequest, jakbusdk.CodeInvalidRequest, msg)
}

// identityID reads the id stored by AuthnMiddleware.
func identityID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := httpx.IdentityIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, jakbusdk.CodeInvalidToken, "missing bearer token")
		return 0, false
	}
	return id, true
}
