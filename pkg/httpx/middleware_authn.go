package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/taskboard/pkg/slogx"
)

// Authenticator resolves a raw bearer token into a Principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (Principal, error)
}

// AuthnMiddleware rejects requests without a valid bearer token and stores
// the resolved Principal in the request context.
func AuthnMiddleware(a Authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := BearerToken(r)
			if !ok {
				writeBearerError(w, "missing bearer token")
				return
			}

			p, err := a.Authenticate(ctx, raw)
			if err != nil {
				log.Info("bearer authentication failed", "err", err)
				writeBearerError(w, "invalid or revoked token")
				return
			}

			ctx = slogx.WithUserID(ctx, p.Subject)
			ctx = ContextWithPrincipal(ctx, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from the Authorization header. Websocket
// upgrade requests may pass it as the access_token query parameter instead,
// since browsers cannot set headers on them.
func BearerToken(r *http.Request) (string, bool) {
	if authz := r.Header.Get("Authorization"); authz != "" {
		scheme, token, found := strings.Cut(authz, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") {
			return "", false
		}
		token = strings.TrimSpace(token)
		return token, token != ""
	}

	if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
		if token := r.URL.Query().Get("access_token"); token != "" {
			return token, true
		}
	}
	return "", false
}

// writeBearerError follows RFC 6750 for the header and the service envelope
// for the body.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, ErrCodeUnauthenticated, "Unauthenticated.", nil)
}
