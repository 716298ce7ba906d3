package http

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/service"
	"github.com/aussiebroadwan/taskboard/pkg/httpx"
)

// tokenAuthenticator adapts TokenService to the httpx middleware.
type tokenAuthenticator struct {
	tokens *service.TokenService
}

func (a tokenAuthenticator) Authenticate(ctx context.Context, raw string) (httpx.Principal, error) {
	actor, err := a.tokens.Authenticate(ctx, raw)
	if err != nil {
		return httpx.Principal{}, err
	}
	return httpx.Principal{
		Subject: actor.UserID,
		TokenID: actor.TokenID,
		Roles:   actor.Roles.Names(),
	}, nil
}

// actorFrom rebuilds the Actor resolved by AuthnMiddleware. Handlers behind
// the middleware always have one.
func actorFrom(r *http.Request) (domain.Actor, bool) {
	p, ok := httpx.PrincipalFromContext(r.Context())
	if !ok {
		return domain.Actor{}, false
	}
	return domain.NewActor(p.Subject, p.TokenID, p.Roles), true
}

func writeUnauthenticated(w http.ResponseWriter) {
	httpx.WriteError(w, http.StatusUnauthorized, httpx.ErrCodeUnauthenticated, "Unauthenticated.", nil)
}
