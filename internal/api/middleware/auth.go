package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/St1cky1/taskboard/internal/api/respond"
	"github.com/St1cky1/taskboard/internal/entity"
)

type principalKey struct{}

// Authenticator resolves a bearer token to the calling user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (entity.Principal, error)
}

// Auth rejects requests without a valid bearer token and stores the
// principal in the request context.
func Auth(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				respond.Error(w, entity.ErrUnauthenticated)
				return
			}

			p, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				respond.Error(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func WithPrincipal(ctx context.Context, p entity.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the caller stored by Auth; the zero Principal
// when the request was not authenticated.
func PrincipalFrom(ctx context.Context) entity.Principal {
	p, _ := ctx.Value(principalKey{}).(entity.Principal)
	return p
}
