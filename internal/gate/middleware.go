package gate

import (
	"context"
	"net/http"

	"github.com/destrangis/odre/internal/auth"
)

// unexported, collision-proof context key
type identityContextKeyType struct{}

var identityKey = identityContextKeyType{}

// IdentityFromContext extracts the authenticated identity from context.
func IdentityFromContext(ctx context.Context) (*auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(*auth.Identity)
	return id, ok
}

// WithIdentity returns a context carrying the authenticated identity.
func WithIdentity(ctx context.Context, id *auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// Protect marks a handler as requiring authentication. The wrapped
// handler runs at most once per request and only on an allowed decision,
// with the identity available through IdentityFromContext. Every other
// outcome gets the login challenge.
func (g *Gate) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d := g.Decide(r.Context(), r)
		if !d.Allowed() {
			g.Challenge(w, r, d)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), d.Identity)))
	})
}
