package gate

import (
	"context"
	"errors"
	"net/http"

	"github.com/destrangis/odre/internal/auth"
	"github.com/destrangis/odre/internal/config"
	"github.com/destrangis/odre/internal/logger"
	"github.com/destrangis/odre/internal/session"
)

// State classifies a request before the decision is made. Expired is
// answered exactly like Unauthenticated; the distinction exists for logs.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticated
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateExpired:
		return "expired"
	default:
		return "unauthenticated"
	}
}

// Decision is the outcome of the gate for one request: either the caller
// is allowed through with a resolved identity, or it gets a login
// challenge carrying the originally requested path.
type Decision struct {
	State    State
	Identity *auth.Identity // set iff Allowed
	Proceed  string         // original request path, set on a challenge
}

// Allowed reports whether the wrapped handler may run.
func (d Decision) Allowed() bool {
	return d.State == StateAuthenticated
}

// Gate is the per-request interception engine. It holds only its
// configuration and collaborator references; all session state lives in
// the store.
type Gate struct {
	store session.Store
	codec *Codec
	page  *LoginPage
}

// New builds a gate from the application configuration and a session
// store. A configured login page is validated up front.
func New(cfg config.Config, store session.Store) (*Gate, error) {
	page := NewLoginPage(cfg.LoginPage, cfg.RoutePrefix)
	if err := page.Validate(); err != nil {
		return nil, err
	}
	return &Gate{
		store: store,
		codec: NewCodec(cfg.CookieName, cfg.RoutePrefix, cfg.SecureCookies),
		page:  page,
	}, nil
}

// Codec exposes the gate's token codec for the login handler.
func (g *Gate) Codec() *Codec {
	return g.codec
}

// Decide computes the auth decision for one request. It reads the store
// and nothing else: no token is minted, no session touched beyond the
// lazy expiry delete inside the store. Store I/O failures fail closed.
func (g *Gate) Decide(ctx context.Context, r *http.Request) Decision {
	challenge := Decision{State: StateUnauthenticated, Proceed: r.URL.Path}

	token := g.codec.Extract(r)
	if token == "" {
		return challenge
	}

	sess, err := g.store.Get(ctx, token)
	switch {
	case err == nil:
		return Decision{State: StateAuthenticated, Identity: sess.Identity()}
	case errors.Is(err, session.ErrExpired):
		challenge.State = StateExpired
		return challenge
	case errors.Is(err, session.ErrNotFound):
		return challenge
	default:
		// store unreachable: never fail open
		log := logger.GetOrDefault(ctx)
		log.Error().
			Err(err).
			Str("path", r.URL.Path).
			Msg("session lookup failed, failing closed")
		return challenge
	}
}

// Challenge writes the login page response for a denied request, with
// the hidden proceed field pointing at the originally requested path.
// The original method's body is discarded; the response has GET
// semantics regardless of how the request arrived.
func (g *Gate) Challenge(w http.ResponseWriter, r *http.Request, d Decision) {
	log := logger.GetOrDefault(r.Context())
	log.Debug().
		Str("path", r.URL.Path).
		Str("state", d.State.String()).
		Msg("login challenge")

	page, err := g.page.Render(d.Proceed)
	if err != nil {
		log.Error().Err(err).Msg("cannot render login page")
		http.Error(w, "login page unavailable", http.StatusInternalServerError)
		return
	}

	// the challenge is a page, not an error: browsers should render it
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(page))
}
