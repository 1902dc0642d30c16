package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/destrangis/odre/internal/auth"
	"github.com/destrangis/odre/internal/config"
	"github.com/destrangis/odre/internal/gate"
	"github.com/destrangis/odre/internal/session"
)

// Registrar creates a user with a password credential and returns the
// new user id.
type Registrar interface {
	Register(ctx context.Context, username, password string) (string, error)
}

// Handler owns the pre-installed authentication routes: login, logout,
// register and the current-user endpoint.
type Handler struct {
	verifier  auth.Verifier
	registrar Registrar
	store     session.Store
	gate      *gate.Gate
	cfg       config.Config
}

func NewHandler(
	verifier auth.Verifier,
	registrar Registrar,
	store session.Store,
	g *gate.Gate,
	cfg config.Config,
) *Handler {
	return &Handler{
		verifier:  auth.BoundVerifier(verifier, cfg.VerifierTimeout),
		registrar: registrar,
		store:     store,
		gate:      g,
		cfg:       cfg,
	}
}

// RegisterRoutes installs the auth routes under the configured prefix.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	grp := r.Group(h.cfg.RoutePrefix)

	grp.POST("/login", h.Login)
	grp.POST("/logout", h.Logout)
	if h.registrar != nil {
		grp.POST("/register", h.Register)
	}
	grp.GET("/me", gate.GinProtect(h.gate, h.cfg.IdentityParam), h.Me)
}

// mintSession creates and persists a session for the identity. A token
// collision in the store is retried once with a fresh token.
func (h *Handler) mintSession(ctx context.Context, id *auth.Identity) (session.Session, error) {
	for attempt := 0; ; attempt++ {
		sess, err := session.New(id, h.cfg.SessionLifetime)
		if err != nil {
			return session.Session{}, err
		}

		err = h.store.Create(ctx, sess)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, session.ErrTokenExists) || attempt > 0 {
			return session.Session{}, err
		}
	}
}

// Me returns the identity resolved by the gate for the current request.
func (h *Handler) Me(c *gin.Context) {
	id, ok := gate.IdentityFromContext(c.Request.Context())
	if !ok {
		// unreachable behind GinProtect, but never fail open
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	c.JSON(http.StatusOK, id)
}
