package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/destrangis/odre/internal/logger"
)

// Login processes a credential submission. On success exactly one
// session is created and exactly one token attached to the response:
// form flow redirects to the proceed target, JSON flow gets a
// structured body carrying the raw token when no cookie is configured.
func (h *Handler) Login(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.GetOrDefault(ctx)

	sub, err := parseCredentials(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	identity, err := h.verifier.Verify(ctx, sub.Username, sub.Password)
	if err != nil {
		// one response for bad password, unknown user and verifier
		// timeout alike
		log.Warn().Str("username", sub.Username).Msg("login failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	sess, err := h.mintSession(ctx, identity)
	if err != nil {
		log.Error().Err(err).Msg("cannot create session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
		return
	}

	codec := h.gate.Codec()
	codec.Attach(c.Writer, sess)

	log.Info().
		Str("user_id", identity.UserID).
		Str("proceed", sub.Proceed).
		Msg("login succeeded")

	if sub.kind == kindForm && codec.CookieTransport() {
		c.Redirect(http.StatusFound, sub.Proceed)
		return
	}

	body := gin.H{
		"rc":      http.StatusOK,
		"text":    "OK",
		"proceed": sub.Proceed,
	}
	if !codec.CookieTransport() {
		// bearer clients carry the token themselves
		body["token_type"] = "Bearer"
		body["access_token"] = sess.Token
	}
	c.JSON(http.StatusOK, body)
}
