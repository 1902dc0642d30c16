package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/destrangis/odre/internal/logger"
)

// Logout invalidates the current session, if any, and clears the session
// cookie. Idempotent: a request without a live session still gets 204.
func (h *Handler) Logout(c *gin.Context) {
	ctx := c.Request.Context()

	codec := h.gate.Codec()
	if token := codec.Extract(c.Request); token != "" {
		// best-effort: a dead store must not keep the client logged in
		if err := h.store.Delete(ctx, token); err != nil {
			log := logger.GetOrDefault(ctx)
			log.Warn().Err(err).Msg("logout: session delete failed")
		}
	}

	codec.Clear(c.Writer)
	c.Status(http.StatusNoContent)
}
