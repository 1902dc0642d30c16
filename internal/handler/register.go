package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/destrangis/odre/internal/auth"
	"github.com/destrangis/odre/internal/auth/credentials"
	"github.com/destrangis/odre/internal/logger"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates a user with a password credential and logs it in
// right away, minting a session exactly like Login does.
func (h *Handler) Register(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.GetOrDefault(ctx)

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	userID, err := h.registrar.Register(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, credentials.ErrAlreadyRegistered) {
			c.JSON(http.StatusConflict, gin.H{"error": "account already exists"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity := &auth.Identity{UserID: userID, Username: req.Username}

	sess, err := h.mintSession(ctx, identity)
	if err != nil {
		log.Error().Err(err).Msg("cannot create session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
		return
	}

	codec := h.gate.Codec()
	codec.Attach(c.Writer, sess)

	body := gin.H{"rc": http.StatusCreated, "text": "registered"}
	if !codec.CookieTransport() {
		body["token_type"] = "Bearer"
		body["access_token"] = sess.Token
	}
	c.JSON(http.StatusCreated, body)
}
