package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/destrangis/odre/internal/auth/credentials"
	"github.com/destrangis/odre/internal/config"
	"github.com/destrangis/odre/internal/gate"
	"github.com/destrangis/odre/internal/handler"
	"github.com/destrangis/odre/internal/logger"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	userDirectory := credentials.NewService(infra.db)

	authGate, err := gate.New(cfg, infra.store)
	if err != nil {
		return nil, nil, err
	}

	authHandler := handler.NewHandler(
		userDirectory,
		userDirectory,
		infra.store,
		authGate,
		cfg,
	)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	// ----------------------------
	// Public routes
	// ----------------------------

	authHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, "<h3>Hello world</h3>")
	})

	// ----------------------------
	// Protected routes
	// ----------------------------

	protected := router.Group("/")
	protected.Use(gate.GinProtect(authGate, cfg.IdentityParam))

	protected.GET("/hello/:name", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, fmt.Sprintf("<p>Hello <b>%s</b></p>", c.Param("name")))
	})

	return router, infra.cleanup, nil
}

// requestLogger puts a request-scoped zerolog logger on the context so
// downstream packages can log with method and path attached.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := log.With().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Logger()

		ctx := logger.WithLogger(c.Request.Context(), reqLog)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
