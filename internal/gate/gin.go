package gate

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GinProtect adapts the net/http Protect middleware to gin. On an
// allowed decision the identity is additionally bound to the gin context
// under identityParam, so handlers can use c.MustGet(identityParam).
func GinProtect(g *Gate, identityParam string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Bridge handler to allow net/http middleware execution
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Request = r
			if id, ok := IdentityFromContext(r.Context()); ok {
				c.Set(identityParam, id)
			}
			c.Next()
		})

		handler := g.Protect(next)
		handler.ServeHTTP(c.Writer, c.Request)

		// If the gate already wrote the challenge, stop the gin chain
		if c.Writer.Written() {
			c.Abort()
			return
		}
	}
}
