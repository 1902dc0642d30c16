package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
)

// ErrMalformedRequest covers missing required fields and unsupported
// content types on a login submission.
var ErrMalformedRequest = errors.New("handler: malformed credential submission")

type bodyKind int

const (
	kindForm bodyKind = iota
	kindJSON
)

// credentialSubmission is one parsed login POST. It is ephemeral: built
// once per request, the kind resolved at parse time and never
// re-inspected downstream.
type credentialSubmission struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
	Proceed  string `form:"proceed" json:"proceed"`

	kind bodyKind
}

// parseCredentials reads the submission from a form-encoded or JSON body,
// selected by content type. The proceed target defaults to "/" and is
// constrained to a same-origin relative path.
func parseCredentials(c *gin.Context) (credentialSubmission, error) {
	var sub credentialSubmission

	switch c.ContentType() {
	case "application/json":
		if err := c.ShouldBindJSON(&sub); err != nil {
			return sub, ErrMalformedRequest
		}
		sub.kind = kindJSON
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := c.ShouldBind(&sub); err != nil {
			return sub, ErrMalformedRequest
		}
		sub.kind = kindForm
	default:
		return sub, ErrMalformedRequest
	}

	if sub.Username == "" || sub.Password == "" {
		return sub, ErrMalformedRequest
	}

	sub.Proceed = sanitizeProceed(sub.Proceed)
	return sub, nil
}

// sanitizeProceed keeps the redirect target inside the application.
// Absolute URLs and scheme-relative paths fall back to "/".
func sanitizeProceed(proceed string) string {
	if proceed == "" {
		return "/"
	}
	if !strings.HasPrefix(proceed, "/") || strings.HasPrefix(proceed, "//") {
		return "/"
	}
	return proceed
}
