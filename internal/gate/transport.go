package gate

import (
	"net/http"
	"regexp"

	"github.com/destrangis/odre/internal/session"
)

var bearerTokenRE = regexp.MustCompile(`^Bearer (\S+)$`)

// Codec determines how session tokens travel over the wire: a named
// cookie when one is configured, otherwise bearer-header-only, in which
// case the login response body carries the raw token.
type Codec struct {
	cookieName string
	cookieOpts session.CookieOptions
}

// NewCodec builds a token codec. An empty cookieName selects bearer-only
// transport. routePrefix scopes the cookie path; empty means the whole app.
func NewCodec(cookieName, routePrefix string, secure bool) *Codec {
	path := routePrefix
	if path == "" {
		path = "/"
	}
	return &Codec{
		cookieName: cookieName,
		cookieOpts: session.CookieOptions{
			Path:     path,
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
		},
	}
}

// CookieTransport reports whether tokens are carried in a cookie.
func (c *Codec) CookieTransport() bool {
	return c.cookieName != ""
}

// Extract reads the session token from the request: a well-formed
// Authorization bearer header wins, then the configured cookie. Returns
// "" when neither is present. The request is never mutated.
func (c *Codec) Extract(r *http.Request) string {
	if groups := bearerTokenRE.FindStringSubmatch(r.Header.Get("Authorization")); len(groups) == 2 {
		return groups[1]
	}

	if c.cookieName != "" {
		if cookie, err := r.Cookie(c.cookieName); err == nil && cookie.Value != "" {
			return cookie.Value
		}
	}

	return ""
}

// Attach puts the session token on the response. With cookie transport a
// cookie is set; with bearer transport nothing is written here and the
// login handler returns the token in its JSON body instead.
func (c *Codec) Attach(w http.ResponseWriter, s session.Session) {
	if c.cookieName == "" {
		return
	}
	session.SetCookie(w, c.cookieName, s.Token, s.ExpiresAt, c.cookieOpts)
}

// Clear removes the session cookie, if cookie transport is configured.
func (c *Codec) Clear(w http.ResponseWriter) {
	if c.cookieName == "" {
		return
	}
	session.ClearCookie(w, c.cookieName, c.cookieOpts)
}
