package gate

import (
	"errors"
	"fmt"
	"html"
	"os"
	"strings"
)

// proceedPlaceholder is the marker a login page must contain; it is
// replaced with the originally requested path.
const proceedPlaceholder = "{0}"

// ErrNoProceedPlaceholder means a configured login page does not contain
// the {0} marker. This is an operator mistake and fails loudly instead of
// silently serving a page that loses the proceed target.
var ErrNoProceedPlaceholder = errors.New("gate: login page missing {0} placeholder")

const defaultLoginHTML = `<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="utf-8">
    <title>LOGIN</title>
  </head>
  <body>
    <form action="%s/login" method="post">
      <div class="container">
        <label for="uname"><b>Username</b></label>
        <input type="text" placeholder="Enter Username" name="username" required/>

        <label for="password"><b>Password</b></label>
        <input type="password" placeholder="Enter Password" name="password" required/>

        <input type="hidden" name="proceed" value="{0}" />

        <button type="submit">Login</button>
      </div>
    </form>
  </body>
</html>
`

// LoginPage renders the login challenge. When path is empty the built-in
// form is used; otherwise the file is re-read on every challenge so
// operators can edit it without a restart.
type LoginPage struct {
	path        string
	defaultPage string
}

func NewLoginPage(path, routePrefix string) *LoginPage {
	return &LoginPage{
		path:        path,
		defaultPage: fmt.Sprintf(defaultLoginHTML, routePrefix),
	}
}

// Validate checks a configured page up front so a missing placeholder
// surfaces at startup rather than on the first challenge.
func (p *LoginPage) Validate() error {
	if p.path == "" {
		return nil
	}
	page, err := os.ReadFile(p.path)
	if err != nil {
		return fmt.Errorf("gate: login page: %w", err)
	}
	if !strings.Contains(string(page), proceedPlaceholder) {
		return ErrNoProceedPlaceholder
	}
	return nil
}

// Render returns the login page HTML with the proceed placeholder
// substituted with the given path.
func (p *LoginPage) Render(proceed string) (string, error) {
	page := p.defaultPage
	if p.path != "" {
		raw, err := os.ReadFile(p.path)
		if err != nil {
			return "", fmt.Errorf("gate: login page: %w", err)
		}
		page = string(raw)
	}

	if !strings.Contains(page, proceedPlaceholder) {
		return "", ErrNoProceedPlaceholder
	}

	return strings.ReplaceAll(page, proceedPlaceholder, html.EscapeString(proceed)), nil
}
