package gate

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/steinfletcher/apitest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/destrangis/odre/internal/auth"
	"github.com/destrangis/odre/internal/config"
	"github.com/destrangis/odre/internal/session"
)

func testConfig() config.Config {
	return config.Config{
		CookieName:      "odre_session",
		SecureCookies:   false,
		IdentityParam:   "user",
		SessionLifetime: time.Hour,
	}
}

func newTestGate(t *testing.T, cfg config.Config) (*Gate, session.Store) {
	t.Helper()
	store := session.NewMemoryStore(0)
	g, err := New(cfg, store)
	require.NoError(t, err)
	return g, store
}

func mintSession(t *testing.T, store session.Store, id *auth.Identity, lifetime time.Duration) session.Session {
	t.Helper()
	sess, err := session.New(id, lifetime)
	require.NoError(t, err)
	require.NoError(t, store.Create(context.Background(), sess))
	return sess
}

func TestDecideNoToken(t *testing.T) {
	g, _ := newTestGate(t, testConfig())

	r := httptest.NewRequest(http.MethodGet, "/hello/bob", nil)
	d := g.Decide(r.Context(), r)

	assert.False(t, d.Allowed())
	assert.Equal(t, StateUnauthenticated, d.State)
	assert.Equal(t, "/hello/bob", d.Proceed)
	assert.Nil(t, d.Identity)
}

func TestDecideValidToken(t *testing.T) {
	g, store := newTestGate(t, testConfig())
	sess := mintSession(t, store, &auth.Identity{UserID: "u-1", Username: "alice"}, time.Hour)

	r := httptest.NewRequest(http.MethodGet, "/hello/bob", nil)
	r.AddCookie(&http.Cookie{Name: "odre_session", Value: sess.Token})

	d := g.Decide(r.Context(), r)
	require.True(t, d.Allowed())
	assert.Equal(t, "alice", d.Identity.Username)
	assert.Equal(t, "u-1", d.Identity.UserID)
}

func TestDecideUnknownToken(t *testing.T) {
	g, _ := newTestGate(t, testConfig())

	r := httptest.NewRequest(http.MethodGet, "/secret", nil)
	r.Header.Set("Authorization", "Bearer forged-token")

	d := g.Decide(r.Context(), r)
	assert.False(t, d.Allowed())
	assert.Equal(t, StateUnauthenticated, d.State)
}

func TestDecideExpiredToken(t *testing.T) {
	g, store := newTestGate(t, testConfig())

	sess := session.Session{
		Token:     "stale",
		UserID:    "u-1",
		Username:  "alice",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, store.Create(context.Background(), sess))

	r := httptest.NewRequest(http.MethodGet, "/secret", nil)
	r.Header.Set("Authorization", "Bearer stale")

	d := g.Decide(r.Context(), r)
	assert.False(t, d.Allowed())
	assert.Equal(t, StateExpired, d.State)
	assert.Equal(t, "/secret", d.Proceed)
}

type failingStore struct{}

func (failingStore) Create(context.Context, session.Session) error { return fmt.Errorf("store down") }
func (failingStore) Get(context.Context, string) (*session.Session, error) {
	return nil, fmt.Errorf("store down")
}
func (failingStore) Delete(context.Context, string) error { return fmt.Errorf("store down") }

func TestDecideFailsClosedOnStoreError(t *testing.T) {
	g, err := New(testConfig(), failingStore{})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/secret", nil)
	r.Header.Set("Authorization", "Bearer whatever")

	d := g.Decide(r.Context(), r)
	assert.False(t, d.Allowed())
}

func TestProtectInvokesHandlerOnceOnAllowed(t *testing.T) {
	g, store := newTestGate(t, testConfig())
	sess := mintSession(t, store, &auth.Identity{UserID: "u-1", Username: "alice"}, time.Hour)

	var count uint32
	protected := g.Protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddUint32(&count, 1)
		id, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, "alice", id.Username)
		http.Error(w, "OK", http.StatusOK)
	}))

	apitest.Handler(protected).
		Get("/secret").
		Expect(t).
		Status(http.StatusOK).
		End()

	apitest.Handler(protected).
		Get("/secret").
		Header("Authorization", "Bearer "+sess.Token).
		Expect(t).
		Status(http.StatusOK).
		End()

	assert.Equal(t, uint32(1), count, "handler must run only on the allowed request")
}

func TestProtectChallengeCarriesProceedPath(t *testing.T) {
	g, _ := newTestGate(t, testConfig())

	protected := g.Protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("wrapped handler must not run")
	}))

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/hello/bob", nil)
	protected.ServeHTTP(w, r)

	body := w.Body.String()
	assert.Contains(t, body, `name="username"`)
	assert.Contains(t, body, `name="password"`)
	assert.Contains(t, body, `name="proceed" value="/hello/bob"`)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
}

func TestProtectExpiredMatchesNoToken(t *testing.T) {
	g, store := newTestGate(t, testConfig())
	require.NoError(t, store.Create(context.Background(), session.Session{
		Token:     "stale",
		UserID:    "u-1",
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	protected := g.Protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("wrapped handler must not run")
	}))

	plain := httptest.NewRecorder()
	protected.ServeHTTP(plain, httptest.NewRequest(http.MethodGet, "/secret", nil))

	expired := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/secret", nil)
	r.Header.Set("Authorization", "Bearer stale")
	protected.ServeHTTP(expired, r)

	assert.Equal(t, plain.Code, expired.Code)
	assert.Equal(t, plain.Body.String(), expired.Body.String())
}

func TestLoginPageDefaultRender(t *testing.T) {
	page := NewLoginPage("", "")

	html, err := page.Render("/dashboard")
	require.NoError(t, err)
	assert.Contains(t, html, `action="/login"`)
	assert.Contains(t, html, `value="/dashboard"`)
	assert.NotContains(t, html, proceedPlaceholder)
}

func TestLoginPagePrefixedAction(t *testing.T) {
	page := NewLoginPage("", "/auth")

	html, err := page.Render("/")
	require.NoError(t, err)
	assert.Contains(t, html, `action="/auth/login"`)
}

func TestLoginPageEscapesProceed(t *testing.T) {
	page := NewLoginPage("", "")

	html, err := page.Render(`/x"><script>alert(1)</script>`)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>alert(1)</script>")
}

func TestLoginPageFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "login.html")
	require.NoError(t, os.WriteFile(path, []byte(`<form><input name="proceed" value="{0}"/></form>`), 0o600))

	page := NewLoginPage(path, "")
	require.NoError(t, page.Validate())

	html, err := page.Render("/next")
	require.NoError(t, err)
	assert.Contains(t, html, `value="/next"`)
}

func TestLoginPageMissingPlaceholder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "login.html")
	require.NoError(t, os.WriteFile(path, []byte("<form>no marker</form>"), 0o600))

	page := NewLoginPage(path, "")
	assert.ErrorIs(t, page.Validate(), ErrNoProceedPlaceholder)

	_, err := page.Render("/next")
	assert.ErrorIs(t, err, ErrNoProceedPlaceholder)
}

func TestNewRejectsBrokenLoginPage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "login.html")
	require.NoError(t, os.WriteFile(path, []byte("<form>no marker</form>"), 0o600))

	cfg := testConfig()
	cfg.LoginPage = path

	_, err := New(cfg, session.NewMemoryStore(0))
	assert.ErrorIs(t, err, ErrNoProceedPlaceholder)
}
