package handler

import (
	"context"
	"io"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/destrangis/odre/internal/session"
)

// recordingStore wraps a real store and remembers every session created
// through it, so tests can assert on exactly-one-session properties.
type recordingStore struct {
	session.Store

	mu      sync.Mutex
	created []session.Session
}

func newRecordingStore() *recordingStore {
	return &recordingStore{Store: session.NewMemoryStore(0)}
}

func (r *recordingStore) Create(ctx context.Context, s session.Session) error {
	err := r.Store.Create(ctx, s)
	if err == nil {
		r.mu.Lock()
		r.created = append(r.created, s)
		r.mu.Unlock()
	}
	return err
}

func (r *recordingStore) createdSessions() []session.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]session.Session(nil), r.created...)
}

func readBody(t *testing.T, res *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return string(body)
}
