package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(store Store) *Manager {
	return NewManager(store, Config{Secret: "test-secret", TTL: time.Hour})
}

func requestWithCookies(cookies []*http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}

func TestManagerSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(NewMemoryStore(time.Hour, time.Minute))

	sess := New()
	sess.UserID = "user-1"
	sess.AddFlash("hello")

	w := httptest.NewRecorder()
	require.NoError(t, m.Save(ctx, w, sess))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, DefaultCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	loaded := m.Load(requestWithCookies(cookies))
	assert.Equal(t, sess.ID, loaded.ID)
	assert.Equal(t, "user-1", loaded.UserID)
	assert.True(t, loaded.Authenticated())
	assert.Equal(t, []string{"hello"}, loaded.PopFlash())
	assert.Empty(t, loaded.Flash)
}

func TestManagerLoadWithoutCookie(t *testing.T) {
	m := newTestManager(NewMemoryStore(time.Hour, time.Minute))

	sess := m.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, sess.ID)
	assert.False(t, sess.Authenticated())
}

func TestManagerRejectsForeignSignature(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour, time.Minute)
	other := NewManager(store, Config{Secret: "someone-else", TTL: time.Hour})
	m := newTestManager(store)

	sess := New()
	sess.UserID = "user-1"
	w := httptest.NewRecorder()
	require.NoError(t, other.Save(ctx, w, sess))

	loaded := m.Load(requestWithCookies(w.Result().Cookies()))
	assert.NotEqual(t, sess.ID, loaded.ID)
	assert.False(t, loaded.Authenticated())
}

func TestManagerRejectsGarbageCookie(t *testing.T) {
	m := newTestManager(NewMemoryStore(time.Hour, time.Minute))

	loaded := m.Load(requestWithCookies([]*http.Cookie{{Name: DefaultCookieName, Value: "not-a-token"}}))
	assert.False(t, loaded.Authenticated())
}

func TestManagerDestroy(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(NewMemoryStore(time.Hour, time.Minute))

	sess := New()
	sess.UserID = "user-1"
	w := httptest.NewRecorder()
	require.NoError(t, m.Save(ctx, w, sess))
	cookies := w.Result().Cookies()

	w = httptest.NewRecorder()
	require.NoError(t, m.Destroy(ctx, w, sess))
	expired := w.Result().Cookies()
	require.Len(t, expired, 1)
	assert.True(t, expired[0].MaxAge < 0)

	// The old cookie still verifies but names a session that is gone.
	loaded := m.Load(requestWithCookies(cookies))
	assert.False(t, loaded.Authenticated())
}

func TestManagerRegenerate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour, time.Minute)
	m := newTestManager(store)

	sess := New()
	sess.AddFlash("kept")
	require.NoError(t, m.Save(ctx, httptest.NewRecorder(), sess))

	sess.UserID = "user-1"
	fresh, err := m.Regenerate(ctx, sess)
	require.NoError(t, err)
	assert.NotEqual(t, sess.ID, fresh.ID)
	assert.Equal(t, "user-1", fresh.UserID)
	assert.Equal(t, []string{"kept"}, fresh.Flash)

	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreExpires(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour, time.Minute)

	sess := New()
	require.NoError(t, store.Save(ctx, sess, 10*time.Millisecond))
	_, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)
	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreCopiesOnSave(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour, time.Minute)

	sess := New()
	require.NoError(t, store.Save(ctx, sess, time.Hour))
	sess.UserID = "mutated"

	loaded, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.UserID)
}
