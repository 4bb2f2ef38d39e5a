package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrale/sigil"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	store := NewStore(testSecret)
	session, err := store.Load(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	return session
}

func TestSession_TokenIsStable(t *testing.T) {
	session := newTestSession(t)

	token := session.Token()
	assert.Len(t, token, 64)
	assert.Equal(t, token, session.Token())
}

func TestSession_TokenRoundTripsThroughCookie(t *testing.T) {
	store := NewStore(testSecret)

	rec := httptest.NewRecorder()
	session, err := store.Load(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	token := session.Token()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	session, err = store.Load(httptest.NewRecorder(), req)
	require.NoError(t, err)

	assert.Equal(t, token, session.Token())
}

func TestSession_TakeFlash(t *testing.T) {
	session := newTestSession(t)
	session.Flash("success", "first")
	session.Flash("success", "second")
	session.Flash("error", "oops")

	msg, ok := session.TakeFlash("success")
	assert.True(t, ok)
	assert.Equal(t, "first", msg)

	msg, ok = session.TakeFlash("success")
	assert.True(t, ok)
	assert.Equal(t, "second", msg)

	_, ok = session.TakeFlash("success")
	assert.False(t, ok)

	msg, ok = session.TakeFlash("error")
	assert.True(t, ok)
	assert.Equal(t, "oops", msg)
}

func TestSession_TakeAllFlash(t *testing.T) {
	session := newTestSession(t)
	session.Flash("success", "saved")
	session.Flash("error", "oops")
	session.Flash("success", "again")

	flashes := session.TakeAllFlash()
	assert.Equal(t, []sigil.Flash{
		{Key: "success", Message: "saved"},
		{Key: "error", Message: "oops"},
		{Key: "success", Message: "again"},
	}, flashes)

	assert.Nil(t, session.TakeAllFlash())
}

func TestSession_LoadWithBadCookieStartsFresh(t *testing.T) {
	store := NewStore(testSecret)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionName, Value: "garbage"})

	session, err := store.Load(httptest.NewRecorder(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token())
}
