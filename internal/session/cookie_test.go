package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/guitar-shop/internal/lib/jwt"
)

func newCookies(secret string) *Cookies {
	return NewCookies(jwt.NewJWTMaker(secret, time.Hour), CookieOptions{Name: "sid", TTL: time.Hour})
}

func TestCookies_IssueAndRead(t *testing.T) {
	cookies := newCookies("secret")
	sid := NewID()

	rec := httptest.NewRecorder()
	require.NoError(t, cookies.Issue(rec, sid))

	issued := rec.Result().Cookies()
	require.Len(t, issued, 1)
	assert.Equal(t, "sid", issued[0].Name)
	assert.True(t, issued[0].HttpOnly)
	assert.Equal(t, "/", issued[0].Path)
	assert.Equal(t, http.SameSiteLaxMode, issued[0].SameSite)
	assert.Equal(t, 3600, issued[0].MaxAge)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(issued[0])

	got, ok := cookies.Read(req)
	require.True(t, ok)
	assert.Equal(t, sid, got)
}

func TestCookies_ReadRejects(t *testing.T) {
	cookies := newCookies("secret")

	foreign := httptest.NewRecorder()
	require.NoError(t, newCookies("other-secret").Issue(foreign, NewID()))

	notUUID := httptest.NewRecorder()
	require.NoError(t, cookies.Issue(notUUID, "plain-id"))

	tests := []struct {
		name   string
		cookie *http.Cookie
	}{
		{name: "no cookie"},
		{name: "empty value", cookie: &http.Cookie{Name: "sid", Value: ""}},
		{name: "garbage", cookie: &http.Cookie{Name: "sid", Value: "garbage"}},
		{name: "foreign signature", cookie: foreign.Result().Cookies()[0]},
		{name: "non uuid session id", cookie: notUUID.Result().Cookies()[0]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			sid, ok := cookies.Read(req)
			assert.False(t, ok)
			assert.Empty(t, sid)
		})
	}
}

func TestCookies_Clear(t *testing.T) {
	cookies := newCookies("secret")
	rec := httptest.NewRecorder()

	cookies.Clear(rec)

	issued := rec.Result().Cookies()
	require.Len(t, issued, 1)
	assert.Equal(t, "sid", issued[0].Name)
	assert.Equal(t, -1, issued[0].MaxAge)
	assert.Empty(t, issued[0].Value)
}

func TestCookieOptions_Defaults(t *testing.T) {
	cookies := NewCookies(jwt.NewJWTMaker("s", time.Hour), CookieOptions{})
	assert.Equal(t, "leo_session", cookies.Name())
}
