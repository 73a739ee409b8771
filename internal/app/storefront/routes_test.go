package storefront

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/guitar-shop/internal/consent"
	"github.com/magabrotheeeer/guitar-shop/internal/http/handlers/health"
	"github.com/magabrotheeeer/guitar-shop/internal/lib/jwt"
	"github.com/magabrotheeeer/guitar-shop/internal/lib/password"
	"github.com/magabrotheeeer/guitar-shop/internal/metrics"
	"github.com/magabrotheeeer/guitar-shop/internal/models"
	authservice "github.com/magabrotheeeer/guitar-shop/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/guitar-shop/internal/services/catalog"
	"github.com/magabrotheeeer/guitar-shop/internal/session"
	"github.com/magabrotheeeer/guitar-shop/internal/shell"
	"github.com/magabrotheeeer/guitar-shop/internal/storage"
	"github.com/magabrotheeeer/guitar-shop/internal/stores"
)

type usersStub struct {
	users map[string]models.User
}

func (u *usersStub) RegisterUser(_ context.Context, user models.User) (string, error) {
	if _, ok := u.users[user.Email]; ok {
		return "", storage.ErrAlreadyExists
	}
	user.UUID = "uid-" + user.Email
	u.users[user.Email] = user
	return user.UUID, nil
}

func (u *usersStub) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := u.users[email]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &user, nil
}

type guitarsStub struct {
	guitars []models.Guitar
}

func (g *guitarsStub) ListGuitars(context.Context) ([]models.Guitar, error) {
	return g.guitars, nil
}

func (g *guitarsStub) GetGuitar(_ context.Context, id int64) (*models.Guitar, error) {
	for _, guitar := range g.guitars {
		if guitar.ID == id {
			return &guitar, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (g *guitarsStub) AddGuitar(_ context.Context, guitar models.Guitar) (int64, error) {
	guitar.ID = int64(len(g.guitars) + 1)
	g.guitars = append(g.guitars, guitar)
	return guitar.ID, nil
}

type envelope struct {
	Status string          `json:"status"`
	Error  string          `json:"error"`
	Data   json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	hash, err := password.Hash("secret123")
	require.NoError(t, err)
	users := &usersStub{users: map[string]models.User{
		"leo@x.com": {UUID: "u1", Email: "leo@x.com", FirstName: "Leo", LastName: "G", PasswordHash: hash},
	}}
	guitars := &guitarsStub{guitars: []models.Guitar{
		{ID: 1, Manufacturer: "Fender", Model: "Stratocaster", Description: "**Classic** tone", PriceCents: 129900},
	}}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	cookies := session.NewCookies(jwt.NewJWTMaker("test-secret", time.Hour), session.CookieOptions{TTL: time.Hour})
	sh, err := shell.New(log, stores.NewServerProvider(), session.NewMemoryStore(), cookies,
		consent.NewAdapter(log, nil, ""), m, shell.Options{WriteKey: "wk_test"})
	require.NoError(t, err)

	router := chi.NewRouter()
	RegisterRoutes(router, Deps{
		Logger:   log,
		Shell:    sh,
		Auth:     authservice.NewService(users, log),
		Catalog:  catalogservice.NewService(guitars, nil, time.Minute, log),
		Metrics:  m,
		Gatherer: reg,
		Checkers: map[string]health.Checker{},
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func newHTTPClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func decodeSnapshot(t *testing.T, resp *http.Response) stores.SessionSnapshot {
	t.Helper()
	defer resp.Body.Close()
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.Equal(t, "OK", env.Status, env.Error)

	var snap stores.SessionSnapshot
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	return snap
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestRoutes_AccountFlow(t *testing.T) {
	srv := newTestServer(t)
	c := newHTTPClient(t)

	resp, err := c.Get(srv.URL + "/account")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp, err = c.Post(srv.URL+"/api/v1/login", "application/json",
		strings.NewReader(`{"email":"leo@x.com","password":"secret123"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap := decodeSnapshot(t, resp)
	assert.Equal(t, stores.SessionSnapshot{LoggedIn: true, FirstName: "Leo", LastName: "G", Email: "leo@x.com"}, snap)

	resp, err = c.Get(srv.URL + "/api/v1/session")
	require.NoError(t, err)
	assert.True(t, decodeSnapshot(t, resp).LoggedIn)

	resp, err = c.Get(srv.URL + "/account")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := readBody(t, resp)
	assert.Contains(t, page, "Leo")
	assert.Contains(t, page, "leo@x.com")
	assert.Contains(t, page, shell.DataElementID)

	resp, err = c.Post(srv.URL+"/api/v1/logout", "application/json", nil)
	require.NoError(t, err)
	assert.Equal(t, stores.SessionSnapshot{}, decodeSnapshot(t, resp))

	resp, err = c.Get(srv.URL + "/account")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestRoutes_LoginForm(t *testing.T) {
	srv := newTestServer(t)
	c := newHTTPClient(t)

	resp, err := c.PostForm(srv.URL+"/login", map[string][]string{
		"email":    {"leo@x.com"},
		"password": {"wrong-password"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Invalid email or password")

	resp, err = c.PostForm(srv.URL+"/login", map[string][]string{
		"email":    {"leo@x.com"},
		"password": {"secret123"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/account", resp.Header.Get("Location"))

	resp, err = c.Post(srv.URL+"/account/logout", "application/x-www-form-urlencoded", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	resp, err = c.Get(srv.URL + "/api/v1/session")
	require.NoError(t, err)
	assert.False(t, decodeSnapshot(t, resp).LoggedIn)
}

func TestRoutes_Catalog(t *testing.T) {
	srv := newTestServer(t)
	c := newHTTPClient(t)

	resp, err := c.Get(srv.URL + "/")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := readBody(t, resp)
	assert.Contains(t, page, `href="/guitars/1"`)
	assert.Contains(t, page, models.FallbackImage)

	resp, err = c.Get(srv.URL + "/guitars/1")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "<strong>Classic</strong>")

	resp, err = c.Get(srv.URL + "/guitars/42")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = c.Get(srv.URL + "/api/v1/guitars")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	resp.Body.Close()
	var guitars []models.Guitar
	require.NoError(t, json.Unmarshal(env.Data, &guitars))
	require.Len(t, guitars, 1)
	assert.Equal(t, "Fender", guitars[0].Manufacturer)
}

func TestRoutes_Infrastructure(t *testing.T) {
	srv := newTestServer(t)
	c := newHTTPClient(t)

	resp, err := c.Get(srv.URL + "/no-such-page")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), shell.DataElementID)

	resp, err = c.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = c.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "guitarshop_page_renders_total")

	resp, err = c.Post(srv.URL+"/api/v1/consent", "application/json",
		strings.NewReader(`{"categories":{"analytics":true}}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
