package app

import (
	"bitwise74/movie-list/config"
	"bitwise74/movie-list/internal"
	"bitwise74/movie-list/internal/service"
	"bitwise74/movie-list/internal/testutil"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearch struct {
	calls   int
	results []service.Candidate
	err     error
}

func (f *fakeSearch) Search(_ context.Context, _ string) ([]service.Candidate, error) {
	f.calls++
	return f.results, f.err
}

func (f *fakeSearch) PosterURL(path string) string {
	if path == "" {
		return ""
	}
	return "https://img.test" + path
}

type fakeMail struct {
	mu   sync.Mutex
	sent []service.Message
	fail bool
}

func (f *fakeMail) Send(m service.Message) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		return false
	}
	f.sent = append(f.sent, m)
	return true
}

func (f *fakeMail) messages() []service.Message {
	f.mu.Lock()
	defer f.mu.Unlock()

	return slices.Clone(f.sent)
}

func (f *fakeMail) setFail(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fail = fail
}

type client struct {
	t       *testing.T
	router  *gin.Engine
	cookies map[string]*http.Cookie
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}

	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type movieJSON struct {
	ID      uint     `json:"id"`
	Title   string   `json:"title"`
	Year    int      `json:"year"`
	Rating  *float64 `json:"rating"`
	Ranking int      `json:"ranking"`
	Review  string   `json:"review"`
	ImgURL  string   `json:"img_url"`
}

const resetDelay = 50 * time.Millisecond

type testEnv struct {
	router *gin.Engine
	search *fakeSearch
	mail   *fakeMail
}

func newTestEnv(t *testing.T) *testEnv {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.App.LogLevel = "info"
	cfg.Host.Port = 8080
	cfg.Host.Domain = "localhost"
	cfg.Security.Secret = "test-secret"
	cfg.Security.RateLimit = 1000
	cfg.Security.SessionTTL = time.Hour
	cfg.Security.ResetTTL = 30 * time.Minute
	cfg.Security.ResetRequestDelay = resetDelay
	cfg.Mail.ContactAddress = "owner@movies.test"
	cfg.Cache.SearchTTL = time.Minute

	d, err := internal.NewDeps(cfg, testutil.NewDB(t))
	require.NoError(t, err)

	env := &testEnv{search: &fakeSearch{}, mail: &fakeMail{}}
	d.Search = env.search
	d.Mail = env.mail

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	env.router = Routes(ctx, d, persist.NewMemoryStore(time.Minute))
	return env
}

func (e *testEnv) client(t *testing.T) *client {
	return &client{t: t, router: e.router, cookies: map[string]*http.Cookie{}}
}

func register(t *testing.T, c *client, email, password string) {
	t.Helper()

	w := c.do(http.MethodPost, "/api/users", gin.H{"email": email, "name": "Tester", "password": password})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Contains(t, c.cookies, "auth_token")
}

func TestHeartbeat(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, http.StatusOK, env.client(t).do(http.MethodHead, "/api/heartbeat", nil).Code)
}

func TestMovieListFlow(t *testing.T) {
	env := newTestEnv(t)
	alice := env.client(t)

	w := alice.do(http.MethodGet, "/api/movies", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	w = alice.do(http.MethodPost, "/api/movies", gin.H{"title": "Dune"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "/login", decode[map[string]string](t, w)["redirect"])

	register(t, alice, "Alice@Example.com", "password123")

	vote := 7.8
	env.search.results = []service.Candidate{{ID: 1, Title: "Dune", ReleaseDate: "2021-09-15", PosterPath: "/d.jpg", VoteAverage: &vote}}

	w = alice.do(http.MethodGet, "/api/movies/search?title=dune", nil)
	require.Equal(t, http.StatusOK, w.Code)
	results := decode[struct {
		Results []struct {
			Title     string `json:"title"`
			PosterURL string `json:"poster_url"`
		} `json:"results"`
	}](t, w).Results
	require.Len(t, results, 1)
	assert.Equal(t, "https://img.test/d.jpg", results[0].PosterURL)

	// Second identical search is served from the cache
	alice.do(http.MethodGet, "/api/movies/search?title=dune", nil)
	assert.Equal(t, 1, env.search.calls)

	w = alice.do(http.MethodPost, "/api/movies", gin.H{"title": "Dune", "release_date": "2021-09-15", "overview": "Sand", "rating": 7.8, "poster_path": "/d.jpg"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	dune := decode[movieJSON](t, w)
	assert.Equal(t, 2021, dune.Year)
	assert.Equal(t, "None", dune.Review)
	assert.Equal(t, "https://img.test/d.jpg", dune.ImgURL)

	w = alice.do(http.MethodPost, "/api/movies", gin.H{"title": "Sand", "release_date": "1999", "rating": "8.5"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sand := decode[movieJSON](t, w)
	assert.Equal(t, "/static/img/404.jpg", sand.ImgURL)
	assert.Equal(t, "Picture not found", sand.Review)

	w = alice.do(http.MethodPost, "/api/movies", gin.H{"title": "Dune", "release_date": "2021", "rating": 5})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = alice.do(http.MethodPost, "/api/movies", gin.H{"title": "Obscure", "release_date": "2003", "overview": "", "rating": 6, "poster_path": "/o.jpg"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	obscure := decode[movieJSON](t, w)
	assert.Equal(t, "/static/img/404.jpg", obscure.ImgURL)
	assert.Equal(t, "Picture not found", obscure.Review)
	assert.Equal(t, http.StatusNoContent, alice.do(http.MethodDelete, fmt.Sprintf("/api/movies/%d", obscure.ID), nil).Code)

	w = alice.do(http.MethodPost, "/api/movies", gin.H{"title": "Bad", "release_date": "20", "rating": 5})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = alice.do(http.MethodPost, "/api/movies", gin.H{"title": "Bad", "release_date": "2020", "rating": 11})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	list := decode[[]movieJSON](t, alice.do(http.MethodGet, "/api/movies", nil))
	require.Len(t, list, 2)
	assert.Equal(t, "Sand", list[0].Title)
	assert.Equal(t, 1, list[0].Ranking)
	assert.Equal(t, "Dune", list[1].Title)
	assert.Equal(t, 2, list[1].Ranking)

	dunePath := fmt.Sprintf("/api/movies/%d", dune.ID)

	w = alice.do(http.MethodPatch, dunePath, gin.H{"rating": "9", "review": "Great"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = alice.do(http.MethodPatch, dunePath, gin.H{"rating": "9", "review": strings.Repeat("x", 31)})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	list = decode[[]movieJSON](t, alice.do(http.MethodGet, "/api/movies", nil))
	require.Len(t, list, 2)
	assert.Equal(t, "Dune", list[0].Title)
	assert.Equal(t, 1, list[0].Ranking)
	assert.Equal(t, "Great", list[0].Review)

	got := decode[movieJSON](t, alice.do(http.MethodGet, dunePath, nil))
	assert.Equal(t, "Dune", got.Title)

	bob := env.client(t)
	register(t, bob, "bob@example.com", "password123")

	assert.JSONEq(t, "[]", bob.do(http.MethodGet, "/api/movies", nil).Body.String())
	assert.Equal(t, http.StatusForbidden, bob.do(http.MethodGet, dunePath, nil).Code)
	assert.Equal(t, http.StatusForbidden, bob.do(http.MethodPatch, dunePath, gin.H{"rating": 1, "review": "Bad"}).Code)
	assert.Equal(t, http.StatusForbidden, bob.do(http.MethodDelete, dunePath, nil).Code)
	assert.Equal(t, http.StatusNotFound, bob.do(http.MethodDelete, "/api/movies/9999", nil).Code)
	assert.Equal(t, http.StatusBadRequest, bob.do(http.MethodDelete, "/api/movies/abc", nil).Code)

	assert.Equal(t, http.StatusNoContent, alice.do(http.MethodDelete, dunePath, nil).Code)
	assert.Equal(t, http.StatusNotFound, alice.do(http.MethodGet, dunePath, nil).Code)

	list = decode[[]movieJSON](t, alice.do(http.MethodGet, "/api/movies", nil))
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].Ranking)

	env.search.err = fmt.Errorf("%w, tmdb returned status 500", service.ErrExternalService)
	assert.Equal(t, http.StatusBadGateway, alice.do(http.MethodGet, "/api/movies/search?title=other", nil).Code)
}

func TestAccountFlow(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)

	register(t, c, "carol@example.com", "password123")

	w := c.do(http.MethodPost, "/api/users", gin.H{"email": "CAROL@example.com", "name": "Again", "password": "password123"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = c.do(http.MethodPost, "/api/users", gin.H{"email": "nope", "name": "X", "password": "password123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	me := decode[map[string]any](t, c.do(http.MethodGet, "/api/users/me", nil))
	assert.Equal(t, "carol@example.com", me["email"])
	assert.NotContains(t, me, "PasswordHash")

	assert.Equal(t, http.StatusNoContent, c.do(http.MethodPost, "/api/users/logout", nil).Code)
	assert.NotContains(t, c.cookies, "auth_token")
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/users/me", nil).Code)

	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPost, "/api/users/login", gin.H{"email": "dave@example.com", "password": "password123"}).Code)
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodPost, "/api/users/login", gin.H{"email": "carol@example.com", "password": "wrongpassword"}).Code)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/users/login", gin.H{"email": "carol@example.com"}).Code)

	// Unknown emails get the same answer and no mail
	unknown := c.do(http.MethodPost, "/api/users/reset", gin.H{"email": "dave@example.com"})
	require.Equal(t, http.StatusOK, unknown.Code)

	known := c.do(http.MethodPost, "/api/users/reset", gin.H{"email": "carol@example.com"})
	require.Equal(t, http.StatusOK, known.Code)
	assert.Equal(t, unknown.Body.String(), known.Body.String())

	require.Eventually(t, func() bool { return len(env.mail.messages()) == 1 }, time.Second, 5*time.Millisecond)
	sent := env.mail.messages()[0]
	assert.Equal(t, "carol@example.com", sent.To)

	body := sent.HTML
	start := strings.Index(body, "http://localhost:8080/reset/")
	require.NotEqual(t, -1, start, body)
	token := body[start+len("http://localhost:8080/reset/"):]
	token = token[:strings.Index(token, "'")]

	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/users/reset/"+token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/api/users/reset/garbage", nil).Code)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/users/reset/"+token, gin.H{"password": "short"}).Code)

	w = c.do(http.MethodPost, "/api/users/reset/"+token, gin.H{"password": "newpassword456"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The link dies with the old password
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/api/users/reset/"+token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/users/reset/"+token, gin.H{"password": "another789"}).Code)

	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodPost, "/api/users/login", gin.H{"email": "carol@example.com", "password": "password123"}).Code)
	assert.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/users/login", gin.H{"email": "Carol@Example.com", "password": "newpassword456"}).Code)
	assert.Contains(t, c.cookies, "auth_token")
}

func TestContact(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)

	msg := gin.H{"name": "Eve", "email": "eve@example.com", "phone": "555", "message": "Hello there"}

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/contact", msg).Code)
	sent := env.mail.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "owner@movies.test", sent[0].To)
	assert.Equal(t, "eve@example.com", sent[0].ReplyTo)

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/contact", gin.H{"name": "Eve", "email": "eve@example.com"}).Code)

	env.mail.setFail(true)
	assert.Equal(t, http.StatusServiceUnavailable, c.do(http.MethodPost, "/api/contact", msg).Code)
}

func TestResetRequestTiming(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)
	register(t, c, "frank@example.com", "password123")

	// A slow mail server must not hold up the answer for known emails
	env.mail.mu.Lock()
	released := false
	t.Cleanup(func() {
		if !released {
			env.mail.mu.Unlock()
		}
	})

	elapsed := func(email string) time.Duration {
		start := time.Now()
		w := c.do(http.MethodPost, "/api/users/reset", gin.H{"email": email})
		require.Equal(t, http.StatusOK, w.Code)
		return time.Since(start)
	}

	unknown := elapsed("nobody@example.com")
	known := elapsed("frank@example.com")

	assert.GreaterOrEqual(t, unknown, resetDelay)
	assert.GreaterOrEqual(t, known, resetDelay)
	assert.Less(t, known, resetDelay+500*time.Millisecond)

	released = true
	env.mail.mu.Unlock()
	require.Eventually(t, func() bool { return len(env.mail.messages()) == 1 }, time.Second, 5*time.Millisecond)
}
