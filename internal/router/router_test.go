package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/lincup/config"
	"github.com/oksasatya/lincup/internal/container"
	"github.com/oksasatya/lincup/internal/infrastructure/kvstore"
	"github.com/oksasatya/lincup/internal/infrastructure/session"
	"github.com/oksasatya/lincup/internal/interface/middleware"
	"github.com/oksasatya/lincup/pkg/helpers"
	"github.com/oksasatya/lincup/pkg/validation"
)

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]any  `json:"meta"`
	Error   json.RawMessage `json:"error"`
}

type client struct {
	t       *testing.T
	engine  *gin.Engine
	cookies []*http.Cookie
	remote  string
}

func (c *client) do(method, path string, body any) (int, envelope) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.remote != "" {
		req.RemoteAddr = c.remote
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	c.engine.ServeHTTP(w, req)

	if set := w.Result().Cookies(); len(set) > 0 {
		c.cookies = nil
		for _, ck := range set {
			if ck.MaxAge >= 0 && ck.Value != "" {
				c.cookies = append(c.cookies, ck)
			}
		}
	}
	var env envelope
	if w.Header().Get("Content-Type") != "" && w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w.Code, env
}

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	engine, _ := newTestServerWithStore(t)
	return engine
}

func newTestServerWithStore(t *testing.T) (*gin.Engine, *kvstore.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	cfg := config.Load()
	cfg.DebugMetricsEnabled = true
	cfg.MailSendEnabled = false
	store := kvstore.NewMemoryStore()

	container.SetConfig(cfg)
	container.SetLogger(nil)
	container.SetRedis(nil)
	container.SetES(nil)
	container.SetGCS(nil)
	container.SetRabbitPub(nil)
	container.SetRecommender(nil)
	container.SetJWT(helpers.NewJWTManager("access", "refresh", time.Minute, time.Hour))
	container.SetUserRepo(kvstore.NewUserRepository(store))
	container.SetCourseRepo(kvstore.NewCourseRepository(store))
	container.SetSessions(session.NewMemoryStore())

	engine := gin.New()
	reg := NewRegistry(engine)
	reg.Use(middleware.RequestIDMiddleware(), middleware.Prometheus())
	InitModules(reg, BuildServices())
	reg.RegisterAll()
	return engine, store
}

func TestAccountFlow(t *testing.T) {
	c := &client{t: t, engine: newTestServer(t)}

	code, env := c.do(http.MethodPost, "/api/auth/register", map[string]string{
		"email": "a@lehigh.edu", "password": "pw1", "confirmPassword": "pw2",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Passwords do not match.", env.Message)

	code, env = c.do(http.MethodPost, "/api/auth/register", map[string]string{
		"email": "a@lehigh.edu", "password": "pw1", "confirmPassword": "pw1",
	})
	require.Equal(t, http.StatusCreated, code)
	assert.NotContains(t, string(env.Data), "password")
	require.Len(t, c.cookies, 2)

	code, env = c.do(http.MethodGet, "/api/me", nil)
	require.Equal(t, http.StatusOK, code)
	var me struct {
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "a@lehigh.edu", me.Email)

	code, env = c.do(http.MethodPost, "/api/auth/register", map[string]string{
		"email": "a@lehigh.edu", "password": "pw1", "confirmPassword": "pw1",
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "An account with this email already exists.", env.Message)

	code, _ = c.do(http.MethodPost, "/api/auth/refresh", nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = c.do(http.MethodPost, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = c.do(http.MethodGet, "/api/me", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env = c.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "a@lehigh.edu", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid email or password.", env.Message)

	code, _ = c.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "a@lehigh.edu", "password": "pw1"})
	assert.Equal(t, http.StatusOK, code)
	code, _ = c.do(http.MethodGet, "/api/me", nil)
	assert.Equal(t, http.StatusOK, code)

	for _, email := range []string{"a@lehigh.edu", "ghost@lehigh.edu"} {
		code, env = c.do(http.MethodPost, "/api/auth/password/reset", map[string]string{"email": email})
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "If an account exists for "+email+", password recovery instructions have been sent.", env.Message)
	}
}

func TestProfileFlow(t *testing.T) {
	c := &client{t: t, engine: newTestServer(t)}
	code, _ := c.do(http.MethodPost, "/api/auth/register", map[string]string{
		"email": "a@lehigh.edu", "password": "pw1", "confirmPassword": "pw1",
	})
	require.Equal(t, http.StatusCreated, code)

	code, _ = c.do(http.MethodPost, "/api/me/profile", map[string]string{"hobbies": "chess"})
	assert.Equal(t, http.StatusBadRequest, code)

	profile := map[string]string{"hobbies": "chess", "enjoys": "puzzles", "major": "CS", "goals": "startup"}
	code, env := c.do(http.MethodPost, "/api/me/profile", profile)
	require.Equal(t, http.StatusOK, code)
	var view struct {
		Recommendations []struct {
			ClubName string `json:"clubName"`
		} `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	require.Len(t, view.Recommendations, 3)
	assert.Equal(t, "Outdoor Club", view.Recommendations[0].ClubName)

	code, _ = c.do(http.MethodPost, "/api/me/profile", profile)
	assert.Equal(t, http.StatusConflict, code)

	code, env = c.do(http.MethodGet, "/api/clubs", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(12), env.Meta["count"])
}

func TestCourseFlow(t *testing.T) {
	c := &client{t: t, engine: newTestServer(t)}

	code, _ := c.do(http.MethodGet, "/api/courses", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = c.do(http.MethodPost, "/api/auth/register", map[string]string{
		"email": "a@lehigh.edu", "password": "pw1", "confirmPassword": "pw1",
	})
	require.Equal(t, http.StatusCreated, code)

	review := func(rating int) map[string]any {
		return map[string]any{"professor": "Dr. Smith", "courseLoad": "Light", "hasExam": true, "rating": rating, "experience": "fine"}
	}
	ids := map[string]string{}
	for _, in := range []struct {
		name, code string
		rating     int
	}{
		{"Calculus", "MATH 021", 3},
		{"Algorithms", "CSE 340", 2},
		{"Data Structures", "CSE 017", 5},
	} {
		code, env := c.do(http.MethodPost, "/api/courses", map[string]any{"name": in.name, "code": in.code, "review": review(in.rating)})
		require.Equal(t, http.StatusCreated, code)
		var v struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &v))
		ids[in.code] = v.ID
	}

	code, env := c.do(http.MethodPost, "/api/courses", map[string]any{"name": "X", "code": "X 1", "review": review(9)})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(env.Error), "rating")

	type listed struct {
		Code  string `json:"code"`
		Quote string `json:"quote"`
		Tier  string `json:"tier"`
	}
	list := func(query string) (int, []listed) {
		code, env := c.do(http.MethodGet, "/api/courses"+query, nil)
		var out []listed
		if code == http.StatusOK {
			require.NoError(t, json.Unmarshal(env.Data, &out))
		}
		return code, out
	}

	code, all := list("")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, all, 3)
	assert.Equal(t, "CSE 017", all[0].Code)
	assert.Equal(t, "CSE 340", all[1].Code)
	assert.Equal(t, "MATH 021", all[2].Code)
	assert.Equal(t, "success", all[0].Tier)
	assert.Equal(t, "error", all[1].Tier)
	assert.Equal(t, "warning", all[2].Tier)

	_, easy := list("?filter=easy")
	require.Len(t, easy, 1)
	assert.Equal(t, "CSE 017", easy[0].Code)

	_, searched := list("?search=calc")
	require.Len(t, searched, 1)
	assert.Equal(t, "MATH 021", searched[0].Code)

	code, _ = list("?filter=medium")
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = c.do(http.MethodPost, "/api/courses/"+ids["CSE 340"]+"/reviews", review(5))
	require.Equal(t, http.StatusCreated, code)
	var updated struct {
		MeanDisplay string `json:"meanDisplay"`
		ReviewCount int    `json:"reviewCount"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "3.5", updated.MeanDisplay)
	assert.Equal(t, 2, updated.ReviewCount)

	code, _ = c.do(http.MethodPost, "/api/courses/missing/reviews", review(5))
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = c.do(http.MethodGet, "/api/courses/missing", nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = c.do(http.MethodGet, "/api/courses/"+ids["CSE 017"], nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = c.do(http.MethodGet, "/api/courses/suggest?q=cse", nil)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	code, _ = c.do(http.MethodPost, "/api/courses/export", nil)
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestDebugVarsPrivateOnly(t *testing.T) {
	engine := newTestServer(t)

	public := &client{t: t, engine: engine, remote: "8.8.8.8:1234"}
	code, _ := public.do(http.MethodGet, "/api/debug/vars", nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = public.do(http.MethodGet, "/api/metrics", nil)
	assert.Equal(t, http.StatusForbidden, code)

	local := &client{t: t, engine: engine, remote: "127.0.0.1:1234"}
	code, _ = local.do(http.MethodGet, "/api/debug/vars", nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = local.do(http.MethodGet, "/api/metrics", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestHealth(t *testing.T) {
	engine := newTestServer(t)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestRegisterRejectsPasswordOverByteLimit(t *testing.T) {
	c := &client{t: t, engine: newTestServer(t)}

	long := strings.Repeat("é", 72)
	code, env := c.do(http.MethodPost, "/api/auth/register", map[string]string{
		"email": "a@lehigh.edu", "password": long, "confirmPassword": long,
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(env.Error), "must be between 1 and 72 bytes")
	assert.Empty(t, c.cookies)

	fits := strings.Repeat("é", 36)
	code, _ = c.do(http.MethodPost, "/api/auth/register", map[string]string{
		"email": "a@lehigh.edu", "password": fits, "confirmPassword": fits,
	})
	assert.Equal(t, http.StatusCreated, code)
}

func TestLoginWithCorruptUsersIsServerError(t *testing.T) {
	engine, store := newTestServerWithStore(t)
	require.NoError(t, store.Set(context.Background(), kvstore.UsersKey, "{not json"))
	c := &client{t: t, engine: engine}

	code, env := c.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "a@lehigh.edu", "password": "pw1",
	})
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "internal server error", env.Message)
}
