package inbound_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liftlog/liftlog/internal/identity"
	"github.com/liftlog/liftlog/internal/identity/inbound"
	"github.com/liftlog/liftlog/internal/pkg/clock"
	"github.com/liftlog/liftlog/internal/pkg/config"
	"github.com/liftlog/liftlog/internal/pkg/hash"
	"github.com/liftlog/liftlog/internal/pkg/router"
	"github.com/liftlog/liftlog/internal/pkg/session"
	"github.com/liftlog/liftlog/internal/pkg/totp"
	"github.com/liftlog/liftlog/internal/pkg/uid"
	"github.com/liftlog/liftlog/internal/pkg/validator"
)

const cookieName = "liftlog_session"

const testConfigYAML = `
mfa:
  totp:
    issuer: liftlog
    period: 30
    digits: 6
    window_steps: 1
session:
  ttl_hours: 24
`

type testAPI struct {
	router   *router.Router
	clock    *clock.Static
	verifier *totp.Verifier
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfigYAML))
	require.NoError(t, err)
	t.Cleanup(func() { cfg.Close() })

	v10, err := validator.NewV10Validator()
	require.NoError(t, err)

	clk := &clock.Static{T: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)}
	sessions := session.NewMemory(hash.NewHMACSHA256("test-secret"), clk, false)

	r := router.NewRouter(router.Config{
		Config:     cfg,
		UUID:       uid.NewUUID(),
		Sessions:   sessions,
		CookieName: cookieName,
	})

	require.NoError(t, identity.New(identity.Dependency{
		Router:    r,
		Config:    cfg,
		UUID:      uid.NewUUID(),
		Argon2ID:  hash.NewArgon2id("test-pepper"),
		Sessions:  sessions,
		Clock:     clk,
		Validator: v10,
		Cookie: inbound.CookieConfig{
			Name: cookieName,
			TTL:  24 * time.Hour,
		},
	}))

	return &testAPI{
		router:   r,
		clock:    clk,
		verifier: totp.NewVerifier(30, 6, 1),
	}
}

func (a *testAPI) do(t *testing.T, method, path string, body any, cookie string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: cookie})
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w.Result()
}

func decodeData(t *testing.T, res *http.Response, dst any) {
	t.Helper()

	var envelope struct {
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, dst))
}

func sessionCookie(res *http.Response) string {
	for _, c := range res.Cookies() {
		if c.Name == cookieName {
			return c.Value
		}
	}
	return ""
}

func TestAuthFlow(t *testing.T) {
	api := newTestAPI(t)

	// Enrollment: fresh secret and provisioning URI, nothing persisted.
	res := api.do(t, http.MethodGet, "/api/auth/totp/setup?username=alice", nil, "")
	require.Equal(t, http.StatusOK, res.StatusCode)

	var setup struct {
		Secret          string `json:"secret"`
		ProvisioningURI string `json:"provisioning_uri"`
	}
	decodeData(t, res, &setup)
	require.NotEmpty(t, setup.Secret)
	assert.Contains(t, setup.ProvisioningURI, "otpauth://totp/")

	code := func() string {
		c, err := api.verifier.GenerateCode(setup.Secret, api.clock.Now())
		require.NoError(t, err)
		return c
	}

	// Registration commits the account and signs it in.
	res = api.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username":    "alice",
		"password":    "password123",
		"totp_secret": setup.Secret,
		"totp_code":   code(),
	}, "")
	require.Equal(t, http.StatusCreated, res.StatusCode)
	registerCookie := sessionCookie(res)
	require.NotEmpty(t, registerCookie)

	var registered struct {
		Username string `json:"username"`
	}
	decodeData(t, res, &registered)
	assert.Equal(t, "alice", registered.Username)

	// The enrollment code is already consumed: logging in with it is replay.
	res = api.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "password123",
		"totp":     code(),
	}, "")
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	// The next step's code logs in and sets a session cookie.
	api.clock.T = api.clock.T.Add(30 * time.Second)
	res = api.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "password123",
		"totp":     code(),
	}, "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	loginCookie := sessionCookie(res)
	require.NotEmpty(t, loginCookie)

	// The session resolves to the account.
	res = api.do(t, http.MethodGet, "/api/auth/me", nil, loginCookie)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var me struct {
		Username string `json:"username"`
	}
	decodeData(t, res, &me)
	assert.Equal(t, "alice", me.Username)

	// Logout revokes the session and clears the cookie.
	res = api.do(t, http.MethodPost, "/api/auth/logout", nil, loginCookie)
	require.Equal(t, http.StatusNoContent, res.StatusCode)

	res = api.do(t, http.MethodGet, "/api/auth/me", nil, loginCookie)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	// Logout again with the dead cookie is still a 204.
	res = api.do(t, http.MethodPost, "/api/auth/logout", nil, loginCookie)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
}

func TestAuthFlow_WrongFirstCode(t *testing.T) {
	api := newTestAPI(t)

	res := api.do(t, http.MethodGet, "/api/auth/totp/setup", nil, "")
	require.Equal(t, http.StatusOK, res.StatusCode)

	var setup struct {
		Secret string `json:"secret"`
	}
	decodeData(t, res, &setup)

	res = api.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username":    "alice",
		"password":    "password123",
		"totp_secret": setup.Secret,
		"totp_code":   "000000",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	// Nothing persisted: the same username registers with a fresh secret.
	res = api.do(t, http.MethodGet, "/api/auth/totp/setup?username=alice", nil, "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	decodeData(t, res, &setup)

	code, err := api.verifier.GenerateCode(setup.Secret, api.clock.Now())
	require.NoError(t, err)

	res = api.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username":    "alice",
		"password":    "password123",
		"totp_secret": setup.Secret,
		"totp_code":   code,
	}, "")
	assert.Equal(t, http.StatusCreated, res.StatusCode)
}

func TestAuth_ProtectedWithoutSession(t *testing.T) {
	api := newTestAPI(t)

	res := api.do(t, http.MethodGet, "/api/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res = api.do(t, http.MethodGet, "/api/auth/me", nil, "not-a-real-token")
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestAuth_ExpiredSession(t *testing.T) {
	api := newTestAPI(t)

	res := api.do(t, http.MethodGet, "/api/auth/totp/setup?username=alice", nil, "")
	require.Equal(t, http.StatusOK, res.StatusCode)

	var setup struct {
		Secret string `json:"secret"`
	}
	decodeData(t, res, &setup)

	code, err := api.verifier.GenerateCode(setup.Secret, api.clock.Now())
	require.NoError(t, err)

	res = api.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username":    "alice",
		"password":    "password123",
		"totp_secret": setup.Secret,
		"totp_code":   code,
	}, "")
	require.Equal(t, http.StatusCreated, res.StatusCode)
	cookie := sessionCookie(res)

	// Expired and invalid sessions are the same 401 to the client.
	api.clock.T = api.clock.T.Add(25 * time.Hour)
	res = api.do(t, http.MethodGet, "/api/auth/me", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestAuth_UnknownBodyField(t *testing.T) {
	api := newTestAPI(t)

	res := api.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username":   "alice",
		"password":   "password123",
		"totp":       "123456",
		"unexpected": "field",
	}, "")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}
