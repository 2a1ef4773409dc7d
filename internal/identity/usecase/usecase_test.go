package usecase

import (
	"context"
	"encoding/base32"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liftlog/liftlog/internal/identity/entity"
	"github.com/liftlog/liftlog/internal/identity/outbound/memory"
	"github.com/liftlog/liftlog/internal/pkg/clock"
	"github.com/liftlog/liftlog/internal/pkg/config"
	"github.com/liftlog/liftlog/internal/pkg/goerror"
	"github.com/liftlog/liftlog/internal/pkg/hash"
	"github.com/liftlog/liftlog/internal/pkg/session"
	"github.com/liftlog/liftlog/internal/pkg/totp"
	"github.com/liftlog/liftlog/internal/pkg/uid"
	"github.com/liftlog/liftlog/internal/pkg/validator"
)

var testSecret = base32.StdEncoding.WithPadding(base32.NoPadding).
	EncodeToString([]byte("12345678901234567890"))

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

type fixture struct {
	uc       *Usecase
	repo     *memory.Memory
	sessions session.Manager
	verifier *totp.Verifier
	clock    *clock.Static
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfigYAML))
	require.NoError(t, err)
	t.Cleanup(func() { cfg.Close() })

	v10, err := validator.NewV10Validator()
	require.NoError(t, err)

	clk := &clock.Static{T: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)}
	repo := memory.NewMemory()
	sessions := session.NewMemory(hash.NewHMACSHA256("test-secret"), clk, false)

	uc := New(Dependency{
		RepoDB:    repo,
		Validator: v10,
		Config:    cfg,
		Argon2ID:  hash.NewArgon2id("test-pepper"),
		UUID:      uid.NewUUID(),
		TOTPGen:   totp.NewKeyGenerator("liftlog", 30, 6),
		TOTP:      totp.NewVerifier(30, 6, 1),
		Sessions:  sessions,
		Clock:     clk,
	})

	return &fixture{
		uc:       uc,
		repo:     repo,
		sessions: sessions,
		verifier: totp.NewVerifier(30, 6, 1),
		clock:    clk,
	}
}

func (f *fixture) code(t *testing.T) string {
	t.Helper()

	code, err := f.verifier.GenerateCode(testSecret, f.clock.Now())
	require.NoError(t, err)
	return code
}

func (f *fixture) register(t *testing.T, username string) *RegisterOutput {
	t.Helper()

	out, err := f.uc.Register(context.Background(), RegisterInput{
		Username:   username,
		Password:   "password123",
		TOTPSecret: testSecret,
		TOTPCode:   f.code(t),
	})
	require.NoError(t, err)
	return out
}

func statusOf(t *testing.T, err error) int {
	t.Helper()

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	return gerr.StatusCode()
}

func TestTOTPSetup(t *testing.T) {
	f := newFixture(t)

	out, err := f.uc.TOTPSetup(context.Background(), TOTPSetupInput{AccountName: "alice"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Secret)
	assert.Contains(t, out.ProvisioningURI, "otpauth://totp/")
	assert.Contains(t, out.ProvisioningURI, "alice")

	// Every call issues a distinct secret.
	out2, err := f.uc.TOTPSetup(context.Background(), TOTPSetupInput{AccountName: "alice"})
	require.NoError(t, err)
	assert.NotEqual(t, out.Secret, out2.Secret)
}

func TestTOTPSetup_BadAccountName(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.TOTPSetup(context.Background(), TOTPSetupInput{AccountName: "no spaces!"})
	assert.Error(t, err)
}

func TestRegister(t *testing.T) {
	f := newFixture(t)

	out := f.register(t, "alice")
	assert.Equal(t, "alice", out.Username)
	assert.NotEmpty(t, out.Token)

	// The session is live immediately.
	identity, err := f.sessions.Validate(context.Background(), out.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", identity.Username)

	// The committed user carries the accepted counter as its watermark.
	user, err := f.repo.GetUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, f.clock.Now().Unix()/30, user.TOTPLastCounter)
}

func TestRegister_WrongCodeLeavesNothing(t *testing.T) {
	f := newFixture(t)

	good := f.code(t)
	wrong := "000000"
	if wrong == good {
		wrong = "000001"
	}

	_, err := f.uc.Register(context.Background(), RegisterInput{
		Username:   "alice",
		Password:   "password123",
		TOTPSecret: testSecret,
		TOTPCode:   wrong,
	})
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	_, err = f.repo.GetUserByUsername(context.Background(), "alice")
	assert.ErrorIs(t, err, goerror.ErrNotFound)

	// The same username registers cleanly afterwards.
	f.clock.T = f.clock.T.Add(time.Minute)
	f.register(t, "alice")
}

func TestRegister_UsernameTaken(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")

	f.clock.T = f.clock.T.Add(time.Minute)
	_, err := f.uc.Register(context.Background(), RegisterInput{
		Username:   "alice",
		Password:   "password123",
		TOTPSecret: testSecret,
		TOTPCode:   f.code(t),
	})
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
}

func TestRegister_InvalidInput(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{name: "short username", in: RegisterInput{Username: "al", Password: "password123", TOTPSecret: testSecret, TOTPCode: "123456"}},
		{name: "short password", in: RegisterInput{Username: "alice", Password: "short", TOTPSecret: testSecret, TOTPCode: "123456"}},
		{name: "missing secret", in: RegisterInput{Username: "alice", Password: "password123", TOTPCode: "123456"}},
		{name: "missing code", in: RegisterInput{Username: "alice", Password: "password123", TOTPSecret: testSecret}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.Register(context.Background(), tc.in)
			assert.Error(t, err)

			_, err = f.repo.GetUserByUsername(context.Background(), "alice")
			assert.ErrorIs(t, err, goerror.ErrNotFound)
		})
	}
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")

	// The enrollment code is consumed; the next step's code logs in.
	f.clock.T = f.clock.T.Add(30 * time.Second)
	out, err := f.uc.Login(context.Background(), LoginInput{
		Username: "alice",
		Password: "password123",
		TOTP:     f.code(t),
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", out.Username)

	identity, err := f.sessions.Validate(context.Background(), out.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", identity.Username)
}

func TestLogin_GenericRejection(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")
	f.clock.T = f.clock.T.Add(30 * time.Second)

	good := f.code(t)
	wrong := "000000"
	if wrong == good {
		wrong = "000001"
	}

	tests := []struct {
		name string
		in   LoginInput
	}{
		{name: "unknown user", in: LoginInput{Username: "mallory", Password: "password123", TOTP: good}},
		{name: "wrong password", in: LoginInput{Username: "alice", Password: "wrongpassword", TOTP: good}},
		{name: "wrong code", in: LoginInput{Username: "alice", Password: "password123", TOTP: wrong}},
		{name: "malformed code", in: LoginInput{Username: "alice", Password: "password123", TOTP: "abc"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.Login(context.Background(), tc.in)

			var gerr *goerror.Error
			require.ErrorAs(t, err, &gerr)
			assert.Equal(t, http.StatusUnauthorized, gerr.StatusCode())
			assert.Equal(t, msgInvalidCredentials, gerr.Msg())
		})
	}
}

func TestLogin_Replay(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")

	f.clock.T = f.clock.T.Add(30 * time.Second)
	code := f.code(t)

	_, err := f.uc.Login(context.Background(), LoginInput{Username: "alice", Password: "password123", TOTP: code})
	require.NoError(t, err)

	// The same code again, even in the next step's skew window.
	_, err = f.uc.Login(context.Background(), LoginInput{Username: "alice", Password: "password123", TOTP: code})
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	f.clock.T = f.clock.T.Add(30 * time.Second)
	_, err = f.uc.Login(context.Background(), LoginInput{Username: "alice", Password: "password123", TOTP: code})
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	// A fresh step succeeds.
	_, err = f.uc.Login(context.Background(), LoginInput{Username: "alice", Password: "password123", TOTP: f.code(t)})
	assert.NoError(t, err)
}

func TestLogin_ConcurrentSameCode(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")

	f.clock.T = f.clock.T.Add(30 * time.Second)
	code := f.code(t)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.uc.Login(context.Background(), LoginInput{
				Username: "alice",
				Password: "password123",
				TOTP:     code,
			})
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	out := f.register(t, "alice")

	require.NoError(t, f.uc.Logout(context.Background(), LogoutInput{Token: out.Token}))

	_, err := f.sessions.Validate(context.Background(), out.Token)
	assert.ErrorIs(t, err, session.ErrInvalid)

	// Idempotent, and tolerant of a missing cookie.
	assert.NoError(t, f.uc.Logout(context.Background(), LogoutInput{Token: out.Token}))
	assert.NoError(t, f.uc.Logout(context.Background(), LogoutInput{}))
}

func TestMe(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")

	user, err := f.repo.GetUserByUsername(context.Background(), "alice")
	require.NoError(t, err)

	ctx := session.SetAuth(context.Background(), session.Identity{UserID: user.ID, Username: user.Username})
	out, err := f.uc.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", out.Username)
	assert.Equal(t, user.CreatedAt, out.CreatedAt)
}

func TestMe_Unauthenticated(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Me(context.Background())
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	// A session whose user no longer exists is also unauthenticated.
	ctx := session.SetAuth(context.Background(), session.Identity{UserID: "gone", Username: "ghost"})
	_, err = f.uc.Me(ctx)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}

type failingRepo struct {
	memory.Memory
}

func (f *failingRepo) CreateUser(ctx context.Context, user entity.User) error {
	return errors.New("connection reset")
}

func TestRegister_StorageFailure(t *testing.T) {
	f := newFixture(t)

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfigYAML))
	require.NoError(t, err)
	t.Cleanup(func() { cfg.Close() })

	v10, err := validator.NewV10Validator()
	require.NoError(t, err)

	uc := New(Dependency{
		RepoDB:    &failingRepo{},
		Validator: v10,
		Config:    cfg,
		Argon2ID:  hash.NewArgon2id("test-pepper"),
		UUID:      uid.NewUUID(),
		TOTPGen:   totp.NewKeyGenerator("liftlog", 30, 6),
		TOTP:      totp.NewVerifier(30, 6, 1),
		Sessions:  f.sessions,
		Clock:     f.clock,
	})

	_, err = uc.Register(context.Background(), RegisterInput{
		Username:   "alice",
		Password:   "password123",
		TOTPSecret: testSecret,
		TOTPCode:   f.code(t),
	})
	assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
}
