package totp

import (
	"encoding/base32"
	"testing"
	"time"

	"github.com/pquerna/otp"
	pqtotp "github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rfcSecret is the ASCII secret "12345678901234567890" from RFC 6238
// Appendix B, base32-encoded.
var rfcSecret = base32.StdEncoding.WithPadding(base32.NoPadding).
	EncodeToString([]byte("12345678901234567890"))

func TestGenerateCode_RFC6238Vectors(t *testing.T) {
	tests := []struct {
		unix int64
		want string
	}{
		{unix: 59, want: "287082"},
		{unix: 1111111109, want: "081804"},
		{unix: 1111111111, want: "050471"},
		{unix: 1234567890, want: "005924"},
		{unix: 2000000000, want: "279037"},
		{unix: 20000000000, want: "353130"},
	}

	v := NewVerifier(30, 6, 1)
	v8 := NewVerifier(30, 8, 1)

	rfc8 := map[int64]string{
		59:          "94287082",
		1111111109:  "07081804",
		1111111111:  "14050471",
		1234567890:  "89005924",
		2000000000:  "69279037",
		20000000000: "65353130",
	}

	for _, tc := range tests {
		at := time.Unix(tc.unix, 0)

		got, err := v.GenerateCode(rfcSecret, at)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "6 digits at t=%d", tc.unix)

		got8, err := v8.GenerateCode(rfcSecret, at)
		require.NoError(t, err)
		assert.Equal(t, rfc8[tc.unix], got8, "8 digits at t=%d", tc.unix)
	}
}

func TestGenerateCode_MatchesReferenceImplementation(t *testing.T) {
	v := NewVerifier(30, 6, 1)
	at := time.Unix(1735689600, 0)

	want, err := pqtotp.GenerateCodeCustom(rfcSecret, at, pqtotp.ValidateOpts{
		Period:    30,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	require.NoError(t, err)

	got, err := v.GenerateCode(rfcSecret, at)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGenerateCode_MalformedSecret(t *testing.T) {
	v := NewVerifier(30, 6, 1)

	_, err := v.GenerateCode("not base32 !!!", time.Now())
	assert.Error(t, err)
}

func TestVerify_AcceptAndReplay(t *testing.T) {
	v := NewVerifier(30, 6, 1)
	at := time.Unix(1111111111, 0)

	code, err := v.GenerateCode(rfcSecret, at)
	require.NoError(t, err)

	counter, ok := v.Verify(rfcSecret, code, at, NoPriorCounter)
	require.True(t, ok)
	assert.Equal(t, int64(1111111111/30), counter)

	// The same code at the same time must not be accepted twice.
	_, ok = v.Verify(rfcSecret, code, at, counter)
	assert.False(t, ok)

	// Nor inside the skew window of the following step.
	_, ok = v.Verify(rfcSecret, code, at.Add(30*time.Second), counter)
	assert.False(t, ok)
}

func TestVerify_StepBoundaries(t *testing.T) {
	v := NewVerifier(30, 6, 1)
	at := time.Unix(1111111110, 0) // start of a step

	code, err := v.GenerateCode(rfcSecret, at)
	require.NoError(t, err)

	// Still the same step 29 seconds in.
	_, ok := v.Verify(rfcSecret, code, at.Add(29*time.Second), NoPriorCounter)
	assert.True(t, ok)

	// The next step, covered by the one-step window.
	_, ok = v.Verify(rfcSecret, code, at.Add(31*time.Second), NoPriorCounter)
	assert.True(t, ok)

	// Two steps later, outside the window.
	_, ok = v.Verify(rfcSecret, code, at.Add(61*time.Second), NoPriorCounter)
	assert.False(t, ok)

	noWindow := NewVerifier(30, 6, 0)
	_, ok = noWindow.Verify(rfcSecret, code, at.Add(31*time.Second), NoPriorCounter)
	assert.False(t, ok)
}

func TestVerify_FutureStepWithinWindow(t *testing.T) {
	v := NewVerifier(30, 6, 1)
	at := time.Unix(1111111110, 0)

	// A client running slightly ahead submits the next step's code.
	code, err := v.GenerateCode(rfcSecret, at.Add(30*time.Second))
	require.NoError(t, err)

	counter, ok := v.Verify(rfcSecret, code, at, NoPriorCounter)
	require.True(t, ok)
	assert.Equal(t, at.Unix()/30+1, counter)

	// Accepting a future step also retires the current one.
	current, err := v.GenerateCode(rfcSecret, at)
	require.NoError(t, err)
	_, ok = v.Verify(rfcSecret, current, at, counter)
	assert.False(t, ok)
}

func TestVerify_MalformedCode(t *testing.T) {
	v := NewVerifier(30, 6, 1)
	at := time.Unix(1111111111, 0)

	for _, code := range []string{"", "12345", "1234567", "12345a", "12 456", "-12345"} {
		_, ok := v.Verify(rfcSecret, code, at, NoPriorCounter)
		assert.False(t, ok, "code %q", code)
	}
}

func TestVerify_WrongCode(t *testing.T) {
	v := NewVerifier(30, 6, 1)
	at := time.Unix(1111111111, 0)

	code, err := v.GenerateCode(rfcSecret, at)
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	_, ok := v.Verify(rfcSecret, wrong, at, NoPriorCounter)
	assert.False(t, ok)
}

func TestKeyGenerator_NewSecret(t *testing.T) {
	gen := NewKeyGenerator("liftlog", 30, 6)

	secret, uri, err := gen.NewSecret("alice")
	require.NoError(t, err)

	raw, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(secret)
	require.NoError(t, err)
	assert.Len(t, raw, 20)

	key, err := otp.NewKeyFromURL(uri)
	require.NoError(t, err)
	assert.Equal(t, "liftlog", key.Issuer())
	assert.Equal(t, "alice", key.AccountName())
	assert.Equal(t, secret, key.Secret())

	// A fresh secret verifies immediately with the round-trip code.
	v := NewVerifier(30, 6, 1)
	at := time.Now()
	code, err := v.GenerateCode(secret, at)
	require.NoError(t, err)
	_, ok := v.Verify(secret, code, at, NoPriorCounter)
	assert.True(t, ok)

	// Two enrollments never share a secret.
	secret2, _, err := gen.NewSecret("alice")
	require.NoError(t, err)
	assert.NotEqual(t, secret, secret2)
}
