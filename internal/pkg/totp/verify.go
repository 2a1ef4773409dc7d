package totp

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base32"
	"encoding/binary"
	"fmt"
	"strings"
	"time"
)

// NoPriorCounter is the lastCounter value for a secret that has never had a
// code accepted, such as during registration.
const NoPriorCounter int64 = -1

var b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// Verifier checks submitted codes against a shared secret.
//
// Verifier holds no per-user state. The caller passes in the highest step
// counter it has already accepted for the secret and persists the counter
// returned on success.
type Verifier struct {
	period      int64
	digits      int
	windowSteps int64
}

// NewVerifier constructs a Verifier. Zero or negative arguments fall back to
// the RFC 6238 defaults: a 30-second period, 6 digits, and a one-step window.
func NewVerifier(period, digits, windowSteps int) *Verifier {
	if period <= 0 {
		period = 30
	}
	if digits <= 0 || digits > 8 {
		digits = 6
	}
	if windowSteps < 0 {
		windowSteps = 1
	}

	return &Verifier{
		period:      int64(period),
		digits:      digits,
		windowSteps: int64(windowSteps),
	}
}

// GenerateCode computes the code for the time step containing at.
func (v *Verifier) GenerateCode(secret string, at time.Time) (string, error) {
	key, err := decodeSecret(secret)
	if err != nil {
		return "", err
	}

	return hotpCode(key, uint64(at.Unix()/v.period), v.digits), nil
}

// Verify checks a submitted code against the secret at the given time.
//
// lastCounter is the highest step counter previously accepted for this
// secret; pass NoPriorCounter when none has been accepted yet. Candidates at
// or below lastCounter are never accepted, so a code that already succeeded
// cannot succeed twice.
//
// Steps are tried center-out (the current step first, then +-1 and so on up
// to the configured window) and the first constant-time match wins. On
// success the matched counter is returned and must be persisted by the
// caller as the new lastCounter. A malformed code is rejected before any
// HMAC is computed.
func (v *Verifier) Verify(secret, code string, at time.Time, lastCounter int64) (int64, bool) {
	if !wellFormed(code, v.digits) {
		return 0, false
	}

	key, err := decodeSecret(secret)
	if err != nil {
		return 0, false
	}

	counter0 := at.Unix() / v.period
	for _, d := range stepOffsets(v.windowSteps) {
		candidate := counter0 + d
		if candidate < 0 || candidate <= lastCounter {
			continue
		}

		want := hotpCode(key, uint64(candidate), v.digits)
		if subtle.ConstantTimeCompare([]byte(want), []byte(code)) == 1 {
			return candidate, true
		}
	}

	return 0, false
}

// stepOffsets returns 0, -1, +1, -2, +2, ... out to the window edge, so the
// exact step is checked before its neighbours.
func stepOffsets(windowSteps int64) []int64 {
	offsets := make([]int64, 0, 2*windowSteps+1)
	offsets = append(offsets, 0)
	for d := int64(1); d <= windowSteps; d++ {
		offsets = append(offsets, -d, d)
	}
	return offsets
}

func wellFormed(code string, digits int) bool {
	if len(code) != digits {
		return false
	}
	for i := range len(code) {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

func decodeSecret(secret string) ([]byte, error) {
	key, err := b32.DecodeString(strings.ToUpper(strings.TrimSpace(secret)))
	if err != nil {
		return nil, fmt.Errorf("totp: malformed secret: %w", err)
	}
	return key, nil
}

// hotpCode is the RFC 4226 core: HMAC-SHA1 over the big-endian counter,
// dynamic truncation to a 31-bit integer, reduced modulo 10^digits.
func hotpCode(key []byte, counter uint64, digits int) string {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)

	h := hmac.New(sha1.New, key)
	h.Write(msg[:])
	mac := h.Sum(nil)

	offset := mac[len(mac)-1] & 0x0F
	value := binary.BigEndian.Uint32(mac[offset:offset+4]) & 0x7FFFFFFF

	mod := uint32(1)
	for range digits {
		mod *= 10
	}

	return fmt.Sprintf("%0*d", digits, value%mod)
}
