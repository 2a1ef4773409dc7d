// Package totp implements time-based one-time password enrollment and
// verification as described in RFC 4226 and RFC 6238.
//
// Secret and provisioning URI generation is delegated to pquerna/otp. Code
// verification is implemented here because verification is stateful: every
// accepted code advances a per-user counter that later attempts must exceed,
// which blocks replaying a captured code even inside the clock-skew window.
package totp

import (
	"errors"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// ErrRandomSource indicates the secure random source could not be read.
// There is no fallback; enrollment must fail rather than degrade.
var ErrRandomSource = errors.New("totp: secure random source unavailable")

// secretSize is the shared secret length in bytes, per the RFC 4226
// recommendation for HMAC-SHA1.
const secretSize = 20

// Generator defines the contract for TOTP enrollment.
type Generator interface {
	// NewSecret creates a fresh shared secret and the otpauth:// provisioning
	// URI an authenticator app enrolls it from. The secret is returned in
	// base32 without padding and is not persisted anywhere by this call.
	NewSecret(accountName string) (secret string, uri string, err error)
}

// KeyGenerator implements Generator.
type KeyGenerator struct {
	issuer string
	period uint
	digits otp.Digits
}

// NewKeyGenerator constructs a KeyGenerator.
//
// If digits is not 6 or 8, it falls back to 6 digits. If period is 0, it uses
// the common 30-second period.
func NewKeyGenerator(issuer string, period uint, digits int) *KeyGenerator {
	d := otp.DigitsSix
	if digits == 8 {
		d = otp.DigitsEight
	}

	if period == 0 {
		period = 30
	}

	return &KeyGenerator{
		issuer: issuer,
		period: period,
		digits: d,
	}
}

// NewSecret creates a fresh shared secret and provisioning URI.
func (g *KeyGenerator) NewSecret(accountName string) (string, string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      g.issuer,
		AccountName: accountName,
		Period:      g.period,
		SecretSize:  secretSize,
		Digits:      g.digits,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", "", errors.Join(ErrRandomSource, err)
	}

	return key.Secret(), key.URL(), nil
}
