package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/liftlog/liftlog/internal/pkg/goerror"
)

type TOTPSetupInput struct {
	// AccountName labels the enrollment in the authenticator app. It is a
	// display hint only; nothing is bound to it until registration commits.
	AccountName string `validate:"omitempty,username"`
}

type TOTPSetupOutput struct {
	Secret          string
	ProvisioningURI string
}

// TOTPSetup issues a fresh shared secret and its provisioning URI for the
// client to render as a QR code. The secret is not persisted; it only becomes
// durable if Register later verifies a code generated from it. A failed or
// abandoned registration must start over with a new secret.
func (s *Usecase) TOTPSetup(ctx context.Context, in TOTPSetupInput) (*TOTPSetupOutput, error) {
	in.AccountName = strings.TrimSpace(in.AccountName)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if in.AccountName == "" {
		in.AccountName = "user"
	}

	secret, uri, err := s.totpGen.NewSecret(in.AccountName)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate totp secret", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &TOTPSetupOutput{
		Secret:          secret,
		ProvisioningURI: uri,
	}, nil
}
