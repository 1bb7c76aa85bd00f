package core

import (
	"errors"
	"fmt"

	"github.com/credenzahq/credenza/crypto"
	"github.com/credenzahq/credenza/db"
	"github.com/credenzahq/credenza/totp"
)

// SetupTwoFactor provisions a fresh TOTP secret for the user and stores it
// encrypted in the pending state. Re-running setup before verification
// overwrites the pending secret.
func (a *App) SetupTwoFactor(userID string) (*totp.SetupResult, error) {
	user, err := a.userByID(userID)
	if err != nil {
		return nil, err
	}
	result, err := a.totp.Setup(user)
	if err != nil {
		return nil, fmt.Errorf("provisioning totp secret: %w", err)
	}
	return result, nil
}

// VerifyTwoFactor confirms the pending secret with a current code and
// enables the second factor.
func (a *App) VerifyTwoFactor(userID, code string) error {
	user, err := a.userByID(userID)
	if err != nil {
		return err
	}
	return a.mapTotpErr(a.totp.VerifyAndEnable(user, code))
}

// DisableTwoFactor turns the second factor off. A valid current code is
// required so a stolen session alone cannot silently remove the factor.
func (a *App) DisableTwoFactor(userID, code string) error {
	user, err := a.userByID(userID)
	if err != nil {
		return err
	}
	return a.mapTotpErr(a.totp.Disable(user, code))
}

func (a *App) userByID(userID string) (*db.User, error) {
	user, err := a.dbAuth.GetUserById(userID)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// mapTotpErr translates engine errors into the orchestrator's taxonomy. A
// decryption failure means the stored secret cannot be verified, which the
// caller sees as an invalid code.
func (a *App) mapTotpErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, totp.ErrNotConfigured):
		return ErrNotConfigured
	case errors.Is(err, totp.ErrInvalidCode):
		return ErrInvalidCode
	case errors.Is(err, crypto.ErrDecryptionFailed),
		errors.Is(err, crypto.ErrInvalidPayload),
		errors.Is(err, crypto.ErrEmptyEncryptionKey):
		return ErrInvalidCode
	default:
		return err
	}
}
