package otpauth

import (
	"errors"
	"fmt"

	"github.com/pquerna/otp"

	"gtotp/pkg/secret"
	"gtotp/pkg/totp"
)

var ErrNotTOTP = errors.New("otpauth: only totp keys are supported")

// Key is a parsed provisioning URL.
type Key struct {
	Issuer      string
	AccountName string
	Secret      []byte
	Config      totp.Config
}

// Parse reads an otpauth://totp URL. Missing algorithm, digits and period fall
// back to SHA1, 6 and 30; Steps and T0 take the engine defaults.
func Parse(rawURL string) (Key, error) {
	k, err := otp.NewKeyFromURL(rawURL)
	if err != nil {
		return Key{}, fmt.Errorf("parse otpauth url: %w", err)
	}
	if k.Type() != "totp" {
		return Key{}, fmt.Errorf("%w: got %q", ErrNotTOTP, k.Type())
	}
	raw, err := secret.FromBase32(k.Secret())
	if err != nil {
		return Key{}, err
	}
	if len(raw) == 0 {
		return Key{}, totp.ErrEmptySecret
	}
	alg, err := algorithmFrom(k.Algorithm())
	if err != nil {
		return Key{}, err
	}
	cfg := totp.DefaultConfig()
	cfg.Algorithm = alg
	cfg.Length = k.Digits().Length()
	cfg.Interval = int64(k.Period())
	if err := cfg.Validate(); err != nil {
		return Key{}, err
	}
	return Key{
		Issuer:      k.Issuer(),
		AccountName: k.AccountName(),
		Secret:      raw,
		Config:      cfg,
	}, nil
}

func algorithmFrom(a otp.Algorithm) (totp.Algorithm, error) {
	switch a {
	case otp.AlgorithmSHA1:
		return totp.SHA1, nil
	case otp.AlgorithmSHA256:
		return totp.SHA256, nil
	case otp.AlgorithmSHA512:
		return totp.SHA512, nil
	default:
		return 0, fmt.Errorf("%w: %s", totp.ErrUnknownAlgorithm, a)
	}
}
