package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"gtotp/pkg/i18n"
	"gtotp/pkg/otpauth"
	"gtotp/pkg/secret"
	"gtotp/pkg/totp"
)

// secretOptions selects the shared secret for code and verify.
type secretOptions struct {
	base32 string
	hex    string
	url    string
	at     int64
}

func (o *secretOptions) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.base32, "secret", "s", "", i18n.Resolve(i18n.MsgCliFlagSecret))
	f.StringVar(&o.hex, "hex", "", i18n.Resolve(i18n.MsgCliFlagHex))
	f.StringVar(&o.url, "url", "", i18n.Resolve(i18n.MsgCliFlagURL))
	f.Int64Var(&o.at, "at", 0, i18n.Resolve(i18n.MsgCliFlagAt))
}

// resolve decodes the selected secret and returns the engine to use with it.
// An otpauth URL carries its own algorithm, digits and period, which replace
// the configured ones; steps and t0 still come from the config.
func (o *secretOptions) resolve(a *app) ([]byte, *totp.Engine, error) {
	set := 0
	for _, v := range []string{o.base32, o.hex, o.url} {
		if v != "" {
			set++
		}
	}
	switch {
	case set == 0:
		return nil, nil, errors.New(msg(i18n.MsgCliNeedSecret))
	case set > 1:
		return nil, nil, errors.New(msg(i18n.MsgCliSecretConflict))
	}

	cfg, err := a.cfg.Engine()
	if err != nil {
		return nil, nil, err
	}
	var raw []byte
	switch {
	case o.base32 != "":
		raw, err = secret.FromBase32(o.base32)
	case o.hex != "":
		raw, err = secret.FromHex(o.hex)
	default:
		var key otpauth.Key
		key, err = otpauth.Parse(o.url)
		if err == nil {
			raw = key.Secret
			cfg.Algorithm = key.Config.Algorithm
			cfg.Length = key.Config.Length
			cfg.Interval = key.Config.Interval
		}
	}
	if err != nil {
		return nil, nil, err
	}
	engine, err := totp.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return raw, engine, nil
}

// when returns the --at instant, or now if the flag was not given.
func (o *secretOptions) when(cmd *cobra.Command) time.Time {
	if cmd.Flags().Changed("at") {
		return time.Unix(o.at, 0)
	}
	return time.Now()
}
