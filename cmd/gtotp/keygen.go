package main

import (
	"errors"
	"fmt"
	"os/user"
	"strings"

	"github.com/spf13/cobra"

	"gtotp/pkg/authenticator"
	"gtotp/pkg/i18n"
	"gtotp/pkg/otpauth"
	"gtotp/pkg/secret"
	"gtotp/pkg/util"
)

type keygenOptions struct {
	label     string
	out       string
	force     bool
	qrMode    string
	qrInverse bool
	showHex   bool
}

func newKeygenCmd(a *app) *cobra.Command {
	opts := keygenOptions{}
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: i18n.Resolve(i18n.MsgCmdKeygenShort),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeygen(cmd, a, opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.label, "label", "l", defaultLabel(), i18n.Resolve(i18n.MsgCliFlagLabel))
	f.StringP("issuer", "i", "", i18n.Resolve(i18n.MsgCliFlagIssuer))
	f.String("host", "", i18n.Resolve(i18n.MsgCliFlagHost))
	f.Int("size", int(secret.SizeDefault), i18n.Resolve(i18n.MsgCliFlagSize))
	f.StringVarP(&opts.out, "out", "o", "", i18n.Resolve(i18n.MsgCliFlagOut))
	f.BoolVarP(&opts.force, "force", "f", false, i18n.Resolve(i18n.MsgCliFlagForce))
	f.StringVarP(&opts.qrMode, "qr-mode", "Q", "ansi", i18n.Resolve(i18n.MsgCliFlagQRMode))
	f.BoolVar(&opts.qrInverse, "qr-inverse", false, i18n.Resolve(i18n.MsgCliFlagQRInverse))
	f.BoolVar(&opts.showHex, "hex", false, i18n.Resolve(i18n.MsgCliFlagShowHex))
	return cmd
}

func runKeygen(cmd *cobra.Command, a *app, opts keygenOptions) error {
	mode := strings.ToLower(strings.TrimSpace(opts.qrMode))
	switch mode {
	case "ansi", "utf8", "none":
	default:
		return fmt.Errorf("unknown --qr-mode %q", opts.qrMode)
	}
	var path string
	if opts.out != "" {
		p, err := util.ExpandPath(opts.out)
		if err != nil {
			return err
		}
		if !opts.force && util.FileExists(p) {
			return errors.New(msg(i18n.MsgCliFileExists, p))
		}
		path = p
	}
	engine, err := a.engine()
	if err != nil {
		return err
	}
	auth := authenticator.New(engine, authenticator.Options{
		Issuer:     a.cfg.Secret.Issuer,
		Host:       a.cfg.Secret.Host,
		SecretSize: a.cfg.SecretSize(),
	})
	key, err := auth.GenerateKey(opts.label)
	if err != nil {
		return err
	}

	writeInfo(cmd, msg(i18n.MsgCliSetupURL), key.URL)
	if mode != "none" {
		qr, err := otpauth.Terminal(key.URL, opts.qrInverse, mode == "utf8")
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), msg(i18n.MsgCliQRFail, err))
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), qr)
		}
	}
	writeInfo(cmd, msg(i18n.MsgCliSetupSecret), key.Encoded)
	if opts.showHex {
		writeInfo(cmd, msg(i18n.MsgCliSetupHex), secret.ToHex(key.Secret))
	}

	if path == "" {
		return nil
	}
	if err := util.WriteSecretFile(path, []byte(key.Encoded+"\n"), opts.force); err != nil {
		if errors.Is(err, util.ErrFileExists) {
			return errors.New(msg(i18n.MsgCliFileExists, path))
		}
		return err
	}
	writeInfo(cmd, msg(i18n.MsgCliSecretWritten), path)
	return nil
}

func defaultLabel() string {
	current, err := user.Current()
	if err == nil && current.Username != "" {
		return current.Username
	}
	return "user"
}
