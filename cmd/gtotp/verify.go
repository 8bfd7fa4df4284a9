package main

import (
	"errors"

	"github.com/spf13/cobra"

	"gtotp/pkg/authenticator"
	"gtotp/pkg/i18n"
)

func newVerifyCmd(a *app) *cobra.Command {
	opts := &secretOptions{}
	cmd := &cobra.Command{
		Use:   "verify CODE",
		Short: i18n.Resolve(i18n.MsgCmdVerifyShort),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New(msg(i18n.MsgCliVerifyNeedCode))
			}
			raw, engine, err := opts.resolve(a)
			if err != nil {
				return err
			}
			auth := authenticator.New(engine, authenticator.Options{
				Responder: verifyResponder{cmd: cmd},
			})
			res, err := auth.VerifySecretAt(raw, args[0], opts.when(cmd))
			if err != nil {
				return err
			}
			if !res.Valid {
				return errors.New(msg(i18n.MsgCliVerifyFailed))
			}
			return nil
		},
	}
	opts.register(cmd)
	return cmd
}

type verifyResponder struct {
	cmd *cobra.Command
}

func (v verifyResponder) OnGenerate(authenticator.Key) {}

func (v verifyResponder) OnVerify(res authenticator.Result) {
	if res.Valid {
		writeInfo(v.cmd, msg(i18n.MsgCliVerifyOK), res.Offset, res.Counter)
	}
}

func (v verifyResponder) OnError(error) {}
