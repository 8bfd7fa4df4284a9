package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gtotp/internal/httpapi"
	"gtotp/pkg/authenticator"
	"gtotp/pkg/i18n"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: i18n.Resolve(i18n.MsgCmdServeShort),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.engine()
			if err != nil {
				return err
			}
			auth := authenticator.New(engine, authenticator.Options{
				Issuer:     a.cfg.Secret.Issuer,
				Host:       a.cfg.Secret.Host,
				SecretSize: a.cfg.SecretSize(),
			})
			srv, err := httpapi.NewServer(auth, a.cfg.Server)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}
	cmd.Flags().String("addr", "", i18n.Resolve(i18n.MsgCliFlagAddr))
	return cmd
}
