package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gtotp/pkg/i18n"
)

func newCodeCmd(a *app) *cobra.Command {
	opts := &secretOptions{}
	cmd := &cobra.Command{
		Use:   "code",
		Short: i18n.Resolve(i18n.MsgCmdCodeShort),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, engine, err := opts.resolve(a)
			if err != nil {
				return err
			}
			code, err := engine.GenerateAt(raw, opts.when(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), code)
			return nil
		},
	}
	opts.register(cmd)
	return cmd
}
