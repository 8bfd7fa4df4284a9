package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gtotp/pkg/i18n"
	"gtotp/pkg/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: i18n.Resolve(i18n.MsgCmdVersionShort),
		// No config needed to print build metadata.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Version:    %s\n", version.Version)
			fmt.Fprintf(out, "Git commit: %s\n", version.GitCommit)
			fmt.Fprintf(out, "Built:      %s\n", version.BuildDate)
			fmt.Fprintf(out, "Go version: %s\n", version.GoVersion)
		},
	}
}
