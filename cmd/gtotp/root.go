package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gtotp/pkg/config"
	"gtotp/pkg/i18n"
	"gtotp/pkg/logging"
	"gtotp/pkg/totp"
	"gtotp/pkg/version"
)

// app is filled in by the root command before any subcommand runs.
type app struct {
	configPath string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:           "gtotp",
		Short:         i18n.Resolve(i18n.MsgCliShort),
		Long:          i18n.Resolve(i18n.MsgCliLong),
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.SetVersionTemplate("gtotp {{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", i18n.Resolve(i18n.MsgCliFlagConfig))
	pf.String("algorithm", totp.DefaultAlgorithm.String(), i18n.Resolve(i18n.MsgCliFlagAlgorithm))
	pf.Int64("interval", totp.DefaultInterval, i18n.Resolve(i18n.MsgCliFlagInterval))
	pf.Int("length", totp.DefaultLength, i18n.Resolve(i18n.MsgCliFlagLength))
	pf.Int("steps", totp.DefaultSteps, i18n.Resolve(i18n.MsgCliFlagSteps))
	pf.Int64("t0", totp.DefaultT0, i18n.Resolve(i18n.MsgCliFlagT0))
	pf.String("log-level", config.DefaultLogLevel, i18n.Resolve(i18n.MsgCliFlagLogLevel))
	pf.String("log-file", "", i18n.Resolve(i18n.MsgCliFlagLogFile))

	rootCmd.AddCommand(
		newServeCmd(a),
		newKeygenCmd(a),
		newCodeCmd(a),
		newVerifyCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// load resolves defaults, the config file, GTOTP_* variables and flags.
func (a *app) load(cmd *cobra.Command) error {
	path := a.configPath
	if path == "" {
		path = os.Getenv(config.EnvPrefix + "_CONFIG")
	}
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return err
	}
	if err := logging.Configure(cfg.Log.Level, cfg.Log.File); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	a.cfg = cfg
	return nil
}

// engine builds the TOTP engine from the loaded config.
func (a *app) engine() (*totp.Engine, error) {
	cfg, err := a.cfg.Engine()
	if err != nil {
		return nil, err
	}
	return totp.New(cfg)
}

func Execute() {
	err := newRootCmd().Execute()
	_ = logging.Close()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "gtotp: %v\n", err)
		os.Exit(1)
	}
}

func msg(key string, args ...any) string {
	return i18n.Msgf(key, args...)
}

// writeInfo prints to the command output and records the line in the log.
func writeInfo(cmd *cobra.Command, format string, args ...any) {
	logging.Debugf(format, args...)
	fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
}
