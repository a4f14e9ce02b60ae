package main

import (
	"github.com/spf13/cobra"

	"shellsync/internal/daemonrun"
)

func newDaemonCommand(ctx *commandContext) *cobra.Command {
	var logLevel string
	var development bool
	var noReload bool

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the shellsync daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if socket := ctx.socketPath(); socket != cfg.SocketPath() {
				cfg.Socket.Path = socket
			}
			opts := daemonrun.Options{
				LogLevel:    logLevel,
				Development: development,
			}
			if !noReload && ctx.configSeen {
				opts.ConfigPath = ctx.configPath
			}
			return daemonrun.Run(cmd.Context(), cfg, opts)
		},
	}
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Override the configured log level")
	cmd.Flags().BoolVar(&development, "dev", false, "Enable debug logging with source locations")
	cmd.Flags().BoolVar(&noReload, "no-reload", false, "Do not reload folders when the config file changes")
	return cmd
}
