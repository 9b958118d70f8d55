package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/peer-support/internal/config"
	"github.com/spec-kit/peer-support/internal/observability"
)

// cliEnv carries what every subcommand needs once configuration is loaded.
type cliEnv struct {
	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	env := &cliEnv{}
	var verbose bool

	root := &cobra.Command{
		Use:   "peerctl",
		Short: "Administrative tooling for the peer-support service",
		Long: `peerctl works against the same configuration as the API server
(environment variables or a .env file).

It can preview crisis classification, apply database migrations,
provision counselor accounts and move the message collection between
storage backends.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			// stdout is reserved for command output.
			cfg.Logger.Output = "stderr"
			if verbose {
				cfg.Logger.Level = "debug"
			}
			logger, err := observability.NewLogger(cfg.Logger)
			if err != nil {
				return err
			}
			env.cfg = cfg
			env.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if env.logger != nil {
				_ = env.logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newAnalyzeCmd(env),
		newMigrateCmd(env),
		newCounselorCmd(env),
		newExportCmd(env),
		newImportCmd(env),
	)
	return root
}

func errInvalidFlag(name, value string) error {
	return fmt.Errorf("invalid --%s %q", name, value)
}
