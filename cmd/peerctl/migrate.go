package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/spec-kit/peer-support/internal/persistence"
)

func newMigrateCmd(env *cliEnv) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations to POSTGRES_DSN",
		RunE: func(cmd *cobra.Command, args []string) error {
			if env.cfg.Postgres.DSN == "" {
				return errors.New("POSTGRES_DSN is not set")
			}
			if dir == "" {
				dir = env.cfg.Postgres.MigrationsDir
			}
			pg, err := persistence.NewPostgres(cmd.Context(), env.cfg.Postgres, env.logger)
			if err != nil {
				return err
			}
			defer pg.Close()
			return persistence.RunMigrations(cmd.Context(), pg.Pool, dir, env.logger)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "migrations directory (default POSTGRES_MIGRATIONS_DIR)")
	return cmd
}
