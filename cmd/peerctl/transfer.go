package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/peer-support/internal/bootstrap"
	"github.com/spec-kit/peer-support/internal/repository"
)

func newExportCmd(env *cliEnv) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole message collection as JSON",
		Long: `Loads every record from the configured store backend and writes it in
the same JSON layout the key-value backends use. Use it together with
import to move data between backends.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			stores, err := bootstrap.OpenStores(cmd.Context(), env.cfg, env.logger)
			if err != nil {
				return err
			}
			defer stores.Close()

			records, err := stores.Messages.LoadAll(cmd.Context())
			if err != nil {
				return err
			}
			data, err := repository.EncodeRecords(records)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out != "" && out != "-" {
				if err := os.WriteFile(out, data, 0o600); err != nil {
					return err
				}
				env.logger.Info("export written", zap.String("file", out), zap.Int("records", len(records)))
				return nil
			}
			_, err = w.Write(append(data, '\n'))
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout")
	return cmd
}

func newImportCmd(env *cliEnv) *cobra.Command {
	var in string
	var force bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the message collection with a JSON export",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if in == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(in)
			}
			if err != nil {
				return err
			}
			records, err := repository.DecodeRecords(data)
			if err != nil {
				return err
			}

			stores, err := bootstrap.OpenStores(cmd.Context(), env.cfg, env.logger)
			if err != nil {
				return err
			}
			defer stores.Close()

			existing, err := stores.Messages.LoadAll(cmd.Context())
			if err != nil {
				return err
			}
			if len(existing) > 0 && !force {
				return fmt.Errorf("store already holds %d records; pass --force to replace them", len(existing))
			}
			if err := stores.Messages.SaveAll(cmd.Context(), records); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d records into %s store\n", len(records), env.cfg.Store.Backend)
			return nil
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "-", "input file, - for stdin")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite a non-empty store")
	return cmd
}
