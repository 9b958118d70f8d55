package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spec-kit/peer-support/internal/bootstrap"
	"github.com/spec-kit/peer-support/internal/domain"
	"github.com/spec-kit/peer-support/internal/service"
)

func newCounselorCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "counselor",
		Short: "Manage counselor accounts",
	}
	cmd.AddCommand(newCounselorCreateCmd(env))
	return cmd
}

func newCounselorCreateCmd(env *cliEnv) *cobra.Command {
	var name, email, password, role string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a counselor account",
		Example: `  peerctl counselor create --name "Ana Ruiz" --email ana@example.com \
    --password 's3cret-pass' --role SUPERVISOR`,
		RunE: func(cmd *cobra.Command, args []string) error {
			stores, err := bootstrap.OpenStores(cmd.Context(), env.cfg, env.logger)
			if err != nil {
				return err
			}
			defer stores.Close()

			authService := service.NewAuthService(*env.cfg, stores.Counselors, env.logger)
			counselor, err := authService.CreateCounselor(cmd.Context(), name, email, password,
				domain.CounselorRole(strings.ToUpper(role)))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s <%s> role=%s id=%s\n",
				counselor.Name, counselor.Email, counselor.Role, counselor.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	cmd.Flags().StringVar(&role, "role", string(domain.CounselorRoleCounselor), "COUNSELOR, SUPERVISOR or ADMIN")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
