package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spec-kit/peer-support/internal/bootstrap"
	"github.com/spec-kit/peer-support/internal/domain"
)

type analyzeOutput struct {
	domain.Classification
	DeclaredUrgency  domain.Urgency `json:"declaredUrgency,omitempty"`
	EffectiveUrgency domain.Urgency `json:"effectiveUrgency,omitempty"`
}

func newAnalyzeCmd(env *cliEnv) *cobra.Command {
	var urgency string

	cmd := &cobra.Command{
		Use:   "analyze [text]",
		Short: "Classify text with the configured crisis keyword table",
		Long: `Prints the crisis classification for the given text as JSON. With
--urgency the effective urgency under the configured escalation policy is
included as well. Nothing is stored.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			classifier, err := bootstrap.NewClassifier(env.cfg.Crisis, env.logger)
			if err != nil {
				return err
			}
			out := analyzeOutput{Classification: classifier.Analyze(strings.Join(args, " "))}

			if urgency != "" {
				declared := domain.Urgency(urgency)
				if !declared.Valid() {
					return errInvalidFlag("urgency", urgency)
				}
				escalator, err := bootstrap.NewEscalator(env.cfg.Crisis)
				if err != nil {
					return err
				}
				out.DeclaredUrgency = declared
				out.EffectiveUrgency = escalator.Adjust(declared, out.Classification)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().StringVar(&urgency, "urgency", "", "declared urgency (baja, media, alta, urgente)")
	return cmd
}
