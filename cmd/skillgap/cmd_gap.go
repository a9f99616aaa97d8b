package main

import (
	"fmt"
	"strings"

	"github.com/jrsteele09/go-skillgap-client/gapanalysis"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newGapCmd(app *app) *cobra.Command {
	var roles []string

	cmd := &cobra.Command{
		Use:   "gap",
		Short: "Run a skill-gap analysis over your target roles",
		Long: "Polls the backend for a skill-gap analysis per target role. Results that " +
			"are still being computed are retried on a fixed interval until at least " +
			"one role resolves or the attempt budget runs out.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.requireSession(cmd) {
				return nil
			}

			targets := roles
			if len(targets) == 0 {
				targets = app.session.Current().User.TargetRoles
			}
			if len(targets) == 0 {
				fmt.Println("No target roles configured. Add some with `skillgap profile update --roles ...`.")
				return nil
			}

			fmt.Printf("Analyzing %s ...\n", strings.Join(targets, ", "))
			campaign := app.aggregator.Run(cmd.Context(), targets)
			if campaign.Err != nil {
				printAnalysisError(campaign.Err)
				return fmt.Errorf("gap analysis failed")
			}

			// Preserve target order; only roles that resolved this round
			// have results.
			for _, role := range campaign.Targets {
				analysis, ok := campaign.Results[role]
				if !ok {
					fmt.Printf("\n%s: no result yet\n", role)
					continue
				}
				printAnalysis(analysis)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&roles, "role", nil, "role to analyze (repeatable, defaults to profile target roles)")
	return cmd
}

func printAnalysis(analysis gapanalysis.Analysis) {
	fmt.Printf("\n%s: %.1f%% coverage (%d/%d required skills, %d postings analyzed)\n",
		analysis.Role,
		analysis.CoveragePercentage,
		analysis.SkillMatchCount,
		analysis.TotalRequiredSkills,
		analysis.TotalPostingsAnalyzed,
	)
	for _, item := range analysis.RequiredSkills {
		marker := " "
		if item.UserHas {
			marker = "x"
		}
		fmt.Printf("  [%s] %s (%.1f%% of postings)\n", marker, item.Skill, item.RequiredPercentage)
	}
	if len(analysis.MissingSkills) > 0 {
		fmt.Printf("  Missing: %s\n", strings.Join(analysis.MissingSkills, ", "))
	}
}

func printAnalysisError(err error) {
	var analysisErr *gapanalysis.AnalysisError
	if !errors.As(err, &analysisErr) {
		fmt.Println(err.Error())
		return
	}

	fmt.Println(analysisErr.Message)
	for _, suggestion := range analysisErr.Suggestions {
		fmt.Printf("  - %s\n", suggestion)
	}
	if len(analysisErr.Alternatives) > 0 {
		fmt.Printf("Roles with data: %s\n", strings.Join(analysisErr.Alternatives, ", "))
	}
}
