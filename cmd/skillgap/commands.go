package main

import (
	"github.com/jrsteele09/go-skillgap-client/internal/config"
	"github.com/spf13/cobra"
)

func newRootCmd(app *app, cfg config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "skillgap",
		Short:         "Career skill-gap analysis client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if cmd.Name() == "login" || cmd.Name() == "register" {
				displayAppname(cfg.GetAppName())
			}
		},
	}

	rootCmd.AddCommand(
		newLoginCmd(app),
		newRegisterCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newProfileCmd(app),
		newGapCmd(app),
		newTrendsCmd(app),
		newRoadmapCmd(app),
		newResourcesCmd(app),
		newProjectsCmd(app),
	)
	return rootCmd
}
