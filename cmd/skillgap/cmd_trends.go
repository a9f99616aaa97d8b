package main

import (
	"fmt"

	"github.com/jrsteele09/go-skillgap-client/market"
	"github.com/spf13/cobra"
)

func newTrendsCmd(app *app) *cobra.Command {
	var days, skillsLimit, locationsLimit int

	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Show trending skills and locations from recent job postings",
		RunE: func(cmd *cobra.Command, args []string) error {
			trending, err := app.market.Trending(cmd.Context(), days, skillsLimit, locationsLimit)
			if err != nil {
				return err
			}
			printTrending(trending)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", market.DefaultDays, "analysis window in days")
	cmd.Flags().IntVar(&skillsLimit, "skills-limit", market.DefaultSkillsLimit, "maximum trending skills")
	cmd.Flags().IntVar(&locationsLimit, "locations-limit", market.DefaultLocationsLimit, "maximum trending locations")
	return cmd
}

func printTrending(trending *market.Trending) {
	fmt.Printf("Market summary, last %d days (%d postings analyzed)\n\n",
		trending.WindowDays, trending.TotalJobsAnalyzed)

	fmt.Println("Top skills:")
	for _, skill := range trending.TopSkills {
		fmt.Printf("  %-30s %4d postings (%.1f%%)\n", skill.Skill, skill.Count, skill.Percentage)
	}

	if len(trending.TopLocations) > 0 {
		fmt.Println("\nTop locations:")
		for _, location := range trending.TopLocations {
			fmt.Printf("  %-30s %4d postings\n", location.Location, location.Count)
		}
	}

	if len(trending.SalaryTrends) > 0 {
		fmt.Println("\nSalary ranges:")
		for _, salary := range trending.SalaryTrends {
			fmt.Printf("  %-30s $%.0f - $%.0f (%d postings)\n",
				salary.Location, salary.AvgMin, salary.AvgMax, salary.Count)
		}
	}
}
