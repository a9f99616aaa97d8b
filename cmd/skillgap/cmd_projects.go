package main

import (
	"fmt"
	"strings"

	"github.com/jrsteele09/go-skillgap-client/internal/utils"
	"github.com/jrsteele09/go-skillgap-client/projects"
	"github.com/spf13/cobra"
)

func newProjectsCmd(app *app) *cobra.Command {
	var difficulty, role string
	var skillFocus []string
	var limit int

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Show project ideas ranked by your skill match",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.requireSession(cmd) {
				return nil
			}

			recommendations, err := app.projects.Recommendations(cmd.Context(),
				projects.Difficulty(difficulty), skillFocus, role, limit)
			if err != nil {
				return err
			}

			fmt.Printf("%d of %d projects (you have %d skills)\n",
				len(recommendations.Projects), recommendations.TotalProjects,
				recommendations.UserSkillCount)
			printIdeas(recommendations.Projects)

			if len(recommendations.Recommendations) > 0 {
				fmt.Println()
				for _, recommendation := range recommendations.Recommendations {
					fmt.Printf("  - %s\n", recommendation)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "difficulty level (Beginner, Intermediate, Advanced)")
	cmd.Flags().StringSliceVar(&skillFocus, "skills", nil, "focus on projects using these skills")
	cmd.Flags().StringVar(&role, "role", "", "filter projects suited for a target role")
	cmd.Flags().IntVar(&limit, "limit", projects.DefaultRecommendationLimit, "maximum projects")

	cmd.AddCommand(newProjectsSkillBuildingCmd(app))
	cmd.AddCommand(newProjectsSearchCmd(app))
	return cmd
}

func newProjectsSkillBuildingCmd(app *app) *cobra.Command {
	var skills []string
	var difficulty string
	var limit int

	cmd := &cobra.Command{
		Use:   "skill-building",
		Short: "Show projects that teach specific skills",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.requireSession(cmd) {
				return nil
			}

			ideas, err := app.projects.SkillBuilding(cmd.Context(),
				skills, projects.Difficulty(difficulty), limit)
			if err != nil {
				return err
			}
			printIdeas(ideas)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&skills, "skills", nil, "skills to build (required)")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "difficulty level")
	cmd.Flags().IntVar(&limit, "limit", projects.DefaultRecommendationLimit, "maximum projects")
	_ = cmd.MarkFlagRequired("skills")
	return cmd
}

func newProjectsSearchCmd(app *app) *cobra.Command {
	var skills []string
	var difficulty string
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the project catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.requireSession(cmd) {
				return nil
			}

			result, err := app.projects.Search(cmd.Context(),
				args[0], skills, projects.Difficulty(difficulty), limit, offset)
			if err != nil {
				return err
			}

			fmt.Printf("%d projects matching %q\n", result.TotalFound, result.SearchQuery)
			printIdeas(result.Projects)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&skills, "skills", nil, "filter by required skills")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "difficulty level")
	cmd.Flags().IntVar(&limit, "limit", projects.DefaultSearchLimit, "maximum results")
	cmd.Flags().IntVar(&offset, "offset", 0, "results to skip")
	return cmd
}

func printIdeas(ideas []projects.Idea) {
	for _, idea := range ideas {
		fmt.Printf("\n%s [%s, %s]\n", idea.Title, idea.Difficulty, idea.EstimatedTime)
		if idea.Description != "" {
			fmt.Printf("  %s\n", idea.Description)
		}
		fmt.Printf("  Skills: %s\n", strings.Join(idea.Skills, ", "))
		if idea.SkillMatchPercentage != nil {
			fmt.Printf("  Match:  %.0f%%\n", utils.Value(idea.SkillMatchPercentage))
		}
		if len(idea.MissingSkills) > 0 {
			fmt.Printf("  To learn: %s\n", strings.Join(idea.MissingSkills, ", "))
		}
	}
}
