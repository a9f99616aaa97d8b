package main

import (
	"fmt"
	"strings"

	"github.com/jrsteele09/go-skillgap-client/internal/utils"
	"github.com/jrsteele09/go-skillgap-client/learning"
	"github.com/spf13/cobra"
)

func newRoadmapCmd(app *app) *cobra.Command {
	var role string
	var noGapAnalysis bool

	cmd := &cobra.Command{
		Use:   "roadmap",
		Short: "Show a personalized learning roadmap",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.requireSession(cmd) {
				return nil
			}

			roadmap, err := app.learning.Roadmap(cmd.Context(), role, !noGapAnalysis)
			if err != nil {
				return err
			}
			printRoadmap(roadmap)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "target role to focus the roadmap on")
	cmd.Flags().BoolVar(&noGapAnalysis, "no-gap-analysis", false, "skip gap-analysis prioritization")
	return cmd
}

func newResourcesCmd(app *app) *cobra.Command {
	var skills []string
	var resourceType, search string

	cmd := &cobra.Command{
		Use:   "resources",
		Short: "Find learning resources for skills",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.requireSession(cmd) {
				return nil
			}

			// Free-text search and skill lookup are separate endpoints;
			// a query without skills means search.
			if len(skills) == 0 && search != "" {
				result, err := app.learning.SearchResources(cmd.Context(),
					search, learning.ResourceType(resourceType), 0, 0)
				if err != nil {
					return err
				}
				fmt.Printf("%d resources matching %q\n", result.TotalFound, result.SearchQuery)
				printResources(result.Resources)
				return nil
			}

			resources, err := app.learning.Resources(cmd.Context(),
				skills, learning.ResourceType(resourceType), search)
			if err != nil {
				return err
			}
			printResources(resources)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&skills, "skills", nil, "skills to find resources for")
	cmd.Flags().StringVar(&resourceType, "type", "", "resource type (Documentation, Video, Course, Book)")
	cmd.Flags().StringVar(&search, "search", "", "free-text filter or, without --skills, a catalog search")
	return cmd
}

func printRoadmap(roadmap *learning.Roadmap) {
	if roadmap.TargetRole != "" {
		fmt.Printf("Learning roadmap for %s\n", roadmap.TargetRole)
	} else {
		fmt.Println("Learning roadmap")
	}
	fmt.Printf("%d skills, %d missing, %.1f%% coverage\n",
		roadmap.TotalSkills, roadmap.MissingSkillsCount, roadmap.CoveragePercentage)

	for _, path := range roadmap.SkillPaths {
		marker := " "
		if path.IsMissing {
			marker = "!"
		}
		fmt.Printf("\n[%s] %s (priority %.1f)\n", marker, path.Skill, utils.Value(path.PriorityScore))
		printResources(path.Resources)
	}

	if len(roadmap.Recommendations) > 0 {
		fmt.Println()
		for _, recommendation := range roadmap.Recommendations {
			fmt.Printf("  - %s\n", recommendation)
		}
	}
}

func printResources(resources []learning.Resource) {
	for _, resource := range resources {
		fmt.Printf("  %-13s %s\n", resource.Type, resource.Title)
		fmt.Printf("                %s\n", resource.URL)
		if resource.Description != "" {
			fmt.Printf("                %s\n", strings.TrimSpace(resource.Description))
		}
	}
}
