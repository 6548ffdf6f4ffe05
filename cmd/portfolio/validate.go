package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the content documents and print a summary",
	Long: `Load personal.json, projects.json, experience.json and skills.json the same
way the server does at startup and report the first problem found.

Examples:
  portfolio validate
  portfolio validate --content-dir ./content`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		dir := contentDir(cmd, cfg.ContentDir)

		store, err := loadContent(dir)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		source := dir
		if source == "" {
			source = "embedded"
		}
		fmt.Fprintf(out, "content OK (%s)\n", source)
		fmt.Fprintf(out, "  profile:    %s\n", store.Personal().Name)
		fmt.Fprintf(out, "  projects:   %d (%d featured)\n", len(store.Projects()), len(store.FeaturedProjects()))
		fmt.Fprintf(out, "  categories: %v\n", store.Categories())
		fmt.Fprintf(out, "  experience: %d\n", len(store.Experience()))
		fmt.Fprintf(out, "  skills:     %d categories\n", len(store.SkillCategories()))
		for _, w := range store.SkillLevelWarnings() {
			fmt.Fprintf(out, "  warning: %s/%s level %d outside 0-100\n", w.Category, w.Skill, w.Level)
		}
		return nil
	},
}
