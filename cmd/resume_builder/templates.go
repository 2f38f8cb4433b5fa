package main

import (
	"fmt"

	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the available resume templates",
	RunE:  runTemplates,
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	for _, t := range rendering.All() {
		marker := " "
		if t.Name == rendering.DefaultTemplate {
			marker = "*"
		}
		_, _ = fmt.Fprintf(out, "%s %-10s capacity %-5.1f %s\n", marker, t.Name, t.Capacity, t.Description)
	}
	return nil
}
