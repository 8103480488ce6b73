package main

import (
	"log/slog"

	"resume-renderer/internal/config"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "resumectl",
		Short: "Render resumes to PDF or HTML",
		Long: `resumectl composes a resume JSON document with one of the built-in
templates and prints it to PDF through a local Chrome.

Usage:
  resumectl render --in resume.json --template modern-minimal --out cv.pdf
  resumectl templates --tier premium`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(config.Load().NewLogger())
		},
	}
	root.AddCommand(newRenderCmd(), newTemplatesCmd())
	return root
}
