package main

import (
	"fmt"

	"github.com/jonathan/resume-builder/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for editing, paginating, previewing and exporting resumes.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config or PORT, else 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	heights, err := loadHeights(cfg)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Port:                     cfg.Port,
		DatabaseURL:              cfg.DatabaseURL,
		Heights:                  heights,
		PageCapacity:             cfg.PageCapacity,
		ExportStrategy:           cfg.ExportStrategy,
		ExportOptions:            exportOptions(cfg),
		ExportRateLimitPerMinute: cfg.ExportRateLimitPerMinute,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
