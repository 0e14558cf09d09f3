package cmd

import (
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "visualgallery",
		Short: "Photography portfolio with a filterable gallery and lightbox",
		Long: `Visual Gallery serves a single-page photography portfolio.

Visitors filter the gallery by category and browse images in a lightbox
with keyboard navigation. Page views and lightbox opens are recorded with
hashed addresses for the admin dashboard.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file to load before reading configuration")

	cmd.AddCommand(newServeCmd(&envFile))
	cmd.AddCommand(newCatalogCmd(&envFile))

	return cmd
}
