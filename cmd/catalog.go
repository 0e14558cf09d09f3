package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Zachkp/visualgallery/internal/config"
	"github.com/Zachkp/visualgallery/internal/gallery"
)

func newCatalogCmd(envFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and validate image catalogs",
	}

	cmd.AddCommand(newCatalogListCmd(envFile))
	cmd.AddCommand(newCatalogValidateCmd())

	return cmd
}

func newCatalogListCmd(envFile *string) *cobra.Command {
	var category, catalogPath, format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the images shown for a category",
		Example: `  visualgallery catalog list --category nature
  visualgallery catalog list --catalog photos.yaml --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("catalog") {
				cfg, err := config.Load(*envFile)
				if err != nil {
					return err
				}
				catalogPath = cfg.CatalogPath
			}
			catalog, err := loadCatalog(catalogPath)
			if err != nil {
				return err
			}
			images := gallery.Filter(catalog, gallery.Category(category))
			return writeImages(cmd.OutOrStdout(), format, images)
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", string(gallery.CategoryAll), "Category to filter by")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "YAML catalog file (defaults to CATALOG_PATH or the built-in catalog)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, yaml or json")

	return cmd
}

func newCatalogValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a YAML catalog file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := gallery.LoadCatalogFile(args[0])
			if err != nil {
				return err
			}
			featured := gallery.Filter(catalog, gallery.CategoryFeatured)
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d images, %d featured\n", args[0], catalog.Len(), len(featured))
			return nil
		},
	}
}

func writeImages(w io.Writer, format string, images []gallery.ImageRecord) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(images)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(map[string][]gallery.ImageRecord{"images": images}); err != nil {
			return err
		}
		return enc.Close()
	case "table":
		t := table.New().
			Border(lipgloss.NormalBorder()).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return lipgloss.NewStyle().Bold(true).Padding(0, 1)
				}
				return lipgloss.NewStyle().Padding(0, 1)
			}).
			Headers("ID", "TITLE", "CATEGORY", "ASPECT")
		for _, img := range images {
			t.Row(strconv.Itoa(img.ID), img.Title, string(img.Category), string(img.Aspect))
		}
		_, err := fmt.Fprintln(w, t.Render())
		return err
	}
	return fmt.Errorf("unknown format %q: want table, yaml or json", format)
}
