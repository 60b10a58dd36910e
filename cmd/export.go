package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/resale-labs/lister/internal/config"
	"github.com/resale-labs/lister/internal/export"
	"github.com/resale-labs/lister/internal/store"
)

func newExportCmd() *cobra.Command {
	var format string
	var output string
	var settingsPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export persisted listings to CSV or Parquet",
		Example: `  # Write all listings as CSV to stdout
  lister export

  # Write a parquet file
  lister export --format parquet --output listings.parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(settingsPath)
			if err != nil {
				return err
			}

			st, err := store.Open(settings.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			listings, err := st.ListListings()
			if err != nil {
				return err
			}

			out := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer f.Close()
				out = f
			}

			switch format {
			case "csv":
				return export.WriteCSV(out, listings)
			case "parquet":
				if output == "" {
					return fmt.Errorf("parquet export requires --output")
				}
				return export.WriteParquet(out, listings)
			default:
				return fmt.Errorf("unsupported format: %s (supported: csv, parquet)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "csv", "Output format: csv or parquet")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&settingsPath, "settings", config.DefaultPath, "Path to the settings file")

	return cmd
}
