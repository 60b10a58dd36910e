package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/resale-labs/lister/internal/config"
	"github.com/resale-labs/lister/internal/store"
)

func newFeedbackCmd() *cobra.Command {
	var limit int
	var settingsPath string

	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Show the most recent corrections the AI is learning from",
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

			events, err := st.RecentFeedback(limit)
			if err != nil {
				return err
			}

			if len(events) == 0 {
				fmt.Println("No corrections recorded yet. Edits made during review are logged here.")
				return nil
			}

			fmt.Println("========================================")
			fmt.Println("Recent Corrections")
			fmt.Println("========================================")
			for _, ev := range events {
				fmt.Printf("%s  %-10s %q -> %q  (%s)\n",
					ev.Timestamp.Format("2006-01-02 15:04"),
					ev.Field, ev.Original, ev.Corrected, ev.ProductType)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of corrections to show")
	cmd.Flags().StringVar(&settingsPath, "settings", config.DefaultPath, "Path to the settings file")

	return cmd
}
