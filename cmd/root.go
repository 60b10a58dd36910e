package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lister",
		Short: "Turn batches of product photos into marketplace listings with AI-inferred attributes",
		Long: `Lister ingests product photos, groups them by SKU, and uses a multimodal
LLM to infer listing attributes (title, price, category, brand, size, color,
condition, description).

Human corrections made during review are logged and fed back into future
prompts so inference improves over time. Finished listings live in a local
sqlite database and can be exported for marketplace upload.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newFeedbackCmd())

	return cmd
}
