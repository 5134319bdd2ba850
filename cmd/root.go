package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/specscout/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "specscout",
	Short: "Extracts and filters product specifications from PDF datasheets",
	Long: "Scans a directory of PDF datasheets, deduplicates them by content, extracts product\n" +
		"characteristics (regex or LLM-backed), normalizes weights to grams and keeps products\n" +
		"strictly below a gram threshold, writing the result as a JSON array.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
