package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadindex/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "leadindex",
	Short: "Reconcile per-date export directories into a searchable index",
	Long: "Reads the company, person, mail, audit and evaluation exports dropped into dated " +
		"directories, reconciles them per date and serves listings, totals and search over an " +
		"embedded index that rebuilds itself from the files.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if roots, _ := cmd.Flags().GetStringSlice("root"); len(roots) > 0 {
			cfg.Sources.Roots = roots
		}
		if index, _ := cmd.Flags().GetString("index"); index != "" {
			cfg.Index.Path = index
		}

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringSlice("root", nil, "data root directories in priority order (default from config)")
	rootCmd.PersistentFlags().String("index", "", "index database path (default from config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
