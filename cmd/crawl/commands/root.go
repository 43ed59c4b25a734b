package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ijalalfrz/award-search-crawler/internal/app/config"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	envFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "crawl",
	Short: "crawl searches carrier sites for award flights from the command line.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(envFile)
		if err != nil {
			return err
		}
		cfg = loaded

		// stdout is reserved for results
		slog.SetDefault(logger.New(os.Stderr, cfg.LogLevel))
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "The .env file to read configuration from.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
