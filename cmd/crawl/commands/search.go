package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ijalalfrz/award-search-crawler/internal/app/bootstrap"
	"github.com/ijalalfrz/award-search-crawler/internal/pkg/award"
	"github.com/spf13/cobra"
)

var searchFlags struct {
	carrier     string
	origin      string
	destination string
	date        string
	cabin       string
	output      string
}

func init() {
	flags := searchCmd.Flags()
	flags.StringVar(&searchFlags.carrier, "carrier", "AC", "Two letter code of the carrier to search.")
	flags.StringVar(&searchFlags.origin, "origin", "", "Origin airport code.")
	flags.StringVar(&searchFlags.destination, "destination", "", "Destination airport code.")
	flags.StringVar(&searchFlags.date, "date", "", "Departure date, YYYY-MM-DD.")
	flags.StringVar(&searchFlags.cabin, "cabin", "economy", "Cabin class: economy, premium_economy, business or first.")
	flags.StringVarP(&searchFlags.output, "output", "o", "table", "Output format: table or json.")

	_ = searchCmd.MarkFlagRequired("origin")
	_ = searchCmd.MarkFlagRequired("destination")
	_ = searchCmd.MarkFlagRequired("date")

	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search --origin <code> --destination <code> --date <YYYY-MM-DD> [--cabin <class>] [--output table|json]",
	Short: "Runs one award search against the carrier site and prints the flights found.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := newRenderer(searchFlags.output); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if cfg.Crawler.WaitTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Crawler.WaitTimeout)
			defer cancel()
		}

		crawl := bootstrap.NewCrawler(&cfg)

		started := time.Now()
		flights := []award.Flight{}
		for f, err := range crawl.Runner.Run(ctx, searchFlags.carrier, searchFlags.origin,
			searchFlags.destination, searchFlags.date, searchFlags.cabin) {
			if err != nil {
				return fmt.Errorf("search failed after %d flights: %w", len(flights), err)
			}
			flights = append(flights, f)
		}

		slog.InfoContext(ctx, "search finished",
			slog.Int("flights", len(flights)),
			slog.Duration("elapsed", time.Since(started)))

		return renderFlights(cmd.OutOrStdout(), flights, searchFlags.output)
	},
}
