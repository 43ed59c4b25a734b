package commands

import (
	"github.com/ijalalfrz/award-search-crawler/internal/app/bootstrap"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(carriersCmd)
}

var carriersCmd = &cobra.Command{
	Use:   "carriers",
	Short: "Prints the carriers that can be searched.",
	Run: func(cmd *cobra.Command, args []string) {
		crawl := bootstrap.NewCrawler(&cfg)

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Code", "Carrier"})

		for _, a := range crawl.Registry.Airlines() {
			t.AppendRow(table.Row{string(a), a.Name()})
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
