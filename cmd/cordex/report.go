package main

import (
	"errors"
	"fmt"

	"github.com/matsen/cordex/internal/config"
	"github.com/matsen/cordex/internal/dataset"
	"github.com/matsen/cordex/internal/report"
	"github.com/spf13/cobra"
)

var reportPlotDir string

func init() {
	reportCmd.Flags().StringVar(&reportPlotDir, "plot-dir", "", "Output directory (default from config)")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write charts and a summary report",
	Long: `Run the batch analysis and write into the plot directory:

  publications_by_year.png   Publications per year
  top_journals.png           Top journals
  title_wordcloud.png        Title word cloud (skipped when no title has words)
  report.html                All tables on one page
  summary.json               Machine-readable result

Examples:
  cordex report
  cordex report --plot-dir /tmp/plots --human`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	if reportPlotDir != "" {
		cfg.PlotDir = config.ExpandPath(reportPlotDir)
	}
	logger := newLogger(cfg)

	res, err := report.Run(cfg, logger)
	if err != nil {
		var missing *dataset.MissingColumnsError
		if errors.Is(err, dataset.ErrDatasetNotFound) || errors.As(err, &missing) {
			exitWithError(exitCodeFor(err), "%v", err)
		}
		exitWithError(ExitError, "%v", err)
	}

	if !humanOutput {
		return outputJSON(res)
	}

	printHeader("Report")
	fmt.Printf("Run:     %s\n", res.RunID)
	fmt.Printf("Source:  %s (%s), %d rows\n", res.Source, res.Path, res.Rows)

	printHeader("Publications by Year")
	printTable([]string{"Year", "Publications"}, yearRows(res.Years))

	printHeader("Top Journals")
	printTable([]string{"Journal", "Publications"}, histogramRows(res.Journals, JournalMaxLen))

	printHeader("Top Title Words")
	if len(res.Words) == 0 {
		fmt.Println("No titles to display in word cloud.")
	} else {
		printTable([]string{"Word", "Count"}, histogramRows(res.Words[:min(len(res.Words), 10)], TitleMaxLen))
	}

	printHeader("Files in " + cfg.PlotDir)
	for _, f := range res.RelFiles(cfg.PlotDir) {
		fmt.Printf("  %s\n", f)
	}

	return nil
}
