package main

import (
	"fmt"
	"strconv"

	"github.com/matsen/cordex/internal/describe"
	"github.com/spf13/cobra"
)

var describeHead int

func init() {
	describeCmd.Flags().IntVar(&describeHead, "head", -1, "Number of preview rows (default from config)")
	rootCmd.AddCommand(describeCmd)
}

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Show dataset shape, missing values and first rows",
	Long: `Show which metadata file was loaded, its shape, the number of empty
cells per column, and the first cleaned rows.

Examples:
  cordex describe
  cordex describe --head 10 --human`,
	Args: cobra.NoArgs,
	RunE: runDescribe,
}

func runDescribe(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	ds, cleaned := mustLoadRecords(cfg, newLogger(cfg))

	head := cfg.HeadRows
	if describeHead >= 0 {
		head = describeHead
	}
	s := describe.Describe(ds, cleaned, head)

	if !humanOutput {
		return outputJSON(s)
	}

	printHeader("Dataset")
	fmt.Printf("Source:      %s (%s)\n", s.Source, s.Path)
	fmt.Printf("Shape:       %d rows x %d columns\n", s.Rows, len(s.Columns))
	fmt.Printf("With year:   %d\n", s.YearCoverage)
	fmt.Printf("Fingerprint: %s\n", s.Fingerprint)

	printHeader("Missing Values")
	missing := make([][]string, len(s.Missing))
	for i, m := range s.Missing {
		missing[i] = []string{m.Column, strconv.Itoa(m.Missing), fmt.Sprintf("%.1f%%", m.Percent)}
	}
	printTable([]string{"Column", "Missing", "Percent"}, missing)

	printHeader("Abstract Word Counts")
	fmt.Printf("Mean %.1f, median %.1f, max %d, empty %d\n",
		s.Abstracts.Mean, s.Abstracts.Median, s.Abstracts.Max, s.Abstracts.Zero)

	if len(s.Head) > 0 {
		printHeader("First Rows")
		rows := make([][]string, len(s.Head))
		for i, h := range s.Head {
			rows[i] = []string{h.UID, truncateString(h.Title, TitleMaxLen), h.PublishTime, truncateString(h.Journal, JournalMaxLen), strconv.Itoa(h.AbstractWordCount)}
		}
		printTable([]string{"cord_uid", "Title", "Published", "Journal", "Abstract words"}, rows)
	}

	return nil
}
