package main

import (
	"fmt"

	"github.com/matsen/cordex/internal/aggregate"
	"github.com/spf13/cobra"
)

var (
	yearsFilter    filterFlags
	journalsFilter filterFlags
	wordsFilter    filterFlags

	journalsTop   int
	wordsTop      int
	wordStopwords []string
)

func init() {
	addFilterFlags(yearsCmd, &yearsFilter)
	rootCmd.AddCommand(yearsCmd)

	addFilterFlags(journalsCmd, &journalsFilter)
	journalsCmd.Flags().IntVar(&journalsTop, "top", -1, "Number of journals (default from config, 0 = all)")
	rootCmd.AddCommand(journalsCmd)

	addFilterFlags(wordsCmd, &wordsFilter)
	wordsCmd.Flags().IntVar(&wordsTop, "top", -1, "Number of words (default from config, 0 = all)")
	wordsCmd.Flags().StringSliceVar(&wordStopwords, "stopword", nil, "Extra stopword (repeatable)")
	rootCmd.AddCommand(wordsCmd)
}

// YearsResponse is the response for the years command.
type YearsResponse struct {
	Source string                `json:"source"`
	Filter aggregate.Filter      `json:"filter"`
	Total  int                   `json:"total"`
	Years  []aggregate.YearCount `json:"years"`
}

// JournalsResponse is the response for the journals command.
type JournalsResponse struct {
	Source   string              `json:"source"`
	Filter   aggregate.Filter    `json:"filter"`
	Total    int                 `json:"total"`
	Journals aggregate.Histogram `json:"journals"`
}

// WordsResponse is the response for the words command.
type WordsResponse struct {
	Source string              `json:"source"`
	Filter aggregate.Filter    `json:"filter"`
	Total  int                 `json:"total"`
	Words  aggregate.Histogram `json:"words"`
}

var yearsCmd = &cobra.Command{
	Use:   "years",
	Short: "Count publications per year",
	Long: `Count publications per year, ascending by year.

Records whose publish_time could not be parsed are not counted.

Examples:
  cordex years
  cordex years --journal "PLoS One" --human`,
	Args: cobra.NoArgs,
	RunE: runYears,
}

func runYears(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	ds, cleaned := mustLoadRecords(cfg, newLogger(cfg))

	f := yearsFilter.filter()
	recs := aggregate.Apply(cleaned, f)
	years := aggregate.YearHistogram(recs)

	if humanOutput {
		printHeader(fmt.Sprintf("Publications by Year (%d records)", len(recs)))
		printTable([]string{"Year", "Publications"}, yearRows(years))
		return nil
	}
	return outputJSON(YearsResponse{Source: ds.Kind.String(), Filter: f, Total: len(recs), Years: years})
}

var journalsCmd = &cobra.Command{
	Use:   "journals",
	Short: "Count publications per journal",
	Long: `Count publications per journal, most frequent first.

Records without a journal are counted as "Unknown".

Examples:
  cordex journals --top 10
  cordex journals --year-min 2020 --year-max 2021 --human`,
	Args: cobra.NoArgs,
	RunE: runJournals,
}

func runJournals(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	ds, cleaned := mustLoadRecords(cfg, newLogger(cfg))

	top := cfg.TopJournals
	if journalsTop >= 0 {
		top = journalsTop
	}

	f := journalsFilter.filter()
	recs := aggregate.Apply(cleaned, f)
	journals := aggregate.JournalHistogram(recs, top)

	if humanOutput {
		printHeader(fmt.Sprintf("Top Journals (%d records)", len(recs)))
		printTable([]string{"Journal", "Publications"}, histogramRows(journals, JournalMaxLen))
		return nil
	}
	return outputJSON(JournalsResponse{Source: ds.Kind.String(), Filter: f, Total: len(recs), Journals: journals})
}

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "Count the most common title words",
	Long: `Count the most common words in titles.

Titles are lowercased and split on non-word characters. Stopwords and
words of at most max_short_len characters are dropped.

Examples:
  cordex words --top 20
  cordex words --stopword covid --stopword sars --human`,
	Args: cobra.NoArgs,
	RunE: runWords,
}

func runWords(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	ds, cleaned := mustLoadRecords(cfg, newLogger(cfg))

	opts := cfg.AggregateOptions().Words
	if wordsTop >= 0 {
		opts.TopK = wordsTop
	}
	opts.ExtraStopwords = append(opts.ExtraStopwords, wordStopwords...)

	f := wordsFilter.filter()
	recs := aggregate.Apply(cleaned, f)
	words := aggregate.TitleWordHistogram(recs, opts)

	if humanOutput {
		printHeader(fmt.Sprintf("Most Common Title Words (%d records)", len(recs)))
		if len(words) == 0 {
			fmt.Println("No titles to display in word cloud.")
			return nil
		}
		printTable([]string{"Word", "Count"}, histogramRows(words, TitleMaxLen))
		return nil
	}
	return outputJSON(WordsResponse{Source: ds.Kind.String(), Filter: f, Total: len(recs), Words: words})
}
