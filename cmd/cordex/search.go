package main

import (
	"fmt"

	"github.com/matsen/cordex/internal/aggregate"
	"github.com/matsen/cordex/internal/index"
	"github.com/spf13/cobra"
)

var (
	searchLimit  int
	searchTitle  bool
	searchFilter filterFlags
)

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", DefaultSearchLimit, "Maximum results to return (0 = all)")
	searchCmd.Flags().BoolVar(&searchTitle, "title", false, "Search titles only")
	addFilterFlags(searchCmd, &searchFilter)
	rootCmd.AddCommand(searchCmd)
}

// SearchResult is one record in search results.
type SearchResult struct {
	UID         string `json:"cord_uid"`
	Title       string `json:"title"`
	Journal     string `json:"journal,omitempty"`
	Year        int    `json:"year,omitempty"`
	PublishTime string `json:"publish_time,omitempty"`
}

// SearchResponse is the response for the search command.
type SearchResponse struct {
	Query   string         `json:"query"`
	Total   int            `json:"total"`
	Results []SearchResult `json:"results"`
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search titles and abstracts",
	Long: `Search titles and abstracts with a full-text index built in memory.

Multiple words must all match. Operators such as AND, OR and NOT and
punctuation are matched as plain text, never as query syntax.

Examples:
  cordex search "incubation period"
  cordex search masks --title --year-min 2020
  cordex search covid-19 --journal Unknown --human`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	_, cleaned := mustLoadRecords(cfg, newLogger(cfg))

	db, err := index.Open()
	if err != nil {
		exitWithError(ExitError, "opening index: %v", err)
	}
	defer db.Close()
	if _, err := db.Build(cleaned); err != nil {
		exitWithError(ExitError, "building index: %v", err)
	}

	query := args[0]
	f := searchFilter.filter()
	filters := index.SearchFilters{YearFrom: f.YearMin, YearTo: f.YearMax}
	if f.Journal != aggregate.AllJournals {
		filters.Journal = f.Journal
	}
	if searchTitle {
		filters.Title = query
	} else {
		filters.Keyword = query
	}

	ords, err := db.Search(filters, searchLimit)
	if err != nil {
		exitWithError(ExitError, "searching: %v", err)
	}

	results := make([]SearchResult, 0, len(ords))
	for _, r := range index.Select(cleaned, ords) {
		results = append(results, SearchResult{
			UID:         r.UID,
			Title:       r.Title,
			Journal:     r.Journal,
			Year:        r.Year,
			PublishTime: r.PublishDate(),
		})
	}

	if !humanOutput {
		return outputJSON(SearchResponse{Query: query, Total: len(results), Results: results})
	}

	if len(results) == 0 {
		fmt.Println("No records found")
		return nil
	}
	printHeader(fmt.Sprintf("Found %d records", len(results)))
	rows := make([][]string, len(results))
	for i, r := range results {
		rows[i] = []string{r.UID, truncateString(r.Title, TitleMaxLen), r.PublishTime, truncateString(r.Journal, JournalMaxLen)}
	}
	printTable([]string{"cord_uid", "Title", "Published", "Journal"}, rows)
	return nil
}
