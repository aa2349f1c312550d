package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/matsen/cordex/internal/aggregate"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Constants for output formatting.
const (
	DefaultSearchLimit = 50 // Default limit for search

	TitleMaxLen   = 70 // Title truncation in tables
	JournalMaxLen = 40 // Journal truncation in tables
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// printHeader prints a bold section heading with an underline.
func printHeader(title string) {
	color.New(color.Bold).Printf("\n%s\n", title)
	fmt.Println(strings.Repeat("─", utf8.RuneCountInString(title)))
}

// printTable renders rows under headers to stdout.
func printTable(headers []string, rows [][]string) {
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)

	table.Header(headers)
	if err := table.Bulk(rows); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		return
	}
	if err := table.Render(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
}

// histogramRows converts a histogram into table rows.
func histogramRows(h aggregate.Histogram, keyMaxLen int) [][]string {
	rows := make([][]string, len(h))
	for i, c := range h {
		rows[i] = []string{truncateString(c.Key, keyMaxLen), strconv.Itoa(c.Count)}
	}
	return rows
}

// yearRows converts a year histogram into table rows.
func yearRows(years []aggregate.YearCount) [][]string {
	rows := make([][]string, len(years))
	for i, y := range years {
		rows[i] = []string{strconv.Itoa(y.Year), strconv.Itoa(y.Count)}
	}
	return rows
}

// truncateString truncates a string to maxLen runes, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen || maxLen <= 3 {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
