// Package clean derives normalized fields from raw metadata records.
package clean

import (
	"errors"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/matsen/cordex/internal/record"
)

// layouts are tried in order before falling back to dateparse.
var layouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01",
	"2006",
	"2006 Jan 2",
	"2006 Jan",
	"Jan 2, 2006",
	"Jan 2006",
	"January 2006",
	"02.01.2006",
}

var errUnparseable = errors.New("unparseable date")

// Clean returns one CleanedRecord per input record, in the same order.
// The input slice is not modified.
func Clean(records []record.Record) []record.CleanedRecord {
	cleaned := make([]record.CleanedRecord, len(records))
	for i, r := range records {
		cleaned[i] = CleanRecord(r)
	}
	return cleaned
}

// CleanRecord derives publish time, year, abstract and word count for one record.
func CleanRecord(r record.Record) record.CleanedRecord {
	c := record.CleanedRecord{
		Record:   r,
		Abstract: r.AbstractRaw,
	}

	c.PublishTime = ParsePublishTime(r.PublishTimeRaw)
	if c.PublishTime != nil {
		c.Year = c.PublishTime.Year()
	}
	c.AbstractWordCount = WordCount(c.Abstract)

	return c
}

// ParsePublishTime parses a loosely formatted date in UTC.
// It returns nil for empty or unparseable input and never fails.
func ParsePublishTime(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return validYear(t)
		}
	}

	t, err := parseAny(s)
	if err != nil {
		return nil
	}
	return validYear(t.UTC())
}

// validYear rejects times whose year cannot serve as a histogram key.
func validYear(t time.Time) *time.Time {
	if t.Year() < 1 {
		return nil
	}
	return &t
}

// parseAny wraps dateparse, which panics on a handful of malformed inputs.
func parseAny(s string) (t time.Time, err error) {
	defer func() {
		if r := recover(); r != nil {
			t, err = time.Time{}, errUnparseable
		}
	}()
	return dateparse.ParseIn(s, time.UTC)
}

// WordCount counts whitespace-delimited tokens.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// Raw renders a cleaned record back into the raw form it could have been read from.
func Raw(c record.CleanedRecord) record.Record {
	r := c.Record
	r.PublishTimeRaw = ""
	if c.PublishTime != nil {
		t := c.PublishTime.UTC()
		if t.Equal(t.Truncate(24 * time.Hour)) {
			r.PublishTimeRaw = t.Format("2006-01-02")
		} else {
			r.PublishTimeRaw = t.Format(time.RFC3339Nano)
		}
	}
	r.AbstractRaw = c.Abstract
	return r
}
