// Package record defines the core domain types for CORD-19 metadata rows.
package record

import "time"

// Column names of the metadata file.
const (
	ColumnUID         = "cord_uid"
	ColumnTitle       = "title"
	ColumnJournal     = "journal"
	ColumnSource      = "source_x"
	ColumnPublishTime = "publish_time"
	ColumnAbstract    = "abstract"
)

// UnknownJournal is the category used for records without a journal.
const UnknownJournal = "Unknown"

// RequiredColumns lists the columns every metadata file must carry.
var RequiredColumns = []string{
	ColumnUID,
	ColumnTitle,
	ColumnJournal,
	ColumnSource,
	ColumnPublishTime,
	ColumnAbstract,
}

// DisplayColumns lists the columns shown in the dashboard data table.
var DisplayColumns = []string{
	ColumnUID,
	ColumnTitle,
	ColumnPublishTime,
	ColumnJournal,
	ColumnSource,
}

// Record is one row of the metadata file. Empty strings mean the cell was absent.
type Record struct {
	UID            string `json:"cord_uid"`
	Title          string `json:"title,omitempty"`
	Journal        string `json:"journal,omitempty"`
	Source         string `json:"source_x,omitempty"`
	PublishTimeRaw string `json:"publish_time_raw,omitempty"`
	AbstractRaw    string `json:"abstract_raw,omitempty"`
}

// CleanedRecord is a Record with derived fields added by the cleaning stage.
type CleanedRecord struct {
	Record

	PublishTime       *time.Time `json:"publish_time"`   // nil if publish_time could not be parsed
	Year              int        `json:"year,omitempty"` // 0 if unknown
	Abstract          string     `json:"abstract"`
	AbstractWordCount int        `json:"abstract_word_count"`
}

// HasYear reports whether the record has a publication year.
func (c CleanedRecord) HasYear() bool {
	return c.Year != 0
}

// JournalOrUnknown returns the journal name, or UnknownJournal if absent.
func (c CleanedRecord) JournalOrUnknown() string {
	if c.Journal == "" {
		return UnknownJournal
	}
	return c.Journal
}

// PublishDate formats the parsed publish time as YYYY-MM-DD, or "" if absent.
func (c CleanedRecord) PublishDate() string {
	if c.PublishTime == nil {
		return ""
	}
	return c.PublishTime.Format("2006-01-02")
}
