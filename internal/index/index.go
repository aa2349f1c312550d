// Package index provides an in-memory SQLite full-text index over cleaned records.
package index

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/matsen/cordex/internal/record"
	_ "modernc.org/sqlite"
)

// DB wraps an in-memory SQLite database connection.
type DB struct {
	db *sql.DB
}

// Open creates an empty in-memory index.
func Open() (*DB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}

	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection and discards the index.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS records (
			ord INTEGER PRIMARY KEY,
			cord_uid TEXT NOT NULL,
			journal TEXT NOT NULL,
			pub_year INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_records_year ON records(pub_year);
		CREATE INDEX IF NOT EXISTS idx_records_journal ON records(journal);

		CREATE VIRTUAL TABLE IF NOT EXISTS records_fts USING fts5(
			ord UNINDEXED,
			title,
			abstract
		);
	`

	_, err := db.Exec(schema)
	return err
}

// Build replaces the index contents with recs. Ordinals are positions in recs.
func (d *DB) Build(recs []record.CleanedRecord) (int, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM records"); err != nil {
		return 0, fmt.Errorf("clearing records table: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM records_fts"); err != nil {
		return 0, fmt.Errorf("clearing records_fts table: %w", err)
	}

	recStmt, err := tx.Prepare(`INSERT INTO records (ord, cord_uid, journal, pub_year) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing records insert: %w", err)
	}
	defer recStmt.Close()

	ftsStmt, err := tx.Prepare(`INSERT INTO records_fts (ord, title, abstract) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for i, r := range recs {
		if _, err := recStmt.Exec(i, r.UID, r.JournalOrUnknown(), r.Year); err != nil {
			return 0, fmt.Errorf("inserting record %d (%s): %w", i, r.UID, err)
		}
		if _, err := ftsStmt.Exec(i, r.Title, r.Abstract); err != nil {
			return 0, fmt.Errorf("inserting fts for %d (%s): %w", i, r.UID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing index: %w", err)
	}
	return len(recs), nil
}

// Count returns the number of indexed records.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM records").Scan(&count)
	return count, err
}

// SearchFilters contains optional filters for Search. Zero values disable a filter.
type SearchFilters struct {
	Keyword  string // Full-text search over title and abstract
	Title    string // Full-text search in title only
	YearFrom int    // Minimum publication year (0 = no minimum)
	YearTo   int    // Maximum publication year (0 = no maximum)
	Journal  string // Exact journal; "Unknown" matches records without one
}

// Search returns the ordinals of records matching ALL specified criteria, in
// load order. A limit <= 0 returns every match.
func (d *DB) Search(filters SearchFilters, limit int) ([]int, error) {
	var ftsTerms []string
	var args []interface{}

	if q := prepareFTSQuery(filters.Keyword, ""); q != "" {
		ftsTerms = append(ftsTerms, q)
	}
	if q := prepareFTSQuery(filters.Title, "title"); q != "" {
		ftsTerms = append(ftsTerms, q)
	}

	query := `SELECT ord FROM records WHERE 1=1`
	if len(ftsTerms) > 0 {
		query += ` AND ord IN (SELECT ord FROM records_fts WHERE records_fts MATCH ?)`
		args = append(args, strings.Join(ftsTerms, " AND "))
	}

	// Records without a year never match a year range.
	if filters.YearFrom > 0 || filters.YearTo > 0 {
		query += " AND pub_year > 0"
	}
	if filters.YearFrom > 0 {
		query += " AND pub_year >= ?"
		args = append(args, filters.YearFrom)
	}
	if filters.YearTo > 0 {
		query += " AND pub_year <= ?"
		args = append(args, filters.YearTo)
	}
	if filters.Journal != "" {
		query += " AND journal = ?"
		args = append(args, filters.Journal)
	}

	query += " ORDER BY ord"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching with filters: %w", err)
	}
	defer rows.Close()

	ords := []int{}
	for rows.Next() {
		var ord int
		if err := rows.Scan(&ord); err != nil {
			return nil, err
		}
		ords = append(ords, ord)
	}
	return ords, rows.Err()
}

// Select returns recs at the given ordinals.
func Select(recs []record.CleanedRecord, ords []int) []record.CleanedRecord {
	out := make([]record.CleanedRecord, 0, len(ords))
	for _, o := range ords {
		if o >= 0 && o < len(recs) {
			out = append(out, recs[o])
		}
	}
	return out
}

// prepareFTSQuery turns free text into an FTS5 query that matches records
// containing every whitespace-separated term. Each term is quoted so that
// operators and punctuation are never parsed as query syntax. A non-empty
// column restricts every term to that column.
func prepareFTSQuery(query, column string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ""
	}

	terms := make([]string, len(fields))
	for i, f := range fields {
		// FTS5 uses double quotes for strings; a literal quote is doubled
		term := `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
		if column != "" {
			term = column + ":" + term
		}
		terms[i] = term
	}
	return strings.Join(terms, " ")
}
