// Package dataset resolves and loads the metadata file into memory.
package dataset

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matsen/cordex/internal/record"
	"golang.org/x/crypto/blake2b"
)

// SourceKind tells which of the two candidate files was used.
type SourceKind int

const (
	SourceFull SourceKind = iota
	SourceSample
)

func (k SourceKind) String() string {
	switch k {
	case SourceFull:
		return "full"
	case SourceSample:
		return "sample"
	default:
		return fmt.Sprintf("SourceKind(%d)", int(k))
	}
}

// MarshalText encodes the kind as "full" or "sample".
func (k SourceKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Selection is the outcome of resolving the candidate paths.
type Selection struct {
	Kind SourceKind `json:"source"`
	Path string     `json:"path"`
}

// Notice is the human-readable line saying which source was used.
func (s Selection) Notice() string {
	if s.Kind == SourceFull {
		return "Loaded full " + filepath.Base(s.Path)
	}
	return "Loaded " + filepath.Base(s.Path)
}

// Dataset is a loaded metadata file.
type Dataset struct {
	Selection

	Columns     []string        `json:"columns"`
	Records     []record.Record `json:"-"`
	Missing     map[string]int  `json:"missing"`
	Fingerprint string          `json:"fingerprint"` // BLAKE2b-256 of the file bytes
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.Records)
}

// Resolve picks the primary path if it exists as a regular file, else the fallback.
// It does not read either file.
func Resolve(primary, fallback string) (Selection, error) {
	if isFile(primary) {
		return Selection{Kind: SourceFull, Path: primary}, nil
	}
	if isFile(fallback) {
		return Selection{Kind: SourceSample, Path: fallback}, nil
	}
	return Selection{}, &DatasetNotFoundError{Primary: primary, Fallback: fallback}
}

// Load resolves the candidate paths and reads the chosen file.
func Load(primary, fallback string, opts ReadOptions) (*Dataset, error) {
	sel, err := Resolve(primary, fallback)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(sel.Path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", sel.Path, err)
	}
	defer f.Close()

	if opts.Delimiter == 0 {
		opts.Delimiter = delimiterFor(sel.Path)
	}

	h, err := blake2b.New256(nil)
	if err != nil {
		return nil, fmt.Errorf("creating hash: %w", err)
	}
	tee := io.TeeReader(f, h)

	table, err := Read(tee, opts)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", sel.Path, err)
	}
	// Drain anything the parser did not consume so the digest covers the whole file.
	if _, err := io.Copy(io.Discard, tee); err != nil {
		return nil, fmt.Errorf("reading %s: %w", sel.Path, err)
	}

	return &Dataset{
		Selection:   sel,
		Columns:     table.Columns,
		Records:     table.Records,
		Missing:     table.Missing,
		Fingerprint: hex.EncodeToString(h.Sum(nil)),
	}, nil
}

// delimiterFor returns the default field separator for a path.
func delimiterFor(path string) rune {
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		return '\t'
	}
	return ','
}

func isFile(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
