package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCSV = `cord_uid,sha,source_x,title,journal,abstract,publish_time
ug7v899j,abc,PMC,Clinical features of culture-proven Mycoplasma pneumoniae infections,BMC Infect Dis,"OBJECTIVE: This retrospective chart review describes the epidemiology.",2001-07-04
02tnwd4m,,PMC,Nitric oxide: a pro-inflammatory mediator,Respir Res,,2000-08-15
ejv2xln0,def,Medline,"Surfactant protein-D and pulmonary host defense",,"Surfactant protein-D (SP-D) participates in the innate response",not-a-date
`

// writeFile creates a file with the given content in dir.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestResolve(t *testing.T) {
	tmpDir := t.TempDir()
	full := filepath.Join(tmpDir, "metadata.csv")
	sample := filepath.Join(tmpDir, "sample_metadata.csv")

	// Neither exists
	_, err := Resolve(full, sample)
	if !errors.Is(err, ErrDatasetNotFound) {
		t.Fatalf("Resolve() error = %v, want ErrDatasetNotFound", err)
	}
	var nf *DatasetNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Resolve() error type = %T, want *DatasetNotFoundError", err)
	}
	if nf.Primary != full || nf.Fallback != sample {
		t.Errorf("DatasetNotFoundError = %+v, want paths %q and %q", nf, full, sample)
	}

	// Only the sample exists
	writeFile(t, tmpDir, "sample_metadata.csv", sampleCSV)
	sel, err := Resolve(full, sample)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if sel.Kind != SourceSample || sel.Path != sample {
		t.Errorf("Resolve() = %+v, want sample at %q", sel, sample)
	}

	// Full takes precedence
	writeFile(t, tmpDir, "metadata.csv", sampleCSV)
	sel, err = Resolve(full, sample)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if sel.Kind != SourceFull || sel.Path != full {
		t.Errorf("Resolve() = %+v, want full at %q", sel, full)
	}
}

func TestResolve_DirectoryIsNotAFile(t *testing.T) {
	tmpDir := t.TempDir()
	full := filepath.Join(tmpDir, "metadata.csv")
	if err := os.Mkdir(full, 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	sample := writeFile(t, tmpDir, "sample.csv", sampleCSV)

	sel, err := Resolve(full, sample)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if sel.Kind != SourceSample {
		t.Errorf("Resolve() kind = %v, want sample", sel.Kind)
	}
}

func TestSelection_Notice(t *testing.T) {
	tests := []struct {
		sel  Selection
		want string
	}{
		{Selection{Kind: SourceFull, Path: "data/metadata.csv"}, "Loaded full metadata.csv"},
		{Selection{Kind: SourceSample, Path: "data/sample_metadata.csv"}, "Loaded sample_metadata.csv"},
	}
	for _, tt := range tests {
		if got := tt.sel.Notice(); got != tt.want {
			t.Errorf("Notice() = %q, want %q", got, tt.want)
		}
	}
}

func TestSourceKind_String(t *testing.T) {
	if SourceFull.String() != "full" {
		t.Errorf("SourceFull.String() = %q", SourceFull.String())
	}
	if SourceSample.String() != "sample" {
		t.Errorf("SourceSample.String() = %q", SourceSample.String())
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	sample := writeFile(t, tmpDir, "sample_metadata.csv", sampleCSV)

	ds, err := Load(filepath.Join(tmpDir, "metadata.csv"), sample, ReadOptions{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if ds.Kind != SourceSample {
		t.Errorf("Kind = %v, want sample", ds.Kind)
	}
	if ds.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", ds.Len())
	}

	first := ds.Records[0]
	if first.UID != "ug7v899j" {
		t.Errorf("UID = %q", first.UID)
	}
	if first.Journal != "BMC Infect Dis" {
		t.Errorf("Journal = %q", first.Journal)
	}
	if first.Source != "PMC" {
		t.Errorf("Source = %q", first.Source)
	}
	if first.PublishTimeRaw != "2001-07-04" {
		t.Errorf("PublishTimeRaw = %q", first.PublishTimeRaw)
	}

	if ds.Records[1].AbstractRaw != "" {
		t.Errorf("AbstractRaw = %q, want empty", ds.Records[1].AbstractRaw)
	}
	if ds.Records[2].Title != "Surfactant protein-D and pulmonary host defense" {
		t.Errorf("quoted Title = %q", ds.Records[2].Title)
	}

	if ds.Missing["abstract"] != 1 || ds.Missing["journal"] != 1 || ds.Missing["sha"] != 1 {
		t.Errorf("Missing = %v", ds.Missing)
	}
	if ds.Missing["title"] != 0 {
		t.Errorf("Missing[title] = %d, want 0", ds.Missing["title"])
	}

	if len(ds.Fingerprint) != 64 {
		t.Errorf("Fingerprint length = %d, want 64 hex chars", len(ds.Fingerprint))
	}
}

func TestLoad_FingerprintChangesWithContent(t *testing.T) {
	tmpDir := t.TempDir()
	a := writeFile(t, tmpDir, "a.csv", sampleCSV)
	b := writeFile(t, tmpDir, "b.csv", sampleCSV+"zzzz0000,,PMC,Extra,,,2020\n")

	dsA, err := Load(a, "", ReadOptions{})
	if err != nil {
		t.Fatalf("Load(a) error = %v", err)
	}
	dsA2, err := Load(a, "", ReadOptions{})
	if err != nil {
		t.Fatalf("Load(a) error = %v", err)
	}
	dsB, err := Load(b, "", ReadOptions{})
	if err != nil {
		t.Fatalf("Load(b) error = %v", err)
	}

	if dsA.Fingerprint != dsA2.Fingerprint {
		t.Error("Fingerprint not stable across loads")
	}
	if dsA.Fingerprint == dsB.Fingerprint {
		t.Error("Fingerprint equal for different content")
	}
}

func TestLoad_TSV(t *testing.T) {
	tmpDir := t.TempDir()
	tsv := strings.Join([]string{
		"cord_uid\ttitle\tjournal\tsource_x\tpublish_time\tabstract",
		"x1\tA title, with comma\tJ\tPMC\t2020\tsome words",
	}, "\n") + "\n"
	path := writeFile(t, tmpDir, "metadata.tsv", tsv)

	ds, err := Load(path, "", ReadOptions{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ds.Records[0].Title != "A title, with comma" {
		t.Errorf("Title = %q", ds.Records[0].Title)
	}
}

func TestLoad_NotFound(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := Load(filepath.Join(tmpDir, "a.csv"), filepath.Join(tmpDir, "b.csv"), ReadOptions{})
	if !errors.Is(err, ErrDatasetNotFound) {
		t.Errorf("Load() error = %v, want ErrDatasetNotFound", err)
	}
}

func TestRead_MissingColumns(t *testing.T) {
	_, err := Read(strings.NewReader("cord_uid,title\nx,y\n"), ReadOptions{})

	var mc *MissingColumnsError
	if !errors.As(err, &mc) {
		t.Fatalf("Read() error = %v, want *MissingColumnsError", err)
	}
	want := []string{"journal", "source_x", "publish_time", "abstract"}
	if strings.Join(mc.Columns, ",") != strings.Join(want, ",") {
		t.Errorf("missing columns = %v, want %v", mc.Columns, want)
	}
}

func TestRead_EmptyInput(t *testing.T) {
	_, err := Read(strings.NewReader(""), ReadOptions{})

	var mc *MissingColumnsError
	if !errors.As(err, &mc) {
		t.Fatalf("Read() error = %v, want *MissingColumnsError", err)
	}
}

func TestRead_HeaderOnly(t *testing.T) {
	table, err := Read(strings.NewReader("cord_uid,title,journal,source_x,publish_time,abstract\n"), ReadOptions{})
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if table.Records == nil || len(table.Records) != 0 {
		t.Errorf("Records = %v, want empty non-nil slice", table.Records)
	}
}

func TestRead_BOMAndShortRows(t *testing.T) {
	input := "\ufeffcord_uid,title,journal,source_x,publish_time,abstract\n" +
		"x1,Only a title\n"

	table, err := Read(strings.NewReader(input), ReadOptions{})
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if table.Columns[0] != "cord_uid" {
		t.Errorf("Columns[0] = %q, want cord_uid", table.Columns[0])
	}
	rec := table.Records[0]
	if rec.UID != "x1" || rec.Title != "Only a title" || rec.Journal != "" {
		t.Errorf("record = %+v", rec)
	}
	if table.Missing["abstract"] != 1 || table.Missing["journal"] != 1 {
		t.Errorf("Missing = %v", table.Missing)
	}
}

func TestRead_MalformedQuote(t *testing.T) {
	input := "cord_uid,title,journal,source_x,publish_time,abstract\n" +
		"x1,\"unterminated,J,PMC,2020,abs\n"

	if _, err := Read(strings.NewReader(input), ReadOptions{}); err == nil {
		t.Error("Read() should fail on an unterminated quote")
	}
}
