package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDatasetNotFound is matched by DatasetNotFoundError via errors.Is.
var ErrDatasetNotFound = errors.New("dataset not found")

// DatasetNotFoundError is returned when neither candidate metadata file exists.
type DatasetNotFoundError struct {
	Primary  string
	Fallback string
}

func (e *DatasetNotFoundError) Error() string {
	return fmt.Sprintf("dataset not found: neither %s nor %s exists", e.Primary, e.Fallback)
}

// Is reports whether target is ErrDatasetNotFound.
func (e *DatasetNotFoundError) Is(target error) bool {
	return target == ErrDatasetNotFound
}

// MissingColumnsError is returned when the header lacks required columns.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
}
