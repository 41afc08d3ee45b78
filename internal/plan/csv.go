package plan

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nerrad567/hub-renamer/internal/rename"
)

// CSV column names. The header row is required; column order is not
// significant and unknown columns are ignored.
const (
	colOldEntityID     = "old_entity_id"
	colNewEntityID     = "new_entity_id"
	colOldFriendlyName = "old_friendly_name"
	colNewFriendlyName = "new_friendly_name"
)

// ReadCSV loads a rename plan from a CSV file.
//
// Only old_entity_id is a required column; the rest are optional, and an
// empty cell means unset. Row order is preserved, it drives both
// first-wins conflict resolution and the final report order.
//
// Returns:
//   - []rename.Row: Parsed rows in file order (may be empty)
//   - error: Wrapping ErrParse on any read or structure failure
func ReadCSV(path string) ([]rename.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	defer f.Close()

	rows, err := readRows(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
	}
	return rows, nil
}

// readRows parses header plus data rows from r.
func readRows(r io.Reader) ([]rename.Row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty file, header row required")
	}
	if err != nil {
		return nil, err
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols[colOldEntityID]; !ok {
		return nil, fmt.Errorf("missing required column %q", colOldEntityID)
	}

	var rows []rename.Row
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %v", line, err)
		}

		row := rename.Row{
			OldEntityID:     field(rec, cols, colOldEntityID),
			NewEntityID:     field(rec, cols, colNewEntityID),
			OldFriendlyName: field(rec, cols, colOldFriendlyName),
			NewFriendlyName: field(rec, cols, colNewFriendlyName),
		}
		if row.OldEntityID == "" {
			return nil, fmt.Errorf("line %d: old_entity_id is empty", line)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// field extracts a named column from a record, empty if the column is
// absent from the header.
func field(rec []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}

// WriteCSV exports a plan so it can be reviewed, hand-edited, and fed
// back in with ReadCSV.
func WriteCSV(path string, rows []rename.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing plan: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{colOldEntityID, colNewEntityID, colOldFriendlyName, colNewFriendlyName}); err != nil {
		return fmt.Errorf("writing plan: %w", err)
	}
	for _, row := range rows {
		rec := []string{row.OldEntityID, row.NewEntityID, row.OldFriendlyName, row.NewFriendlyName}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("writing plan: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writing plan: %w", err)
	}
	return nil
}
