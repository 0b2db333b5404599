package results

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/matzehuels/swmmcosim/pkg/cosim"
)

// timeColumn heads the first CSV column.
const timeColumn = "time_hours"

// WriteJSON encodes a record as indented JSON.
func WriteJSON(rec *cosim.Record, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteCSV writes the record's samples as CSV.
func WriteCSV(rec *cosim.Record, w io.Writer) error {
	cw := csv.NewWriter(w)
	header := []string{timeColumn}
	for a, attr := range rec.Attributes {
		if a >= len(rec.Values) {
			break
		}
		for _, id := range rec.Entities {
			header = append(header, id+":"+attr.String())
		}
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(header))
	for i, t := range rec.Time {
		row = row[:0]
		row = append(row, formatFloat(t))
		for a := range rec.Values {
			for e := range rec.Values[a] {
				row = append(row, formatFloat(rec.Values[a][e][i]))
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write sample %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// Export writes a record to path in the given format ("json" or "csv").
// An empty format is taken from the file extension, defaulting to JSON.
func Export(rec *cosim.Record, path, format string) error {
	if format == "" {
		if format = formatOf(path); format == "" {
			format = "json"
		}
	}
	write := WriteJSON
	switch format {
	case "json":
	case "csv":
		write = WriteCSV
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(rec, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
