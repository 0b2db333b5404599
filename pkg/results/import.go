package results

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/swmmcosim/pkg/cosim"
	"github.com/matzehuels/swmmcosim/pkg/errors"
	"github.com/matzehuels/swmmcosim/pkg/extreme"
	"github.com/matzehuels/swmmcosim/pkg/records"
)

// ReadJSON decodes a record written by [WriteJSON]. Value series must match
// the time series in length and the declared entities and attributes in
// count; mismatches fail with SHAPE.
func ReadJSON(r io.Reader) (*cosim.Record, error) {
	var rec cosim.Record
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := checkRecord(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ImportJSON reads a record file.
func ImportJSON(path string) (*cosim.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

func checkRecord(rec *cosim.Record) error {
	if len(rec.Values) == 0 {
		return nil
	}
	if len(rec.Values) != len(rec.Attributes) {
		return errors.New(errors.ErrCodeShape, "record has %d value groups for %d attributes", len(rec.Values), len(rec.Attributes))
	}
	for a, group := range rec.Values {
		if len(group) != len(rec.Entities) {
			return errors.New(errors.ErrCodeShape, "attribute %s has %d series for %d entities", rec.Attributes[a], len(group), len(rec.Entities))
		}
		for e, series := range group {
			if len(series) != len(rec.Time) {
				return errors.New(errors.ErrCodeShape, "%s of %s has %d samples, want %d",
					rec.Attributes[a], rec.Entities[e], len(series), len(rec.Time))
			}
		}
	}
	return nil
}

// ReadCSV reads samples written by [WriteCSV]. It returns the value column
// names and one series per value column.
func ReadCSV(r io.Reader) ([]string, [][]float64, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 || len(rows[0]) < 2 || rows[0][0] != timeColumn {
		return nil, nil, errors.New(errors.ErrCodeShape, "csv must start with a %q column and at least one value column", timeColumn)
	}
	names := rows[0][1:]
	cols := make([][]float64, len(names))
	for i, row := range rows[1:] {
		for c := range names {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[c+1]), 64)
			if err != nil {
				return nil, nil, errors.Wrap(errors.ErrCodeShape, err, "row %d, column %s", i+2, names[c])
			}
			cols[c] = append(cols[c], v)
		}
	}
	return names, cols, nil
}

// LoadData reads finder input from path; see the package documentation for
// the accepted formats.
func LoadData(path string) (extreme.Data, error) {
	switch formatOf(path) {
	case "json":
		b, err := os.ReadFile(path)
		if err != nil {
			return extreme.Data{}, fmt.Errorf("read %s: %w", path, err)
		}
		return dataFromJSON(b)
	case "csv":
		f, err := os.Open(path)
		if err != nil {
			return extreme.Data{}, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		_, cols, err := ReadCSV(f)
		if err != nil {
			return extreme.Data{}, err
		}
		if len(cols) == 1 {
			return extreme.Flat(cols[0]), nil
		}
		return extreme.Nested2(cols), nil
	default:
		m, err := records.LoadFloats(path)
		if err != nil {
			return extreme.Data{}, err
		}
		return extreme.Keyed(m), nil
	}
}

// dataFromJSON accepts a record or a bare JSON value.
func dataFromJSON(b []byte) (extreme.Data, error) {
	var probe map[string]json.RawMessage
	if json.Unmarshal(b, &probe) == nil {
		if _, ok := probe["values"]; ok {
			rec, err := ReadJSON(bytes.NewReader(b))
			if err != nil {
				return extreme.Data{}, err
			}
			return rec.Data(), nil
		}
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return extreme.Data{}, fmt.Errorf("decode: %w", err)
	}
	return extreme.Infer(v)
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return "csv"
	case ".json":
		return "json"
	}
	return ""
}
