// Package records reads the line-oriented record files solvers use to dump
// object tables: one object per line, either a bare identifier or an
// identifier and a value separated by whitespace.
//
//	C-1 J-1
//	C-2 J-2
//	OR-1 T-1
package records

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/swmmcosim/pkg/errors"
)

// Entry is one key/value record.
type Entry struct {
	Key   string
	Value string
}

// ReadPlain returns the trimmed, non-empty lines of r.
func ReadPlain(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			out = append(out, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	return out, nil
}

// ReadKeyed returns the key/value records of r in file order. A repeated key
// replaces the earlier value in place. Lines with a key but no value fail
// with INVALID_PARAMETER.
func ReadKeyed(r io.Reader) ([]Entry, error) {
	var out []Entry
	index := make(map[string]int)
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, " ")
		if !ok {
			key, value, ok = strings.Cut(line, "\t")
		}
		value = strings.TrimSpace(value)
		if !ok || value == "" {
			return nil, errors.New(errors.ErrCodeInvalidParameter, "line %d: record %q has no value", n, line)
		}
		if i, seen := index[key]; seen {
			out[i].Value = value
			continue
		}
		index[key] = len(out)
		out = append(out, Entry{Key: key, Value: value})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	return out, nil
}

// Floats converts keyed records to numbers.
func Floats(entries []Entry) (map[string]float64, error) {
	out := make(map[string]float64, len(entries))
	for _, e := range entries {
		v, err := strconv.ParseFloat(e.Value, 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidParameter, err, "record %q: value %q is not a number", e.Key, e.Value)
		}
		out[e.Key] = v
	}
	return out, nil
}

// Strings converts keyed records to a map.
func Strings(entries []Entry) map[string]string {
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		out[e.Key] = e.Value
	}
	return out
}

// LoadKeyed reads a keyed record file.
func LoadKeyed(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadKeyed(f)
}

// LoadFloats reads a keyed record file with numeric values.
func LoadFloats(path string) (map[string]float64, error) {
	entries, err := LoadKeyed(path)
	if err != nil {
		return nil, err
	}
	return Floats(entries)
}
