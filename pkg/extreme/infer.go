package extreme

import (
	"encoding/json"

	"github.com/matzehuels/swmmcosim/pkg/errors"
)

// maxDepth is the deepest nesting Find supports.
const maxDepth = 3

// Infer classifies a decoded value and wraps it as [Data].
//
// Accepted inputs are maps from string to number, and slices nested one to
// three levels deep whose leaves are numbers. Both the generic forms produced
// by encoding/json ([]any, map[string]any, float64, json.Number) and typed
// float64 slices are understood. Nesting of four or more levels fails with
// INVALID_PARAMETER; empty collections, ragged nesting and non-numeric leaves
// fail with SHAPE.
func Infer(v any) (Data, error) {
	switch t := v.(type) {
	case Data:
		return t, nil
	case map[string]float64:
		return Keyed(t), nil
	case map[string]any:
		if len(t) == 0 {
			return Data{}, errors.New(errors.ErrCodeShape, "empty mapping")
		}
		m := make(map[string]float64, len(t))
		for k, e := range t {
			f, ok := number(e)
			if !ok {
				return Data{}, errors.New(errors.ErrCodeShape, "value for key %q is not a number", k)
			}
			m[k] = f
		}
		return Keyed(m), nil
	case []float64:
		return Flat(t), nil
	case [][]float64:
		return Nested2(t), nil
	case [][][]float64:
		return Nested3(t), nil
	}

	depth, err := probe(v)
	if err != nil {
		return Data{}, err
	}
	switch depth {
	case 1:
		f, err := toFlat(v)
		return Flat(f), err
	case 2:
		n, err := toNested2(v)
		return Nested2(n), err
	case 3:
		items := v.([]any)
		n := make([][][]float64, len(items))
		for i, item := range items {
			g, err := toNested2(item)
			if err != nil {
				return Data{}, errors.Wrap(errors.ErrCodeShape, err, "group %d", i)
			}
			n[i] = g
		}
		return Nested3(n), nil
	}
	return Data{}, errors.New(errors.ErrCodeInvalidParameter, "nesting depth %d exceeds %d", depth, maxDepth)
}

// probe follows the first element down to a leaf and returns the depth.
func probe(v any) (int, error) {
	depth := 0
	for {
		items, ok := v.([]any)
		if !ok {
			if depth == 0 {
				return 0, errors.New(errors.ErrCodeShape, "unsupported value of type %T", v)
			}
			return depth, nil
		}
		depth++
		if depth > maxDepth {
			return depth, nil
		}
		if len(items) == 0 {
			return 0, errors.New(errors.ErrCodeShape, "empty collection")
		}
		v = items[0]
	}
}

func toFlat(v any) ([]float64, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, errors.New(errors.ErrCodeShape, "expected a list, got %T", v)
	}
	out := make([]float64, len(items))
	for i, item := range items {
		f, ok := number(item)
		if !ok {
			return nil, errors.New(errors.ErrCodeShape, "value at %d is not a number", i)
		}
		out[i] = f
	}
	return out, nil
}

func toNested2(v any) ([][]float64, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, errors.New(errors.ErrCodeShape, "expected a list, got %T", v)
	}
	out := make([][]float64, len(items))
	for i, item := range items {
		row, err := toFlat(item)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeShape, err, "row %d", i)
		}
		out[i] = row
	}
	return out, nil
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
