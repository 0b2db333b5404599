// Package extreme finds the maximum or minimum of sampled results and where
// it occurred.
//
// Results come in four shapes, described explicitly by [Data]: a flat series,
// a keyed mapping, a 2D nesting (one series per entity) and a 3D nesting (one
// series per attribute per entity). Producers that know their shape build the
// variant directly; decoded JSON of unknown shape goes through [Infer].
//
//	d := extreme.Nested2([][]float64{{1, 9, 2}, {7, 3, 8}})
//	x, _ := extreme.Max(d) // x[0] == Extreme{Value: 9, Index: 0}
package extreme

import (
	"maps"
	"math"
	"slices"

	"github.com/matzehuels/swmmcosim/pkg/errors"
)

// Shape identifies the nesting of a [Data] value.
type Shape int

const (
	ShapeFlat Shape = iota
	ShapeKeyed
	ShapeNested2
	ShapeNested3
)

func (s Shape) String() string {
	switch s {
	case ShapeFlat:
		return "flat"
	case ShapeKeyed:
		return "keyed"
	case ShapeNested2:
		return "nested2"
	case ShapeNested3:
		return "nested3"
	}
	return "unknown"
}

// Data is a tagged numeric collection. Construct it with [Flat], [Keyed],
// [Nested2] or [Nested3].
type Data struct {
	shape Shape
	flat  []float64
	keyed map[string]float64
	n2    [][]float64
	n3    [][][]float64
}

// Flat wraps a single series.
func Flat(v []float64) Data { return Data{shape: ShapeFlat, flat: v} }

// Keyed wraps a mapping from key to value.
func Keyed(m map[string]float64) Data { return Data{shape: ShapeKeyed, keyed: m} }

// Nested2 wraps one series per group.
func Nested2(v [][]float64) Data { return Data{shape: ShapeNested2, n2: v} }

// Nested3 wraps one 2D nesting per top-level group.
func Nested3(v [][][]float64) Data { return Data{shape: ShapeNested3, n3: v} }

// Shape returns the variant tag.
func (d Data) Shape() Shape { return d.shape }

// Extreme is an optimal value and its position.
//
// For flat data Index is the position in the series. For 2D data it is the
// row holding the extreme. For keyed data Key names the entry and Index is
// its position among the sorted keys.
type Extreme struct {
	Value float64 `json:"value"`
	Index int     `json:"index"`
	Key   string  `json:"key,omitempty"`
}

// Find returns the extreme of d: the maximum when wantMax is set, else the
// minimum. Flat, keyed and 2D data yield one result; 3D data yields one
// result per top-level group, each computed as for 2D data.
//
// Empty collections (at any level) and NaN values fail with SHAPE. Ties are
// resolved in favour of the first position.
func Find(d Data, wantMax bool) ([]Extreme, error) {
	better := func(a, b float64) bool { return a < b }
	if wantMax {
		better = func(a, b float64) bool { return a > b }
	}

	switch d.shape {
	case ShapeFlat:
		x, err := best(d.flat, better)
		if err != nil {
			return nil, err
		}
		return []Extreme{x}, nil

	case ShapeKeyed:
		if len(d.keyed) == 0 {
			return nil, errors.New(errors.ErrCodeShape, "empty mapping")
		}
		keys := slices.Sorted(maps.Keys(d.keyed))
		values := make([]float64, len(keys))
		for i, k := range keys {
			values[i] = d.keyed[k]
		}
		x, err := best(values, better)
		if err != nil {
			return nil, err
		}
		x.Key = keys[x.Index]
		return []Extreme{x}, nil

	case ShapeNested2:
		x, err := reduce2(d.n2, better)
		if err != nil {
			return nil, err
		}
		return []Extreme{x}, nil

	case ShapeNested3:
		if len(d.n3) == 0 {
			return nil, errors.New(errors.ErrCodeShape, "empty collection")
		}
		out := make([]Extreme, 0, len(d.n3))
		for i, group := range d.n3 {
			x, err := reduce2(group, better)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeShape, err, "group %d", i)
			}
			out = append(out, x)
		}
		return out, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidParameter, "unknown data shape %d", int(d.shape))
}

// Max is Find with wantMax set.
func Max(d Data) ([]Extreme, error) { return Find(d, true) }

// Min is Find with wantMax unset.
func Min(d Data) ([]Extreme, error) { return Find(d, false) }

// reduce2 reduces each row to its extreme and returns the extreme among the
// row extremes together with its row index.
func reduce2(rows [][]float64, better func(a, b float64) bool) (Extreme, error) {
	if len(rows) == 0 {
		return Extreme{}, errors.New(errors.ErrCodeShape, "empty collection")
	}
	rowBest := make([]float64, len(rows))
	for i, row := range rows {
		x, err := best(row, better)
		if err != nil {
			return Extreme{}, errors.Wrap(errors.ErrCodeShape, err, "row %d", i)
		}
		rowBest[i] = x.Value
	}
	return best(rowBest, better)
}

func best(values []float64, better func(a, b float64) bool) (Extreme, error) {
	if len(values) == 0 {
		return Extreme{}, errors.New(errors.ErrCodeShape, "empty collection")
	}
	x := Extreme{Value: values[0]}
	for i, v := range values {
		if math.IsNaN(v) {
			return Extreme{}, errors.New(errors.ErrCodeShape, "value at %d is not a number", i)
		}
		if better(v, x.Value) {
			x = Extreme{Value: v, Index: i}
		}
	}
	return x, nil
}
