package extreme

import (
	"encoding/json"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/swmmcosim/pkg/errors"
)

func TestFind(t *testing.T) {
	tests := []struct {
		name    string
		data    Data
		wantMax bool
		want    []Extreme
	}{
		{"flat max", Flat([]float64{3, 7, 7, 1}), true, []Extreme{{Value: 7, Index: 1}}},
		{"flat min", Flat([]float64{3, 7, 7, 1}), false, []Extreme{{Value: 1, Index: 3}}},
		{"keyed max", Keyed(map[string]float64{"b": 4, "a": 2, "c": 4}), true, []Extreme{{Value: 4, Index: 1, Key: "b"}}},
		{"nested2 max", Nested2([][]float64{{1, 9, 2}, {7, 3, 8}}), true, []Extreme{{Value: 9, Index: 0}}},
		{"nested2 min", Nested2([][]float64{{1, 9, 2}, {7, 0, 8}}), false, []Extreme{{Value: 0, Index: 1}}},
		{
			"nested3 max",
			Nested3([][][]float64{
				{{1, 9, 2}, {7, 3, 8}},
				{{0, 1}, {5, 2}, {4, 4}},
			}),
			true,
			[]Extreme{{Value: 9, Index: 0}, {Value: 5, Index: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Find(tt.data, tt.wantMax)
			if err != nil {
				t.Fatalf("Find() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Find() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFind_ShapeErrors(t *testing.T) {
	tests := []struct {
		name string
		data Data
	}{
		{"empty flat", Flat(nil)},
		{"empty keyed", Keyed(map[string]float64{})},
		{"empty row", Nested2([][]float64{{1}, {}})},
		{"empty group", Nested3([][][]float64{{{1}}, {}})},
		{"nan", Flat([]float64{1, math.NaN()})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Max(tt.data); !errors.Is(err, errors.ErrCodeShape) {
				t.Errorf("Max() error = %v, want SHAPE", err)
			}
		})
	}
}

func decode(t *testing.T, src string) any {
	t.Helper()
	var v any
	if err := json.NewDecoder(strings.NewReader(src)).Decode(&v); err != nil {
		t.Fatalf("decode %s: %v", src, err)
	}
	return v
}

func TestInfer(t *testing.T) {
	tests := []struct {
		src   string
		shape Shape
		want  []Extreme
	}{
		{`[2, 5, 1]`, ShapeFlat, []Extreme{{Value: 5, Index: 1}}},
		{`{"C-5": 1.5, "C-6": 0.5}`, ShapeKeyed, []Extreme{{Value: 1.5, Index: 0, Key: "C-5"}}},
		{`[[1, 9, 2], [7, 3, 8]]`, ShapeNested2, []Extreme{{Value: 9, Index: 0}}},
		{`[[[1], [4]], [[6], [2]]]`, ShapeNested3, []Extreme{{Value: 4, Index: 1}, {Value: 6, Index: 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			d, err := Infer(decode(t, tt.src))
			if err != nil {
				t.Fatalf("Infer() error = %v", err)
			}
			if d.Shape() != tt.shape {
				t.Errorf("Shape() = %s, want %s", d.Shape(), tt.shape)
			}
			got, err := Max(d)
			if err != nil {
				t.Fatalf("Max() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Max() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestInfer_Errors(t *testing.T) {
	tests := []struct {
		src  string
		code errors.Code
	}{
		{`[]`, errors.ErrCodeShape},
		{`{}`, errors.ErrCodeShape},
		{`["a", "b"]`, errors.ErrCodeShape},
		{`{"a": "x"}`, errors.ErrCodeShape},
		{`[[1, 2], 3]`, errors.ErrCodeShape},
		{`[[[[1]]]]`, errors.ErrCodeInvalidParameter},
		{`3`, errors.ErrCodeShape},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := Infer(decode(t, tt.src))
			if !errors.Is(err, tt.code) {
				t.Errorf("Infer(%s) error = %v, want %s", tt.src, err, tt.code)
			}
		})
	}
}
