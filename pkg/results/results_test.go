package results

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/swmmcosim/pkg/cosim"
	"github.com/matzehuels/swmmcosim/pkg/errors"
	"github.com/matzehuels/swmmcosim/pkg/extreme"
	"github.com/matzehuels/swmmcosim/pkg/solver"
	"github.com/matzehuels/swmmcosim/pkg/solver/playback"
)

const twoPipes = `
model: pipes.inp
units: US
step_seconds: 900
steps: 4
mass_balance: {runoff: 0, flow: 0.25, quality: 0}
series:
  C-5:
    flow: [1, 5, 2, 3]
  C-6:
    flow: [4, 0, 9, 1]
`

func runRecord(t *testing.T) *cosim.Record {
	t.Helper()
	tr, err := playback.ReadTrace(strings.NewReader(twoPipes))
	if err != nil {
		t.Fatalf("ReadTrace: %v", err)
	}
	rec, err := cosim.Cosimulate(context.Background(), playback.New(tr), "pipes.inp", cosim.Options{
		Entities:   cosim.Many("C-5", "C-6"),
		Attributes: cosim.One(solver.Flow),
		RunID:      "run-1",
	})
	if err != nil {
		t.Fatalf("Cosimulate: %v", err)
	}
	return rec
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(runRecord(t), &buf); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	want := "time_hours,C-5:flow,C-6:flow\n0,1,4\n0.25,5,0\n0.5,2,9\n0.75,3,1\n"
	if got := buf.String(); got != want {
		t.Errorf("WriteCSV =\n%s\nwant\n%s", got, want)
	}
}

func TestJSONRecord(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(runRecord(t), &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if !strings.Contains(buf.String(), `"attributes": [
    "flow"
  ]`) {
		t.Errorf("attributes not written by name:\n%s", buf.String())
	}

	rec, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if rec.RunID != "run-1" || rec.Units != solver.US || rec.MassBalance.Flow != 0.25 {
		t.Errorf("record = %+v", rec)
	}
	got, ok := rec.Series("C-6", solver.Flow)
	if !ok || !slices.Equal(got, []float64{4, 0, 9, 1}) {
		t.Errorf("Series(C-6, flow) = %v, %v", got, ok)
	}
}

func TestReadJSON_Shape(t *testing.T) {
	src := `{"entities": ["A"], "attributes": ["flow"], "time": [0, 1], "values": [[[1]]]}`
	if _, err := ReadJSON(strings.NewReader(src)); !errors.Is(err, errors.ErrCodeShape) {
		t.Errorf("error = %v, want SHAPE", err)
	}
}

func TestLoadData(t *testing.T) {
	dir := t.TempDir()
	rec := runRecord(t)
	if err := Export(rec, filepath.Join(dir, "run.json"), ""); err != nil {
		t.Fatalf("Export json: %v", err)
	}
	if err := Export(rec, filepath.Join(dir, "run.csv"), ""); err != nil {
		t.Fatalf("Export csv: %v", err)
	}
	write := func(name, content string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("nested.json", "[[1, 9, 2], [7, 3, 8]]")
	write("keyed.json", `{"C-1": 3, "C-2": 7}`)
	write("info.dat", "T-1 3.5\nT-2 1.25\n")

	tests := []struct {
		file  string
		shape extreme.Shape
		want  extreme.Extreme
	}{
		{"run.json", extreme.ShapeNested2, extreme.Extreme{Value: 9, Index: 1}},
		{"run.csv", extreme.ShapeNested2, extreme.Extreme{Value: 9, Index: 1}},
		{"nested.json", extreme.ShapeNested2, extreme.Extreme{Value: 9, Index: 0}},
		{"keyed.json", extreme.ShapeKeyed, extreme.Extreme{Value: 7, Index: 1, Key: "C-2"}},
		{"info.dat", extreme.ShapeKeyed, extreme.Extreme{Value: 3.5, Index: 0, Key: "T-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			d, err := LoadData(filepath.Join(dir, tt.file))
			if err != nil {
				t.Fatalf("LoadData: %v", err)
			}
			if d.Shape() != tt.shape {
				t.Errorf("Shape() = %s, want %s", d.Shape(), tt.shape)
			}
			got, err := extreme.Max(d)
			if err != nil {
				t.Fatalf("Max: %v", err)
			}
			if len(got) != 1 || got[0] != tt.want {
				t.Errorf("Max = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReadCSV_Errors(t *testing.T) {
	for _, src := range []string{
		"",
		"hours,A:flow\n0,1\n",
		"time_hours\n0\n",
		"time_hours,A:flow\n0,high\n",
	} {
		if _, _, err := ReadCSV(strings.NewReader(src)); !errors.Is(err, errors.ErrCodeShape) {
			t.Errorf("ReadCSV(%q) error = %v, want SHAPE", src, err)
		}
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	if err := Export(&cosim.Record{}, filepath.Join(t.TempDir(), "run.out"), "xml"); err == nil {
		t.Error("Export(xml) succeeded")
	}
}
