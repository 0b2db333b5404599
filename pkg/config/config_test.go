package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/swmmcosim/pkg/control"
	"github.com/matzehuels/swmmcosim/pkg/errors"
	"github.com/matzehuels/swmmcosim/pkg/solver"
)

const sample = `
model = "gate.inp"
trace = "gate.yaml"
units = "SI"
sampling_period = 900
entities = ["C-5", "R-4"]
attributes = "flow"
show_mass_balance = true

[[rules]]
attribute = "flow"
entity = "C-5"
op = ">="
threshold = 2
target = "R-4"
then = 0
else = 1
`

func TestDecode(t *testing.T) {
	c, err := Decode(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if c.Model != "gate.inp" || c.Trace != "gate.yaml" || c.SamplingPeriod != 900 {
		t.Errorf("config = %+v", c)
	}
	if !c.Entities.Many || len(c.Entities.Items) != 2 {
		t.Errorf("Entities = %+v, want a list of two", c.Entities)
	}
	if c.Attributes.Many || len(c.Attributes.Items) != 1 {
		t.Errorf("Attributes = %+v, want a single name", c.Attributes)
	}

	rules, err := c.ControlRules()
	if err != nil {
		t.Fatalf("ControlRules: %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("rules = %d, want 1", len(rules))
	}
	if got := rules[0].String(); got != "if flow of C-5 >= 2 set R-4 to 0 else 1" {
		t.Errorf("rule = %q", got)
	}
	if rules[0].Op != control.OpGE {
		t.Errorf("Op = %q", rules[0].Op)
	}
}

func TestOptions(t *testing.T) {
	c, err := Decode(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	opts, err := c.Options(nil)
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if opts.Units != solver.SI || opts.SamplingPeriod != 900 || !opts.ShowMassBalance {
		t.Errorf("options = %+v", opts)
	}
	if !opts.Entities.IsMany() || opts.Entities.Len() != 2 {
		t.Errorf("Entities = %+v", opts.Entities)
	}
	if opts.Attributes.IsMany() || opts.Attributes.Items()[0] != solver.Flow {
		t.Errorf("Attributes = %+v", opts.Attributes)
	}
	if opts.Control == nil {
		t.Error("Control is nil, want compiled rules")
	}
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"missing model", `units = "SI"`, "model: field is required"},
		{"bad units", "model = \"m.inp\"\nunits = \"metric\"", "units"},
		{"bad period", "model = \"m.inp\"\nsampling_period = -5", "sampling_period"},
		{"input attribute", "model = \"m.inp\"\nattributes = [\"invert\"]", "invert"},
		{"unknown attribute", "model = \"m.inp\"\nattributes = \"colour\"", "colour"},
		{"empty entity", "model = \"m.inp\"\nentities = [\"\"]", "entities"},
		{"entity number", "model = \"m.inp\"\nentities = [1]", ""},
		{"unknown key", "model = \"m.inp\"\nstep = 5", "step"},
		{"bad op", "model = \"m.inp\"\n[[rules]]\nattribute = \"flow\"\nentity = \"C\"\nop = \"=>\"\ntarget = \"R\"", "rules[0].op"},
		{"rule attribute", "model = \"m.inp\"\n[[rules]]\nattribute = \"length\"\nentity = \"C\"\nop = \">\"\ntarget = \"R\"", "live attribute"},
		{"rule target", "model = \"m.inp\"\n[[rules]]\nattribute = \"flow\"\nentity = \"C\"\nop = \">\"", "rules[0].target"},
		{"syntax", "model = ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src))
			if !errors.Is(err, errors.ErrCodeInvalidParameter) {
				t.Fatalf("error = %v, want INVALID_PARAMETER", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.toml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Units != "SI" {
		t.Errorf("Units = %q", c.Units)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Load(missing) succeeded")
	}
}
