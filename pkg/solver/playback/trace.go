package playback

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/swmmcosim/pkg/errors"
	"github.com/matzehuels/swmmcosim/pkg/solver"
)

// Trace is a recorded solver run.
//
// Step k (1-based) reports an elapsed time of k*StepSeconds; the final step
// (k == Steps) reports 0, the solver's completion signal. Series values are
// indexed by step: Series[id][attr][k-1] is the value observed after step k.
// A series shorter than Steps holds its last value.
//
//	model: 3tanks.inp
//	units: SI
//	step_seconds: 60
//	steps: 120
//	mass_balance: {runoff: 0.01, flow: -0.12, quality: 0}
//	series:
//	  C-5:
//	    flow: [0.0, 0.4, 1.1, 2.3]
//	  R-4:
//	    setting: [1]
type Trace struct {
	Model       string                          `yaml:"model"`
	Units       string                          `yaml:"units"`
	StepSeconds float64                         `yaml:"step_seconds"`
	Steps       int                             `yaml:"steps"`
	MassBalance solver.MassBalance              `yaml:"mass_balance"`
	Series      map[string]map[string][]float64 `yaml:"series"`

	units  solver.Units
	series map[string]map[solver.Attribute][]float64
}

// ReadTrace decodes a trace from r. JSON input is accepted as well, since
// it is valid YAML.
func ReadTrace(r io.Reader) (*Trace, error) {
	var t Trace
	if err := yaml.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("decode trace: %w", err)
	}
	if err := t.compile(); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadTrace reads a trace file.
func LoadTrace(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	t, err := ReadTrace(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// UnitSystem returns the unit system the trace values are recorded in.
func (t *Trace) UnitSystem() solver.Units { return t.units }

// compile validates the trace and resolves attribute and unit names.
func (t *Trace) compile() error {
	if t.Steps < 1 {
		return errors.New(errors.ErrCodeInvalidParameter, "trace must contain at least one step, got %d", t.Steps)
	}
	if t.StepSeconds <= 0 {
		return errors.New(errors.ErrCodeInvalidParameter, "trace step_seconds must be positive, got %v", t.StepSeconds)
	}

	t.units = solver.US
	if strings.TrimSpace(t.Units) != "" {
		u, err := solver.ParseUnits(t.Units)
		if err != nil {
			return err
		}
		t.units = u
	}

	t.series = make(map[string]map[solver.Attribute][]float64, len(t.Series))
	for id, attrs := range t.Series {
		if err := errors.ValidateID("entity", id); err != nil {
			return err
		}
		resolved := make(map[solver.Attribute][]float64, len(attrs))
		for name, values := range attrs {
			a, err := solver.ParseAttribute(name)
			if err != nil {
				return fmt.Errorf("series %s: %w", id, err)
			}
			if err := solver.ValidateLive(a); err != nil {
				return fmt.Errorf("series %s: %w", id, err)
			}
			if len(values) == 0 {
				return errors.New(errors.ErrCodeInvalidParameter, "series %s/%s is empty", id, name)
			}
			resolved[a] = values
		}
		t.series[id] = resolved
	}
	return nil
}

// value returns the recorded value of id/attr after the given step (1-based),
// holding the last sample when the series is shorter than the run.
func (t *Trace) value(id string, attr solver.Attribute, step int) (float64, error) {
	attrs, ok := t.series[id]
	if !ok {
		return 0, errors.New(errors.ErrCodeNotFound, "object %q not found", id)
	}
	values, ok := attrs[attr]
	if !ok {
		return 0, errors.New(errors.ErrCodeAttributeMismatch, "attribute %s not recorded for object %q", attr, id)
	}
	i := min(max(step-1, 0), len(values)-1)
	return values[i], nil
}
