// Package solver defines the capability set the co-simulation driver consumes
// from an external hydraulic/hydrologic solver.
//
// A [Session] wraps one run of the solver: open a model, start it, advance it
// step by step, read live attributes, change controllable settings, then end
// and close it. Any concrete binding (a native library, a replay of recorded
// telemetry, a test double) can implement it.
//
// The package also carries the numeric vocabulary shared with the solver:
// attribute selectors, unit systems, object types, the sentinel codes the
// solver returns in place of values, and the unit conversion factors applied
// when values are requested in SI.
package solver

import "fmt"

// Session is one run of the external solver.
//
// Implementations are not expected to be safe for concurrent use; the
// driver owns a session exclusively for the duration of a run.
type Session interface {
	// Open loads the model input file.
	Open(model string) error
	// Start initialises the run. writeReport enables report file output.
	Start(writeReport bool) error
	// Step advances the solver by one routing step and returns the elapsed
	// simulated time in hours. An elapsed time of exactly 0 signals that the
	// run is complete.
	Step() (float64, error)
	// Get reads a live attribute of an entity in the requested unit system.
	Get(id string, attr Attribute, units Units) (float64, error)
	// SetSetting changes the setting of a controllable link (e.g. an orifice
	// opening fraction) effective from the next step.
	SetSetting(id string, value float64) error
	// End finishes the run.
	End() error
	// MassBalance reports the continuity errors of a completed run.
	MassBalance() (MassBalance, error)
	// Close releases the model.
	Close() error
}

// Reporter is implemented by sessions that can persist their report and
// binary results once a run has ended.
type Reporter interface {
	SaveReport() error
	SaveResults() error
}

// MassBalance holds the continuity errors, in percent, reported once per
// completed run.
type MassBalance struct {
	Runoff  float64 `json:"runoff" yaml:"runoff"`   // runoff continuity error %
	Flow    float64 `json:"flow" yaml:"flow"`       // flow routing continuity error %
	Quality float64 `json:"quality" yaml:"quality"` // quality routing continuity error %
}

// String formats the three percentages the way the solver's report does.
func (m MassBalance) String() string {
	return fmt.Sprintf("runoff error: %.2f %%, flow routing error: %.2f %%, quality routing error: %.2f %%",
		m.Runoff, m.Flow, m.Quality)
}
