// Package playback provides a solver session that replays a recorded trace.
//
// A playback session honours the solver's lifecycle (open, start, step, end,
// close) and reports recorded telemetry step by step, which makes it suitable
// for dry runs of control logic against archived runs and for tests. Setting
// changes issued by a controller are recorded and read back through the
// setting attribute; they do not alter the other recorded series.
package playback

import (
	"github.com/matzehuels/swmmcosim/pkg/errors"
	"github.com/matzehuels/swmmcosim/pkg/solver"
)

type state int

const (
	stateClosed state = iota
	stateOpen
	stateRunning
	stateEnded
)

// SettingChange records one SetSetting call.
type SettingChange struct {
	Step  int     // number of steps completed when the change was made
	ID    string  // controlled entity
	Value float64 // new setting
}

// Session replays a [Trace]. The zero value is not usable; use New.
type Session struct {
	trace *Trace

	state       state
	step        int
	reportOn    bool
	settings    map[string]float64
	changes     []SettingChange
	reportSaved bool
}

var (
	_ solver.Session  = (*Session)(nil)
	_ solver.Reporter = (*Session)(nil)
)

// New creates a session that replays t.
func New(t *Trace) *Session {
	return &Session{trace: t}
}

// Open validates the model path and prepares the replay.
func (s *Session) Open(model string) error {
	if s.state != stateClosed {
		return solver.Lifecycle("open", solver.CodeIncoherent)
	}
	if err := errors.ValidateModelPath(model); err != nil {
		return errors.Wrap(errors.ErrCodeSessionLifecycle, err, "open")
	}
	s.state = stateOpen
	s.step = 0
	s.settings = make(map[string]float64)
	s.changes = nil
	s.reportSaved = false
	return nil
}

// Start begins the replay.
func (s *Session) Start(writeReport bool) error {
	if s.state != stateOpen {
		return solver.Lifecycle("start", solver.CodeNotRunning)
	}
	s.state = stateRunning
	s.reportOn = writeReport
	return nil
}

// Step advances the replay and returns the elapsed hours, or 0 after the
// final recorded step.
func (s *Session) Step() (float64, error) {
	if s.state != stateRunning || s.step >= s.trace.Steps {
		return 0, solver.Lifecycle("step", solver.CodeNotRunning)
	}
	s.step++
	if s.step == s.trace.Steps {
		return 0, nil
	}
	return float64(s.step) * s.trace.StepSeconds / 3600, nil
}

// Get reads the recorded value after the current step. Setting reads return
// the last value issued through SetSetting when there is one.
func (s *Session) Get(id string, attr solver.Attribute, units solver.Units) (float64, error) {
	if s.state != stateRunning {
		return 0, solver.Lifecycle("get", solver.CodeNotRunning)
	}
	if err := solver.ValidateLive(attr); err != nil {
		return 0, err
	}
	if !units.Valid() {
		return 0, errors.New(errors.ErrCodeInvalidParameter, "unknown unit system %d", int(units))
	}
	if attr == solver.Setting {
		if v, ok := s.settings[id]; ok {
			return v, nil
		}
	}
	v, err := s.trace.value(id, attr, s.step)
	if err != nil {
		return 0, err
	}
	return solver.Convert(attr, v, s.trace.units, units), nil
}

// SetSetting records a setting change for a recorded entity.
func (s *Session) SetSetting(id string, value float64) error {
	if s.state != stateRunning {
		return solver.Lifecycle("set", solver.CodeNotRunning)
	}
	if _, ok := s.trace.series[id]; !ok {
		return errors.New(errors.ErrCodeNotFound, "object %q not found", id)
	}
	s.settings[id] = value
	s.changes = append(s.changes, SettingChange{Step: s.step, ID: id, Value: value})
	return nil
}

// End finishes the replay.
func (s *Session) End() error {
	if s.state != stateRunning {
		return solver.Lifecycle("end", solver.CodeNotRunning)
	}
	s.state = stateEnded
	return nil
}

// MassBalance returns the recorded continuity errors.
func (s *Session) MassBalance() (solver.MassBalance, error) {
	if s.state != stateEnded {
		return solver.MassBalance{}, solver.Lifecycle("mass balance", solver.CodeNotOver)
	}
	return s.trace.MassBalance, nil
}

// SaveReport marks the report as written. It fails unless reporting was
// enabled at start.
func (s *Session) SaveReport() error {
	if s.state != stateEnded {
		return solver.Lifecycle("report", solver.CodeNotOver)
	}
	if !s.reportOn {
		return solver.Lifecycle("report", solver.CodeIncoherent)
	}
	s.reportSaved = true
	return nil
}

// SaveResults is a no-op for replays; recorded results already exist.
func (s *Session) SaveResults() error {
	if s.state != stateEnded {
		return solver.Lifecycle("results", solver.CodeNotOver)
	}
	return nil
}

// Close releases the replay. Closing an unopened session is an error.
func (s *Session) Close() error {
	if s.state == stateClosed {
		return solver.Lifecycle("close", solver.CodeNotRunning)
	}
	s.state = stateClosed
	return nil
}

// Changes returns the setting changes issued during the last run.
func (s *Session) Changes() []SettingChange { return s.changes }

// ReportSaved reports whether SaveReport succeeded during the last run.
func (s *Session) ReportSaved() bool { return s.reportSaved }
