package cosim

import (
	"context"

	"go.uber.org/multierr"

	"github.com/matzehuels/swmmcosim/pkg/errors"
	"github.com/matzehuels/swmmcosim/pkg/solver"
)

// teardown tracks which lifecycle calls a session has seen so that end and
// close run at most once each.
type teardown struct {
	s       solver.Session
	opened  bool
	started bool
	ended   bool
	closed  bool
}

func (t *teardown) open(model string) error {
	if err := t.s.Open(model); err != nil {
		return lifecycle("open", err)
	}
	t.opened = true
	return nil
}

func (t *teardown) start() error {
	if err := t.s.Start(true); err != nil {
		return lifecycle("start", err)
	}
	t.started = true
	return nil
}

func (t *teardown) end() error {
	if !t.started || t.ended {
		return nil
	}
	t.ended = true
	return lifecycle("end", t.s.End())
}

func (t *teardown) close() error {
	if !t.opened || t.closed {
		return nil
	}
	t.closed = true
	return lifecycle("close", t.s.Close())
}

// release ends (if started) and closes (if opened) the session.
func (t *teardown) release() error {
	return multierr.Append(t.end(), t.close())
}

// finish ends the run, collects the mass balance, saves report and results
// when the session supports it, and closes the session. Close is attempted
// even when an earlier call fails.
func finish(s solver.Session, t *teardown) (solver.MassBalance, error) {
	if err := t.end(); err != nil {
		return solver.MassBalance{}, multierr.Append(err, t.close())
	}
	mb, err := s.MassBalance()
	if err != nil {
		return solver.MassBalance{}, multierr.Append(lifecycle("mass balance", err), t.close())
	}
	if rep, ok := s.(solver.Reporter); ok {
		if err := rep.SaveReport(); err != nil {
			return solver.MassBalance{}, multierr.Append(lifecycle("save report", err), t.close())
		}
		if err := rep.SaveResults(); err != nil {
			return solver.MassBalance{}, multierr.Append(lifecycle("save results", err), t.close())
		}
	}
	if err := t.close(); err != nil {
		return solver.MassBalance{}, err
	}
	return mb, nil
}

// Initialize opens model and starts it with reporting enabled, for callers
// that drive the step loop themselves. A failed start closes the session.
// Pair it with [Finish].
func Initialize(s solver.Session, model string) error {
	if err := errors.ValidateModelPath(model); err != nil {
		return err
	}
	t := &teardown{s: s}
	if err := t.open(model); err != nil {
		return err
	}
	if err := t.start(); err != nil {
		return multierr.Append(err, t.close())
	}
	return nil
}

// Finish ends a session started with [Initialize], returns its mass
// balance, saves report and results when supported, and closes it.
func Finish(s solver.Session) (solver.MassBalance, error) {
	return finish(s, &teardown{s: s, opened: true, started: true})
}

// LinkAreas returns the cross-section area of each link after the first
// routing step. It runs its own short session and releases it before
// returning.
func LinkAreas(ctx context.Context, s solver.Session, model string, ids []string, units solver.Units) (areas map[string]float64, err error) {
	if len(ids) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "no links given")
	}
	for _, id := range ids {
		if err := errors.ValidateID("link", id); err != nil {
			return nil, err
		}
	}
	if !units.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "unknown unit system %d", int(units))
	}
	if err := errors.ValidateModelPath(model); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := acquire(); err != nil {
		return nil, err
	}
	defer busy.Unlock()

	t := &teardown{s: s}
	defer func() {
		if err != nil {
			err = multierr.Append(err, t.release())
			areas = nil
		}
	}()

	if err := t.open(model); err != nil {
		return nil, err
	}
	if err := t.start(); err != nil {
		return nil, err
	}
	if _, err := s.Step(); err != nil {
		return nil, &StepError{Step: 1, Err: lifecycle("step", err)}
	}

	areas = make(map[string]float64, len(ids))
	for _, id := range ids {
		v, err := s.Get(id, solver.LinkArea, units)
		if err != nil {
			return nil, lifecycle("get link area of "+id, err)
		}
		areas[id] = v
	}
	if _, err := finish(s, t); err != nil {
		return nil, err
	}
	return areas, nil
}
