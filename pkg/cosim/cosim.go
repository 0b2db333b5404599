// Package cosim drives a step-by-step co-simulation with an external
// hydraulic solver.
//
// [Cosimulate] opens a model, starts it with reporting enabled and advances
// it one routing step at a time until the solver reports completion. Along
// the way it samples requested telemetry at a fixed period of simulated
// time and hands control to an optional hook after every step. It returns a
// [Record] with the sampled series and the mass-balance result.
//
// # Sampling
//
// Before each step the driver derives the sampling clock, the elapsed time in
// whole seconds (floor of hours*3600*100, integer-divided by 100). When the
// clock is a multiple of the sampling period, the pre-step elapsed time is
// appended to the time series and, once the step has completed, the values
// of every requested entity and attribute are read. Both decisions use the
// same pre-step clock, so time and value series always have equal length.
//
// # Lifecycle
//
// The solver session is process-wide: a second run while one is in progress
// fails with SESSION_BUSY. Whatever happens after a successful open, the
// session is released: a failed start closes it, and any later failure ends
// and closes it (each exactly once) before the error is returned. Parameter
// errors are reported before the session is touched.
package cosim

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/matzehuels/swmmcosim/pkg/errors"
	"github.com/matzehuels/swmmcosim/pkg/observability"
	"github.com/matzehuels/swmmcosim/pkg/solver"
)

// busy guards the process-wide solver session.
var busy sync.Mutex

func acquire() error {
	if !busy.TryLock() {
		return errors.New(errors.ErrCodeSessionBusy, "a solver session is already in use")
	}
	return nil
}

// StepError reports a failure inside the step loop.
type StepError struct {
	Step         int     // steps completed, including a failing one
	ElapsedHours float64 // simulated time when the failure occurred
	Err          error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("step %d at %.4f h: %v", e.Step, e.ElapsedHours, e.Err)
}

// Unwrap returns the underlying error.
func (e *StepError) Unwrap() error { return e.Err }

// Cosimulate runs model to completion on s.
//
// On success the returned record is complete. On failure no record is
// returned; the error carries the failing category (see package errors) and,
// for failures inside the loop, a [*StepError] with the step number.
// Cancelling ctx stops the run between steps, with the usual teardown.
func Cosimulate(ctx context.Context, s solver.Session, model string, opts Options) (*Record, error) {
	p, err := opts.resolve()
	if err != nil {
		return nil, err
	}
	if err := errors.ValidateModelPath(model); err != nil {
		return nil, err
	}
	if err := acquire(); err != nil {
		return nil, err
	}
	defer busy.Unlock()

	if p.runID == "" {
		p.runID = uuid.NewString()
	}
	r := &run{p: p, s: s, model: model, td: &teardown{s: s}}
	return r.execute(ctx)
}

type run struct {
	p     *plan
	s     solver.Session
	model string
	td    *teardown
}

func (r *run) execute(ctx context.Context) (_ *Record, err error) {
	p, logger := r.p, r.p.logger
	hooks := observability.Run()
	began := time.Now()
	rec := newRecord(p, r.model)

	defer func() {
		if err != nil {
			err = multierr.Append(err, r.td.release())
			logger.Error("run failed", "run", p.runID, "steps", rec.Steps, "err", err)
		}
		hooks.OnRunComplete(ctx, p.runID, rec.Steps, time.Since(began), err)
	}()

	if err := r.td.open(r.model); err != nil {
		return nil, err
	}
	if err := r.td.start(); err != nil {
		return nil, err
	}
	hooks.OnRunStart(ctx, p.runID, r.model)
	logger.Info("run started", "run", p.runID, "model", r.model, "entities", len(p.entities),
		"attributes", len(p.attributes), "period", p.period, "units", p.units)

	ctl := &Controller{ctx: ctx, session: r.s, units: p.units, runID: p.runID, logger: logger}
	elapsed := 0.0
	for {
		if err := ctx.Err(); err != nil {
			return nil, &StepError{Step: rec.Steps, ElapsedHours: elapsed, Err: err}
		}

		clock := int64(math.Floor(elapsed*3600*100)) / 100
		sample := clock%p.period == 0
		if sample {
			rec.Time = append(rec.Time, elapsed)
		}

		next, err := r.s.Step()
		rec.Steps++
		if err != nil {
			return nil, &StepError{Step: rec.Steps, ElapsedHours: elapsed, Err: lifecycle("step", err)}
		}
		if sample && p.sampling() {
			if err := r.collect(rec); err != nil {
				return nil, &StepError{Step: rec.Steps, ElapsedHours: next, Err: err}
			}
			logger.Debug("sampled", "run", p.runID, "step", rec.Steps, "hours", elapsed)
		}
		hooks.OnStep(ctx, p.runID, rec.Steps, next, sample)

		if p.control != nil {
			ctl.step, ctl.elapsed = rec.Steps, next
			if err := p.control(ctx, ctl); err != nil {
				return nil, &StepError{Step: rec.Steps, ElapsedHours: next, Err: err}
			}
		}

		if next == 0 {
			break
		}
		elapsed = next
	}

	mb, err := finish(r.s, r.td)
	if err != nil {
		return nil, err
	}
	rec.MassBalance = mb
	logger.Info("run complete", "run", p.runID, "steps", rec.Steps, "samples", rec.Samples(),
		"duration", time.Since(began).Round(time.Millisecond))
	if p.showMB {
		logger.Info(mb.String())
	}
	return rec, nil
}

// collect reads one sample of every requested entity and attribute.
func (r *run) collect(rec *Record) error {
	for a, attr := range r.p.attributes {
		for e, id := range r.p.entities {
			v, err := r.s.Get(id, attr, r.p.units)
			if err != nil {
				return lifecycle(fmt.Sprintf("get %s of %s", attr, id), err)
			}
			rec.Values[a][e] = append(rec.Values[a][e], v)
		}
	}
	return nil
}

// lifecycle annotates a session error with the failing operation. Errors
// that already carry a code keep it; anything else is a SESSION_LIFECYCLE
// failure.
func lifecycle(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.GetCode(err) != "" {
		return fmt.Errorf("%s: %w", op, err)
	}
	return errors.Wrap(errors.ErrCodeSessionLifecycle, err, "%s", op)
}
