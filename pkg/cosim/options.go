package cosim

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/swmmcosim/pkg/errors"
	"github.com/matzehuels/swmmcosim/pkg/solver"
)

// ControlFunc is invoked once after every completed step, sampled or not.
// It may read live values and change settings through the controller but
// cannot advance or end the run. Returning an error aborts the run.
type ControlFunc func(ctx context.Context, c *Controller) error

// Options configures a co-simulation run.
type Options struct {
	// Entities names the monitored objects. When empty no values are sampled,
	// but the run and the control hook still execute every step.
	Entities OneOrMany[string]

	// Attributes selects what to read from each entity. Only live attributes
	// are accepted. Required when Entities is set.
	Attributes OneOrMany[solver.Attribute]

	// Units selects the unit system of sampled and controller-read values.
	Units solver.Units

	// SamplingPeriod is the sampling period in seconds of simulated time.
	// Zero means 1; negative values are rejected.
	SamplingPeriod int

	// Control is the optional per-step hook.
	Control ControlFunc

	// ShowMassBalance logs the mass-balance result at info level.
	ShowMassBalance bool

	// RunID identifies the run in logs, hooks and the record. A random UUID
	// is generated when empty.
	RunID string

	// Logger receives run progress. Nil discards.
	Logger *log.Logger
}

// plan is the validated, canonical form of Options.
type plan struct {
	entities   []string
	attributes []solver.Attribute
	oneEntity  bool
	oneAttr    bool
	units      solver.Units
	period     int64
	control    ControlFunc
	showMB     bool
	runID      string
	logger     *log.Logger
}

func (p *plan) sampling() bool { return len(p.entities) > 0 }

// resolve validates the options before any solver interaction.
func (o Options) resolve() (*plan, error) {
	if !o.Units.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "unknown unit system %d", int(o.Units))
	}
	period := o.SamplingPeriod
	if period == 0 {
		period = 1
	}
	if period < 1 {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "sampling period must be >= 1 second, got %d", o.SamplingPeriod)
	}

	for _, id := range o.Entities.Items() {
		if err := errors.ValidateID("entity", id); err != nil {
			return nil, err
		}
	}
	for _, a := range o.Attributes.Items() {
		if err := solver.ValidateLive(a); err != nil {
			return nil, err
		}
	}
	if !o.Entities.IsEmpty() && o.Attributes.IsEmpty() {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "entities given without attributes")
	}
	if o.RunID != "" {
		if err := errors.ValidateID("run", o.RunID); err != nil {
			return nil, err
		}
	}

	logger := o.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &plan{
		entities:   o.Entities.Items(),
		attributes: o.Attributes.Items(),
		oneEntity:  !o.Entities.IsMany(),
		oneAttr:    !o.Attributes.IsMany(),
		units:      o.Units,
		period:     int64(period),
		control:    o.Control,
		showMB:     o.ShowMassBalance,
		runID:      o.RunID,
		logger:     logger,
	}, nil
}
