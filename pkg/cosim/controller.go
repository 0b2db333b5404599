package cosim

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/swmmcosim/pkg/errors"
	"github.com/matzehuels/swmmcosim/pkg/observability"
	"github.com/matzehuels/swmmcosim/pkg/solver"
)

// Controller is the mutation surface handed to a [ControlFunc]. It exposes
// reads and setting changes on the running session; stepping and teardown
// stay with the driver.
type Controller struct {
	ctx     context.Context
	session solver.Session
	units   solver.Units
	runID   string
	logger  *log.Logger

	step    int
	elapsed float64
}

// RunID returns the identifier of the current run.
func (c *Controller) RunID() string { return c.runID }

// Step returns the number of completed steps.
func (c *Controller) Step() int { return c.step }

// ElapsedHours returns the simulated time reported by the last step. It is 0
// after the final step.
func (c *Controller) ElapsedHours() float64 { return c.elapsed }

// Get reads a live attribute in the run's unit system.
func (c *Controller) Get(id string, attr solver.Attribute) (float64, error) {
	if err := solver.ValidateLive(attr); err != nil {
		return 0, err
	}
	return c.session.Get(id, attr, c.units)
}

// SetSetting changes the setting of one controllable link.
func (c *Controller) SetSetting(id string, value float64) error {
	if err := errors.ValidateID("entity", id); err != nil {
		return err
	}
	if err := c.session.SetSetting(id, value); err != nil {
		return err
	}
	c.logger.Debug("setting changed", "run", c.runID, "step", c.step, "id", id, "value", value)
	observability.Run().OnSettingChange(c.ctx, c.runID, id, value)
	return nil
}

// SetSettings changes several settings at once; ids and values pair up by
// position. Mismatched or empty inputs are rejected before any change. On a
// failing change, earlier changes in the batch remain applied.
func (c *Controller) SetSettings(ids []string, values []float64) error {
	if len(ids) == 0 {
		return errors.New(errors.ErrCodeInvalidParameter, "no settings given")
	}
	if len(ids) != len(values) {
		return errors.New(errors.ErrCodeInvalidParameter, "%d ids but %d values", len(ids), len(values))
	}
	for _, id := range ids {
		if err := errors.ValidateID("entity", id); err != nil {
			return err
		}
	}
	for i, id := range ids {
		if err := c.SetSetting(id, values[i]); err != nil {
			return err
		}
	}
	return nil
}
