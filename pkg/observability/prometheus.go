package observability

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/swmmcosim/pkg/errors"
)

// PrometheusHooks implements [RunHooks] with Prometheus collectors.
type PrometheusHooks struct {
	gatherer prometheus.Gatherer

	Runs           *prometheus.CounterVec
	Steps          prometheus.Counter
	SampledSteps   prometheus.Counter
	SettingChanges *prometheus.CounterVec
	RunDuration    prometheus.Histogram
	ElapsedHours   prometheus.Gauge
}

var _ RunHooks = (*PrometheusHooks)(nil)

// NewPrometheusHooks registers run metrics against reg, defaulting to the
// global Prometheus registry when nil. Registering twice against the same
// registry reuses the existing collectors.
func NewPrometheusHooks(reg prometheus.Registerer) (*PrometheusHooks, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	runs, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cosim_runs_total",
		Help: "Completed co-simulation runs, labeled by outcome (ok or the error code).",
	}, []string{"outcome"}))
	if err != nil {
		return nil, err
	}
	steps, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cosim_steps_total",
		Help: "Solver steps advanced across all runs.",
	}))
	if err != nil {
		return nil, err
	}
	sampled, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cosim_sampled_steps_total",
		Help: "Solver steps that fell on a sampling boundary.",
	}))
	if err != nil {
		return nil, err
	}
	settings, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cosim_setting_changes_total",
		Help: "Setting changes issued by control logic, labeled by entity.",
	}, []string{"entity"}))
	if err != nil {
		return nil, err
	}
	duration, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cosim_run_duration_seconds",
		Help:    "Wall-clock duration of co-simulation runs.",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300, 900},
	}))
	if err != nil {
		return nil, err
	}
	elapsed, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cosim_elapsed_hours",
		Help: "Simulated hours reached by the most recent step.",
	}))
	if err != nil {
		return nil, err
	}

	return &PrometheusHooks{
		gatherer:       gatherer,
		Runs:           runs,
		Steps:          steps,
		SampledSteps:   sampled,
		SettingChanges: settings,
		RunDuration:    duration,
		ElapsedHours:   elapsed,
	}, nil
}

// OnRunStart resets the elapsed-time gauge.
func (h *PrometheusHooks) OnRunStart(context.Context, string, string) {
	h.ElapsedHours.Set(0)
}

// OnStep counts the step and tracks simulated time.
func (h *PrometheusHooks) OnStep(_ context.Context, _ string, _ int, elapsedHours float64, sampled bool) {
	h.Steps.Inc()
	if sampled {
		h.SampledSteps.Inc()
	}
	if elapsedHours > 0 {
		h.ElapsedHours.Set(elapsedHours)
	}
}

// OnSettingChange counts the change per entity.
func (h *PrometheusHooks) OnSettingChange(_ context.Context, _ string, id string, _ float64) {
	h.SettingChanges.WithLabelValues(id).Inc()
}

// OnRunComplete records the outcome and duration.
func (h *PrometheusHooks) OnRunComplete(_ context.Context, _ string, _ int, d time.Duration, err error) {
	h.Runs.WithLabelValues(outcome(err)).Inc()
	h.RunDuration.Observe(d.Seconds())
}

// WriteTextfile writes the gathered metrics in the text exposition format,
// suitable for the node_exporter textfile collector.
func (h *PrometheusHooks) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, h.gatherer); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if code := errors.GetCode(err); code != "" {
		return string(code)
	}
	return "error"
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if stderrors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
			return c, fmt.Errorf("collector already registered with incompatible type: %w", err)
		}
		return c, err
	}
	return c, nil
}
