package cli

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/swmmcosim/pkg/config"
	"github.com/matzehuels/swmmcosim/pkg/control"
	"github.com/matzehuels/swmmcosim/pkg/cosim"
	"github.com/matzehuels/swmmcosim/pkg/errors"
	"github.com/matzehuels/swmmcosim/pkg/extreme"
	"github.com/matzehuels/swmmcosim/pkg/inp"
	"github.com/matzehuels/swmmcosim/pkg/observability"
	"github.com/matzehuels/swmmcosim/pkg/results"
	"github.com/matzehuels/swmmcosim/pkg/solver"
	"github.com/matzehuels/swmmcosim/pkg/solver/playback"
)

// runFlags holds the flag values of the run command.
type runFlags struct {
	config      string
	trace       string
	entities    []string
	attributes  []string
	units       string
	period      int
	rules       []string
	massBalance bool
	metrics     string
	out         string
	format      string
	runID       string
}

func (c *CLI) runCommand() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run [model.inp]",
		Short: "Run a co-simulation against a recorded trace",
		Long: `Run a co-simulation against a recorded solver trace.

The trace supplies the solver's step-by-step values; the driver samples the
requested entities and attributes, applies control rules after every step and
reports the mass balance at the end. Settings come from an optional TOML
config file and can be overridden with flags.

A single --entity or --attribute yields data without that dimension; repeat
the flag to keep it.`,
		Example: `  # Sample the flow of two conduits every 15 minutes
  cosim run gate.inp --trace gate.yaml -e C-5 -e C-6 -a flow --period 900

  # Close a gate while the upstream flow is high and export the samples
  cosim run gate.inp --trace gate.yaml -e R-4 -a setting \
    --rule "if flow of C-5 >= 2 set R-4 to 0 else 1" -o run.csv

  # Use a config file and write Prometheus metrics
  cosim run -c run.toml --metrics cosim.prom`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCosim(cmd, args, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.config, "config", "c", "", "TOML run configuration")
	fl.StringVarP(&f.trace, "trace", "t", "", "recorded solver trace (YAML or JSON)")
	fl.StringSliceVarP(&f.entities, "entity", "e", nil, "entity to sample (repeatable)")
	fl.StringSliceVarP(&f.attributes, "attribute", "a", nil, "live attribute to sample (repeatable)")
	fl.StringVar(&f.units, "units", "", "unit system: US or SI (default: from the model)")
	fl.IntVar(&f.period, "period", 0, "sampling period in seconds of simulated time")
	fl.StringArrayVar(&f.rules, "rule", nil, `control rule, e.g. "if flow of C-5 >= 2 set R-4 to 0 else 1"`)
	fl.BoolVar(&f.massBalance, "mass-balance", false, "log the mass balance when the run completes")
	fl.StringVar(&f.metrics, "metrics", "", "write Prometheus metrics to this textfile")
	fl.StringVarP(&f.out, "out", "o", "", "write the sampled record to this file")
	fl.StringVar(&f.format, "format", "", "output format: json or csv (default: from the extension)")
	fl.StringVar(&f.runID, "run-id", "", "run identifier (default: random UUID)")

	return cmd
}

func (c *CLI) runCosim(cmd *cobra.Command, args []string, f runFlags) error {
	cfg, err := c.runConfig(cmd, args, f)
	if err != nil {
		return err
	}
	if cfg.Trace == "" {
		return errors.New(errors.ErrCodeInvalidParameter, "no trace given (use --trace or the trace key)")
	}

	prog := newProgress(c.Logger)
	trace, err := playback.LoadTrace(cfg.Trace)
	if err != nil {
		return err
	}
	if cfg.Model == "" {
		cfg.Model = trace.Model
	}
	if cfg.Units == "" {
		cfg.Units = c.modelUnits(cfg.Model, trace)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Loaded trace of %d steps", trace.Steps))

	opts, err := cfg.Options(c.Logger)
	if err != nil {
		return err
	}
	opts.RunID = f.runID
	if len(f.rules) > 0 {
		rules, err := cfg.ControlRules()
		if err != nil {
			return err
		}
		extra, err := control.ParseAll(f.rules)
		if err != nil {
			return err
		}
		if opts.Control, err = control.Compile(append(rules, extra...)); err != nil {
			return err
		}
	}

	var (
		hooks []observability.RunHooks
		prom  *observability.PrometheusHooks
		sp    *spinner
	)
	if cfg.Metrics != "" {
		if prom, err = observability.NewPrometheusHooks(prometheus.NewRegistry()); err != nil {
			return err
		}
		hooks = append(hooks, prom)
	}
	if !c.verbose {
		sp = newSpinner(cmd.Context(), c.errOut, "opening "+cfg.Model)
		sp.Start()
		defer sp.Stop()
		hooks = append(hooks, sp)
	}
	observability.SetRunHooks(observability.Multi(hooks...))
	defer observability.Reset()

	rec, runErr := cosim.Cosimulate(cmd.Context(), playback.New(trace), cfg.Model, opts)
	if sp != nil {
		sp.Stop()
	}
	if prom != nil {
		if err := prom.WriteTextfile(cfg.Metrics); err != nil {
			c.Logger.Warn("metrics not written", "err", err)
		}
	}
	if runErr != nil {
		return runErr
	}

	c.printRecord(rec)
	p := c.printer()
	if cfg.Output != "" {
		if err := results.Export(rec, cfg.Output, cfg.Format); err != nil {
			return err
		}
		p.file(cfg.Output)
	}
	if cfg.Metrics != "" {
		p.file(cfg.Metrics)
	}
	return nil
}

// runConfig merges the config file, positional model and flags.
func (c *CLI) runConfig(cmd *cobra.Command, args []string, f runFlags) (*config.Config, error) {
	cfg := &config.Config{}
	if f.config != "" {
		loaded, err := config.Load(f.config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		c.Logger.Debug("loaded config", "path", f.config)
	}

	fl := cmd.Flags()
	if len(args) == 1 {
		cfg.Model = args[0]
	}
	if fl.Changed("trace") {
		cfg.Trace = f.trace
	}
	if fl.Changed("entity") {
		cfg.Entities = config.Selection{Items: f.entities, Many: len(f.entities) > 1}
	}
	if fl.Changed("attribute") {
		cfg.Attributes = config.Selection{Items: f.attributes, Many: len(f.attributes) > 1}
	}
	if fl.Changed("units") {
		cfg.Units = f.units
	}
	if fl.Changed("period") {
		cfg.SamplingPeriod = f.period
	}
	if fl.Changed("mass-balance") {
		cfg.ShowMassBalance = f.massBalance
	}
	if fl.Changed("metrics") {
		cfg.Metrics = f.metrics
	}
	if fl.Changed("out") {
		cfg.Output = f.out
	}
	if fl.Changed("format") {
		cfg.Format = f.format
	}
	return cfg, nil
}

// modelUnits picks the unit system from the model's flow units when the
// model file can be read, and from the trace otherwise.
func (c *CLI) modelUnits(model string, trace *playback.Trace) string {
	if _, err := os.Stat(model); err == nil {
		m, err := inp.Load(model)
		if err == nil {
			c.Logger.Debug("units from model", "flow_units", m.FlowUnits, "units", m.Units())
			return m.Units().String()
		}
		c.Logger.Debug("model not readable, using trace units", "err", err)
	}
	return trace.UnitSystem().String()
}

// printRecord prints the run summary, mass balance and per-series extremes.
func (c *CLI) printRecord(rec *cosim.Record) {
	p := c.printer()
	p.success("Run %s complete", StyleNumber.Render(rec.RunID))
	p.keyValue("model", rec.Model)
	p.keyValue("steps", fmt.Sprint(rec.Steps))
	p.keyValue("samples", fmt.Sprint(rec.Samples()))
	p.keyValue("units", rec.Units.String())

	mb := rec.MassBalance
	p.table([]string{"Continuity", "Error %"}, [][]string{
		{"runoff", formatNumber(mb.Runoff)},
		{"flow routing", formatNumber(mb.Flow)},
		{"quality routing", formatNumber(mb.Quality)},
	})

	if rows := seriesExtremes(rec); len(rows) > 0 {
		p.table([]string{"Entity", "Attribute", "Min", "Max", "Max at (h)"}, rows)
	}
}

// seriesExtremes summarizes every sampled series of rec.
func seriesExtremes(rec *cosim.Record) [][]string {
	var rows [][]string
	for _, attr := range rec.Attributes {
		for _, id := range rec.Entities {
			series, ok := rec.Series(id, attr)
			if !ok || len(series) == 0 {
				continue
			}
			row := []string{id, attr.String(), "-", "-", "-"}
			if lo, err := extreme.Min(extreme.Flat(series)); err == nil {
				row[2] = formatNumber(lo[0].Value)
			}
			if hi, err := extreme.Max(extreme.Flat(series)); err == nil {
				row[3] = formatNumber(hi[0].Value)
				row[4] = formatNumber(rec.Time[hi[0].Index])
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// parseUnits resolves a --units flag, defaulting to US.
func parseUnits(s string) (solver.Units, error) {
	if s == "" {
		return solver.US, nil
	}
	return solver.ParseUnits(s)
}
