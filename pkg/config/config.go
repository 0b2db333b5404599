// Package config loads co-simulation run configurations.
//
// A configuration is a TOML file:
//
//	model = "gate.inp"
//	trace = "gate.yaml"
//	units = "SI"
//	sampling_period = 900
//	entities = ["C-5", "R-4"]
//	attributes = "flow"
//
//	[[rules]]
//	attribute = "flow"
//	entity = "C-5"
//	op = ">="
//	threshold = 2
//	target = "R-4"
//	then = 0
//	else = 1
//
// Entities and attributes accept either a single string or a list. A single
// string drops the corresponding dimension from the sampled data, a list
// keeps it even with one element.
package config

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/swmmcosim/pkg/control"
	"github.com/matzehuels/swmmcosim/pkg/cosim"
	"github.com/matzehuels/swmmcosim/pkg/errors"
	"github.com/matzehuels/swmmcosim/pkg/solver"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("live", func(fl validator.FieldLevel) bool {
		a, err := solver.ParseAttribute(fl.Field().String())
		return err == nil && a.IsLive()
	})
	return v
}

// Config is a run configuration.
type Config struct {
	Model           string    `toml:"model" validate:"required"`
	Trace           string    `toml:"trace"`
	Units           string    `toml:"units" validate:"omitempty,oneof=US SI"`
	SamplingPeriod  int       `toml:"sampling_period" validate:"omitempty,min=1"`
	Entities        Selection `toml:"entities"`
	Attributes      Selection `toml:"attributes"`
	ShowMassBalance bool      `toml:"show_mass_balance"`
	Rules           []Rule    `toml:"rules" validate:"dive"`
	Metrics         string    `toml:"metrics"`
	Output          string    `toml:"output"`
	Format          string    `toml:"format" validate:"omitempty,oneof=json csv"`
}

// Selection is a string or a list of strings.
type Selection struct {
	Items []string `validate:"dive,required"`
	Many  bool
}

// UnmarshalTOML implements toml.Unmarshaler.
func (s *Selection) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case string:
		*s = Selection{Items: []string{v}}
	case []any:
		items := make([]string, 0, len(v))
		for _, e := range v {
			str, ok := e.(string)
			if !ok {
				return errors.New(errors.ErrCodeTypeMismatch, "list element %v is %T, want string", e, e)
			}
			items = append(items, str)
		}
		*s = Selection{Items: items, Many: true}
	default:
		return errors.New(errors.ErrCodeTypeMismatch, "got %T, want a string or a list of strings", v)
	}
	return nil
}

// Rule is a threshold control rule, see package control.
type Rule struct {
	Attribute string   `toml:"attribute" validate:"required,live"`
	Entity    string   `toml:"entity" validate:"required"`
	Op        string   `toml:"op" validate:"required,oneof=> >= < <= == !="`
	Threshold float64  `toml:"threshold"`
	Target    string   `toml:"target" validate:"required"`
	Then      float64  `toml:"then"`
	Else      *float64 `toml:"else"`
}

// Decode reads and validates a configuration. Unknown keys are rejected.
func Decode(r io.Reader) (*Config, error) {
	var c Config
	md, err := toml.NewDecoder(r).Decode(&c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidParameter, err, "decode config")
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "unknown config key %q", keys[0].String())
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	c, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Validate checks the configuration's fields.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return validationError(err)
	}
	for _, name := range c.Attributes.Items {
		a, err := solver.ParseAttribute(name)
		if err != nil {
			return err
		}
		if err := solver.ValidateLive(a); err != nil {
			return err
		}
	}
	return nil
}

// Options converts the configuration into driver options.
func (c *Config) Options(logger *log.Logger) (cosim.Options, error) {
	opts := cosim.Options{
		SamplingPeriod:  c.SamplingPeriod,
		ShowMassBalance: c.ShowMassBalance,
		Logger:          logger,
	}
	if c.Units != "" {
		u, err := solver.ParseUnits(c.Units)
		if err != nil {
			return cosim.Options{}, err
		}
		opts.Units = u
	}

	if c.Entities.Many {
		opts.Entities = cosim.Many(c.Entities.Items...)
	} else if len(c.Entities.Items) == 1 {
		opts.Entities = cosim.One(c.Entities.Items[0])
	}

	attrs := make([]solver.Attribute, 0, len(c.Attributes.Items))
	for _, name := range c.Attributes.Items {
		a, err := solver.ParseAttribute(name)
		if err != nil {
			return cosim.Options{}, err
		}
		attrs = append(attrs, a)
	}
	if c.Attributes.Many {
		opts.Attributes = cosim.Many(attrs...)
	} else if len(attrs) == 1 {
		opts.Attributes = cosim.One(attrs[0])
	}

	if len(c.Rules) > 0 {
		rules, err := c.ControlRules()
		if err != nil {
			return cosim.Options{}, err
		}
		if opts.Control, err = control.Compile(rules); err != nil {
			return cosim.Options{}, err
		}
	}
	return opts, nil
}

// ControlRules converts the configured rules.
func (c *Config) ControlRules() ([]control.Rule, error) {
	out := make([]control.Rule, 0, len(c.Rules))
	for i, r := range c.Rules {
		attr, err := solver.ParseAttribute(r.Attribute)
		if err != nil {
			return nil, fmt.Errorf("rules[%d]: %w", i, err)
		}
		out = append(out, control.Rule{
			Entity:    r.Entity,
			Attribute: attr,
			Op:        control.Op(r.Op),
			Threshold: r.Threshold,
			Target:    r.Target,
			Then:      r.Then,
			Else:      r.Else,
		})
	}
	return out, nil
}

// validationError turns the first validator failure into an
// INVALID_PARAMETER error naming the TOML key.
func validationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidParameter, err, "invalid config")
	}
	e := verrs[0]
	field := strings.TrimPrefix(e.Namespace(), "Config.")
	switch e.Tag() {
	case "required":
		return errors.New(errors.ErrCodeInvalidParameter, "%s: field is required", field)
	case "min":
		return errors.New(errors.ErrCodeInvalidParameter, "%s: must be at least %s", field, e.Param())
	case "oneof":
		return errors.New(errors.ErrCodeInvalidParameter, "%s: %v is not one of [%s]", field, e.Value(), e.Param())
	case "live":
		return errors.New(errors.ErrCodeInvalidParameter, "%s: %v is not a live attribute (want one of %s)",
			field, e.Value(), strings.Join(solver.LiveAttributeNames(), ", "))
	default:
		return errors.New(errors.ErrCodeInvalidParameter, "%s: validation failed (%s)", field, e.Tag())
	}
}
