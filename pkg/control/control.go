// Package control compiles threshold rules into a co-simulation control hook.
//
// A rule watches one live attribute of one entity and drives the setting of
// another link:
//
//	if flow of C-5 >= 2 set R-4 to 0 else 1
//
// After every routing step each rule is evaluated against the freshly
// computed value. When the comparison holds the target receives the "then"
// setting, otherwise the "else" setting; rules without an else branch leave
// the target alone when the comparison fails. Rules are evaluated in order
// and a later rule on the same target overrides an earlier one within a step.
// A target is only written when its setting changes.
package control

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/swmmcosim/pkg/cosim"
	"github.com/matzehuels/swmmcosim/pkg/errors"
	"github.com/matzehuels/swmmcosim/pkg/solver"
)

// Op is a comparison operator.
type Op string

// Comparison operators.
const (
	OpGT Op = ">"
	OpGE Op = ">="
	OpLT Op = "<"
	OpLE Op = "<="
	OpEQ Op = "=="
	OpNE Op = "!="
)

// Ops lists the supported operators.
var Ops = []Op{OpGT, OpGE, OpLT, OpLE, OpEQ, OpNE}

// Valid reports whether op is a supported operator.
func (op Op) Valid() bool {
	switch op {
	case OpGT, OpGE, OpLT, OpLE, OpEQ, OpNE:
		return true
	}
	return false
}

// Compare applies the operator to v and threshold.
func (op Op) Compare(v, threshold float64) bool {
	switch op {
	case OpGT:
		return v > threshold
	case OpGE:
		return v >= threshold
	case OpLT:
		return v < threshold
	case OpLE:
		return v <= threshold
	case OpEQ:
		return v == threshold
	case OpNE:
		return v != threshold
	}
	return false
}

// Rule is one threshold rule.
type Rule struct {
	Entity    string
	Attribute solver.Attribute
	Op        Op
	Threshold float64
	Target    string
	Then      float64
	Else      *float64
}

// String renders the rule in the syntax accepted by [Parse].
func (r Rule) String() string {
	s := fmt.Sprintf("if %s of %s %s %s set %s to %s",
		r.Attribute, r.Entity, r.Op, num(r.Threshold), r.Target, num(r.Then))
	if r.Else != nil {
		s += " else " + num(*r.Else)
	}
	return s
}

// Validate checks the rule's fields.
func (r Rule) Validate() error {
	if err := errors.ValidateID("entity", r.Entity); err != nil {
		return err
	}
	if err := errors.ValidateID("target", r.Target); err != nil {
		return err
	}
	if err := solver.ValidateLive(r.Attribute); err != nil {
		return err
	}
	if !r.Op.Valid() {
		return errors.New(errors.ErrCodeInvalidParameter, "unknown operator %q", string(r.Op))
	}
	return nil
}

// Parse reads a rule of the form
//
//	if <attribute> of <entity> <op> <threshold> set <target> to <value> [else <value>]
//
// Keywords are case-insensitive.
func Parse(s string) (Rule, error) {
	f := strings.Fields(s)
	if len(f) != 10 && len(f) != 12 {
		return Rule{}, syntax(s)
	}
	for i, kw := range map[int]string{0: "if", 2: "of", 6: "set", 8: "to"} {
		if !strings.EqualFold(f[i], kw) {
			return Rule{}, syntax(s)
		}
	}
	if len(f) == 12 && !strings.EqualFold(f[10], "else") {
		return Rule{}, syntax(s)
	}

	attr, err := solver.ParseAttribute(f[1])
	if err != nil {
		return Rule{}, err
	}
	r := Rule{Attribute: attr, Entity: f[3], Op: Op(f[4]), Target: f[7]}
	if r.Threshold, err = parseNum(s, f[5]); err != nil {
		return Rule{}, err
	}
	if r.Then, err = parseNum(s, f[9]); err != nil {
		return Rule{}, err
	}
	if len(f) == 12 {
		v, err := parseNum(s, f[11])
		if err != nil {
			return Rule{}, err
		}
		r.Else = &v
	}
	if err := r.Validate(); err != nil {
		return Rule{}, fmt.Errorf("rule %q: %w", s, err)
	}
	return r, nil
}

// ParseAll parses a list of rules.
func ParseAll(lines []string) ([]Rule, error) {
	rules := make([]Rule, 0, len(lines))
	for _, l := range lines {
		r, err := Parse(l)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// Compile validates rules and returns a control hook applying them. The
// hook keeps the last setting written per target, so each returned function
// belongs to a single run.
func Compile(rules []Rule) (cosim.ControlFunc, error) {
	if len(rules) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "no control rules given")
	}
	for i, r := range rules {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
	}
	rules = append([]Rule(nil), rules...)
	applied := make(map[string]float64)

	return func(_ context.Context, c *cosim.Controller) error {
		var (
			targets []string
			want    = make(map[string]float64)
		)
		for _, r := range rules {
			v, err := c.Get(r.Entity, r.Attribute)
			if err != nil {
				return fmt.Errorf("rule %q: %w", r, err)
			}
			setting := r.Then
			if !r.Op.Compare(v, r.Threshold) {
				if r.Else == nil {
					continue
				}
				setting = *r.Else
			}
			if _, seen := want[r.Target]; !seen {
				targets = append(targets, r.Target)
			}
			want[r.Target] = setting
		}

		var ids []string
		var values []float64
		for _, t := range targets {
			if last, ok := applied[t]; ok && last == want[t] {
				continue
			}
			ids = append(ids, t)
			values = append(values, want[t])
		}
		if len(ids) == 0 {
			return nil
		}
		if err := c.SetSettings(ids, values); err != nil {
			return err
		}
		for i, id := range ids {
			applied[id] = values[i]
		}
		return nil
	}, nil
}

func syntax(s string) error {
	return errors.New(errors.ErrCodeInvalidParameter,
		"rule %q: want \"if <attribute> of <entity> <op> <threshold> set <target> to <value> [else <value>]\"", s)
}

func parseNum(rule, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidParameter, err, "rule %q: %q is not a number", rule, s)
	}
	return v, nil
}

func num(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
