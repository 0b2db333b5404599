package cosim

import (
	"slices"

	"github.com/matzehuels/swmmcosim/pkg/extreme"
	"github.com/matzehuels/swmmcosim/pkg/solver"
)

// Record is the result of a completed run.
//
// Time holds the elapsed hours of every sampled step. Values is stored in a
// canonical [attribute][entity][sample] layout, with every innermost series
// as long as Time. [Record.Data] presents it in the shape that was requested.
type Record struct {
	RunID          string             `json:"run_id"`
	Model          string             `json:"model"`
	Units          solver.Units       `json:"units"`
	SamplingPeriod int                `json:"sampling_period"`
	Steps          int                `json:"steps"`
	Entities       []string           `json:"entities"`
	Attributes     []solver.Attribute `json:"attributes"`

	// SingleEntity and SingleAttribute record whether the selection was made
	// with One, which drops the corresponding rank from Data.
	SingleEntity    bool               `json:"single_entity"`
	SingleAttribute bool               `json:"single_attribute"`
	Time            []float64          `json:"time"`
	Values          [][][]float64      `json:"values"`
	MassBalance     solver.MassBalance `json:"mass_balance"`
}

func newRecord(p *plan, model string) *Record {
	r := &Record{
		RunID:           p.runID,
		Model:           model,
		Units:           p.units,
		SamplingPeriod:  int(p.period),
		Entities:        slices.Clone(p.entities),
		Attributes:      slices.Clone(p.attributes),
		SingleEntity:    p.oneEntity,
		SingleAttribute: p.oneAttr,
	}
	if p.sampling() {
		r.Values = make([][][]float64, len(p.attributes))
		for a := range r.Values {
			r.Values[a] = make([][]float64, len(p.entities))
		}
	}
	return r
}

// Samples returns the number of sampled steps.
func (r *Record) Samples() int { return len(r.Time) }

// Series returns the sampled values of one entity and attribute.
func (r *Record) Series(entity string, attr solver.Attribute) ([]float64, bool) {
	e := slices.Index(r.Entities, entity)
	a := slices.Index(r.Attributes, attr)
	if e < 0 || a < 0 || a >= len(r.Values) {
		return nil, false
	}
	return r.Values[a][e], true
}

// Data returns the sampled values in the requested shape: one series per
// entity for a single attribute, one series per entity per attribute for a
// collection of attributes. A single entity drops the entity rank likewise.
func (r *Record) Data() extreme.Data {
	if len(r.Values) == 0 {
		return extreme.Nested2(nil)
	}
	switch {
	case r.SingleAttribute && r.SingleEntity:
		return extreme.Flat(r.Values[0][0])
	case r.SingleAttribute:
		return extreme.Nested2(r.Values[0])
	case r.SingleEntity:
		rows := make([][]float64, len(r.Values))
		for a := range r.Values {
			rows[a] = r.Values[a][0]
		}
		return extreme.Nested2(rows)
	default:
		return extreme.Nested3(r.Values)
	}
}
