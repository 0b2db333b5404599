// Package inp reads the network tables of a solver model input file.
//
// Input files are divided into bracketed sections. Lines starting with ';'
// are comments and columns are separated by whitespace:
//
//	[JUNCTIONS]
//	;;Name  Elevation  MaxDepth
//	J-1     96.0       4
//
//	[CONDUITS]
//	;;Name  From  To   Length
//	C-1     J-1   J-2  400
//
// Only the sections needed to derive a network topology are interpreted;
// everything else is skipped.
package inp

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/swmmcosim/pkg/errors"
	"github.com/matzehuels/swmmcosim/pkg/solver"
	"github.com/matzehuels/swmmcosim/pkg/topology"
)

// Node sections carry the invert elevation in their second column.
var nodeSections = map[string]bool{
	"JUNCTIONS": true,
	"OUTFALLS":  true,
	"STORAGE":   true,
	"DIVIDERS":  true,
}

// Regulator sections connect two nodes without a routing length. They are
// read into the orifice table.
var regulatorSections = map[string]bool{
	"ORIFICES": true,
	"WEIRS":    true,
	"OUTLETS":  true,
	"PUMPS":    true,
}

// Model is the part of an input file relevant to topology and units.
type Model struct {
	Title      string
	FlowUnits  string // FLOW_UNITS option, upper-cased; empty if absent
	Network    topology.Description
	Regulators map[string]string // regulator ID -> section it came from
}

// Units returns the unit system implied by the flow units: CFS, GPM and MGD
// are US customary, anything else is SI. Models without a FLOW_UNITS option
// default to US, as the solver does.
func (m *Model) Units() solver.Units {
	switch m.FlowUnits {
	case "", "CFS", "GPM", "MGD":
		return solver.US
	default:
		return solver.SI
	}
}

// Graph builds the topology graph of the model.
func (m *Model) Graph() (*topology.Graph, error) {
	return topology.Build(m.Network)
}

// Read parses an input file.
func Read(r io.Reader) (*Model, error) {
	m := &Model{
		Network: topology.Description{
			Links:    make(map[string]topology.Endpoint),
			Orifices: make(map[string]topology.Endpoint),
			Inverts:  make(map[string]float64),
		},
		Regulators: make(map[string]string),
	}

	var section string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for n := 1; sc.Scan(); n++ {
		line := stripComment(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "[") {
			section = strings.ToUpper(strings.Trim(line, "[] \t"))
			continue
		}
		if err := m.parseLine(section, line); err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read input file: %w", err)
	}
	return m, nil
}

// Load parses the input file at path.
func Load(path string) (*Model, error) {
	if err := errors.ValidateModelPath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	m, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func (m *Model) parseLine(section, line string) error {
	fields := strings.Fields(line)
	switch {
	case section == "TITLE":
		if m.Title == "" {
			m.Title = line
		}
	case section == "OPTIONS":
		if len(fields) >= 2 && strings.EqualFold(fields[0], "FLOW_UNITS") {
			m.FlowUnits = strings.ToUpper(fields[1])
		}
	case nodeSections[section]:
		if len(fields) < 2 {
			return errors.New(errors.ErrCodeInvalidParameter, "[%s] %q: want name and invert", section, line)
		}
		invert, err := number(section, fields[0], fields[1])
		if err != nil {
			return err
		}
		m.Network.Inverts[fields[0]] = invert
	case section == "CONDUITS":
		if len(fields) < 4 {
			return errors.New(errors.ErrCodeInvalidParameter, "[%s] %q: want name, from, to and length", section, line)
		}
		length, err := number(section, fields[0], fields[3])
		if err != nil {
			return err
		}
		m.Network.Links[fields[0]] = topology.Endpoint{From: fields[1], To: fields[2], Length: length}
	case regulatorSections[section]:
		if len(fields) < 3 {
			return errors.New(errors.ErrCodeInvalidParameter, "[%s] %q: want name, from and to", section, line)
		}
		m.Network.Orifices[fields[0]] = topology.Endpoint{From: fields[1], To: fields[2]}
		m.Regulators[fields[0]] = section
	}
	return nil
}

func number(section, id, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidParameter, err, "[%s] %s: %q is not a number", section, id, s)
	}
	return v, nil
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}
