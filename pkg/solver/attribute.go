package solver

import (
	"slices"
	"strings"

	"github.com/matzehuels/swmmcosim/pkg/errors"
)

// Attribute selects an observable or settable quantity of an entity.
//
// Live attributes (200–209) can be read while a run is in progress. Input-file
// attributes (400–418) only exist in the model file and are rejected by the
// driver.
type Attribute int

// Live attributes.
const (
	Depth         Attribute = 200 // [LINK] [NODE]
	Volume        Attribute = 201 // [LINK] [NODE]
	Flow          Attribute = 202 // [LINK]
	Setting       Attribute = 203 // [LINK]
	Froude        Attribute = 204 // [LINK]
	Inflow        Attribute = 205 // [NODE]
	Flooding      Attribute = 206 // [NODE]
	Precipitation Attribute = 207 // [SUBCATCHMENT]
	Runoff        Attribute = 208 // [SUBCATCHMENT]
	LinkArea      Attribute = 209 // [LINK]
)

// Input-file attributes.
const (
	Invert    Attribute = 400 // [NODE]
	DepthSize Attribute = 401 // [LINK] [NODE]
	StorageA  Attribute = 402 // [NODE]
	StorageB  Attribute = 403 // [NODE]
	StorageC  Attribute = 404 // [NODE]
	Length    Attribute = 405 // [LINK]
	Roughness Attribute = 406 // [LINK]
	InOffset  Attribute = 407 // [LINK]
	OutOffset Attribute = 408 // [LINK]
	Area      Attribute = 409 // [SUBCATCHMENT]
	Imperv    Attribute = 410 // [SUBCATCHMENT]
	Width     Attribute = 411 // [SUBCATCHMENT]
	Slope     Attribute = 412 // [SUBCATCHMENT]
	Outlet    Attribute = 413 // [SUBCATCHMENT]
	FromNode  Attribute = 415 // [LINK]
	ToNode    Attribute = 416 // [LINK]
	WidthSize Attribute = 418 // [LINK]
)

var attributeNames = map[Attribute]string{
	Depth:         "depth",
	Volume:        "volume",
	Flow:          "flow",
	Setting:       "setting",
	Froude:        "froude",
	Inflow:        "inflow",
	Flooding:      "flooding",
	Precipitation: "precipitation",
	Runoff:        "runoff",
	LinkArea:      "link_area",
	Invert:        "invert",
	DepthSize:     "depth_size",
	StorageA:      "storage_a",
	StorageB:      "storage_b",
	StorageC:      "storage_c",
	Length:        "length",
	Roughness:     "roughness",
	InOffset:      "in_offset",
	OutOffset:     "out_offset",
	Area:          "area",
	Imperv:        "imperv",
	Width:         "width",
	Slope:         "slope",
	Outlet:        "outlet",
	FromNode:      "from_node",
	ToNode:        "to_node",
	WidthSize:     "width_size",
}

// String returns the lower-case name of the attribute.
func (a Attribute) String() string {
	if name, ok := attributeNames[a]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the attribute by name.
func (a Attribute) MarshalText() ([]byte, error) {
	if _, ok := attributeNames[a]; !ok {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "unrecognized attribute %d", int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText decodes an attribute name.
func (a *Attribute) UnmarshalText(b []byte) error {
	v, err := ParseAttribute(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// IsLive reports whether the attribute can be read during a run.
func (a Attribute) IsLive() bool { return a >= Depth && a <= LinkArea }

// IsInput reports whether the attribute only exists in the model input file.
func (a Attribute) IsInput() bool {
	_, named := attributeNames[a]
	return named && !a.IsLive()
}

// LiveAttributes returns all live attributes in numeric order.
func LiveAttributes() []Attribute {
	out := make([]Attribute, 0, LinkArea-Depth+1)
	for a := Depth; a <= LinkArea; a++ {
		out = append(out, a)
	}
	return out
}

// LiveAttributeNames returns the names of all live attributes, sorted.
func LiveAttributeNames() []string {
	var names []string
	for _, a := range LiveAttributes() {
		names = append(names, a.String())
	}
	slices.Sort(names)
	return names
}

// ParseAttribute resolves an attribute name (case-insensitive, "-" and "_"
// interchangeable). Both live and input-file attributes are recognised;
// callers that need a live attribute must check [Attribute.IsLive].
func ParseAttribute(name string) (Attribute, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for a, n := range attributeNames {
		if n == key {
			return a, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidParameter, "unknown attribute %q", name)
}

// ValidateLive returns an INVALID_PARAMETER error unless a is a live attribute.
func ValidateLive(a Attribute) error {
	if a.IsLive() {
		return nil
	}
	if a.IsInput() {
		return errors.New(errors.ErrCodeInvalidParameter, "attribute %s (%d) is only available from the input file", a, int(a))
	}
	return errors.New(errors.ErrCodeInvalidParameter, "unrecognized attribute %d", int(a))
}

// ObjectType identifies a class of network object.
type ObjectType int

// Object types.
const (
	Junction ObjectType = 0
	Subcatch ObjectType = 1
	Node     ObjectType = 2
	Link     ObjectType = 3
	Storage  ObjectType = 4
	Orifice  ObjectType = 414
	Outfall  ObjectType = 417
)

// String returns the lower-case name of the object type.
func (t ObjectType) String() string {
	switch t {
	case Junction:
		return "junction"
	case Subcatch:
		return "subcatchment"
	case Node:
		return "node"
	case Link:
		return "link"
	case Storage:
		return "storage"
	case Orifice:
		return "orifice"
	case Outfall:
		return "outfall"
	default:
		return "unknown"
	}
}

// Units selects the unit system values are reported in.
type Units int

// Unit systems.
const (
	US Units = 0
	SI Units = 1
)

// String returns "US" or "SI".
func (u Units) String() string {
	switch u {
	case US:
		return "US"
	case SI:
		return "SI"
	default:
		return "unknown"
	}
}

// Valid reports whether u is one of the two recognised unit systems.
func (u Units) Valid() bool { return u == US || u == SI }

// ParseUnits resolves "US" or "SI" (case-insensitive).
func ParseUnits(s string) (Units, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "US":
		return US, nil
	case "SI":
		return SI, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidParameter, "unknown unit system %q (want US or SI)", s)
}

// MarshalText encodes the unit system by name.
func (u Units) MarshalText() ([]byte, error) {
	if !u.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "unknown unit system %d", int(u))
	}
	return []byte(u.String()), nil
}

// UnmarshalText decodes "US" or "SI".
func (u *Units) UnmarshalText(b []byte) error {
	v, err := ParseUnits(string(b))
	if err != nil {
		return err
	}
	*u = v
	return nil
}
